package demo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/churnlabs/churnboard/internal/batch"
)

// Error messages returned while no model is trained. These match the real
// service so client error handling can be exercised against the stub.
const (
	errSchemaUnavailable = "Schema not available. Train the model first."
	errModelNotTrained   = "Model not trained yet. Please train the model first using the /train endpoint."
)

// Server is the demo prediction service.
type Server struct {
	addr   string
	logger *slog.Logger
	model  *model
}

// NewServer creates a demo server listening on addr.
func NewServer(addr string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{addr: addr, logger: logger, model: &model{}}
}

// Router builds the HTTP handler. Exposed separately from Serve so tests can
// mount it on httptest servers.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Get("/schema", s.handleSchema)
	r.Get("/model-info", s.handleModelInfo)
	r.Post("/train", s.handleTrain)
	r.Post("/predict", s.handlePredict)
	r.Post("/predict-batch", s.handlePredictBatch)

	return r
}

// Serve runs the HTTP server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("demo service listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("demo server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Churn Analysis API (demo)",
		"docs":    "/health, /schema, /train, /predict, /predict-batch, /model-info",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "healthy",
		"model_loaded": s.model.isTrained(),
	})
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	if !s.model.isTrained() {
		writeError(w, http.StatusBadRequest, errSchemaUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, s.model.schema())
}

func (s *Server) handleModelInfo(w http.ResponseWriter, r *http.Request) {
	if !s.model.isTrained() {
		writeError(w, http.StatusBadRequest, errModelNotTrained)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"model_type":    "demo-logistic",
		"target_column": s.model.schema().Target,
		"metrics":       demoMetrics(),
	})
}

func (s *Server) handleTrain(w http.ResponseWriter, r *http.Request) {
	result := s.model.train(r.URL.Query().Get("target"))
	s.logger.Info("model trained", "target", result.Target)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if !s.model.isTrained() {
		writeError(w, http.StatusBadRequest, errModelNotTrained)
		return
	}

	var record map[string]any
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return
	}

	if missing := missingColumns(record); len(missing) > 0 {
		writeError(w, http.StatusBadRequest, "Missing required columns: "+strings.Join(missing, ", "))
		return
	}

	writeJSON(w, http.StatusOK, s.model.score(record))
}

func (s *Server) handlePredictBatch(w http.ResponseWriter, r *http.Request) {
	if !s.model.isTrained() {
		writeError(w, http.StatusBadRequest, errModelNotTrained)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file upload: "+err.Error())
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read upload: "+err.Error())
		return
	}

	rows := batch.Parse(string(data))
	if len(rows) < 2 {
		writeError(w, http.StatusBadRequest, "CSV must contain a header row and at least one data row")
		return
	}

	out, err := s.scoreRows(rows)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	name := batch.DownloadName(filepath.Base(header.Filename))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", name))
	_, _ = w.Write([]byte(out))
}

// scoreRows appends Prediction and Probability columns to every data row.
// Row 0 is the header; cells are matched to schema fields by header name.
func (s *Server) scoreRows(rows [][]string) (string, error) {
	headers := rows[0]
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.TrimSpace(h)] = i
	}

	var missing []string
	for _, f := range demoFields() {
		if _, ok := index[f.Name]; !ok {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("Missing required columns: %s", strings.Join(missing, ", "))
	}

	var b strings.Builder
	b.WriteString(strings.Join(headers, ","))
	b.WriteString(",Prediction,Probability\n")

	for _, row := range rows[1:] {
		record := make(map[string]any, len(headers))
		for _, f := range demoFields() {
			i := index[f.Name]
			if i < len(row) {
				record[f.Name] = row[i]
			} else {
				record[f.Name] = ""
			}
		}
		pred := s.model.score(record)
		b.WriteString(strings.Join(row, ","))
		b.WriteString(fmt.Sprintf(",%g,%.6f\n", pred.Prediction, pred.Probability))
	}
	return b.String(), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits the service's {"detail": ...} error envelope.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
