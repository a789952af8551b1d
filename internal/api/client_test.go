package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSchema(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/schema", r.URL.Path)
		_ = json.NewEncoder(w).Encode(Schema{
			Target: "Exited",
			Fields: []SchemaField{
				{Name: "Age", Type: TypeNumeric},
				{Name: "Geography", Type: TypeCategorical, Values: []string{"France", "Germany"}},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	schema, err := client.GetSchema(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Exited", schema.Target)
	require.Len(t, schema.Fields, 2)
	assert.False(t, schema.Fields[0].IsCategorical())
	assert.True(t, schema.Fields[1].IsCategorical())
	assert.Equal(t, []string{"France", "Germany"}, schema.Fields[1].Values)
}

func TestGetSchemaUntrained(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Schema not available. Train the model first."})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.GetSchema(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Schema not available. Train the model first.", apiErr.Message)
}

func TestPredictSerializesRecord(t *testing.T) {
	var posted map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/predict", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&posted))
		_ = json.NewEncoder(w).Encode(Prediction{Prediction: 1, Probability: 0.8731})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	pred, err := client.Predict(context.Background(), map[string]any{"Age": 0.0, "Geography": "France"})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"Age": 0.0, "Geography": "France"}, posted)
	assert.Equal(t, 1.0, pred.Prediction)
	assert.InDelta(t, 0.8731, pred.Probability, 1e-9)
}

func TestTrainWithTarget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/train", r.URL.Path)
		require.Equal(t, "Exited", r.URL.Query().Get("target"))
		_ = json.NewEncoder(w).Encode(TrainResult{
			Message: "Model trained successfully",
			Target:  "Exited",
			Metrics: Metrics{
				Accuracy: 0.81,
				ConfusionMatrix: &ConfusionMatrix{
					TrueNegatives: 50, FalsePositives: 5, FalseNegatives: 3, TruePositives: 42,
				},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	result, err := client.Train(context.Background(), "Exited")
	require.NoError(t, err)

	assert.Equal(t, "Exited", result.Target)
	require.NotNil(t, result.Metrics.ConfusionMatrix)
	assert.Equal(t, 42, result.Metrics.ConfusionMatrix.TruePositives)
}

func TestPredictBatchMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/predict-batch", r.URL.Path)
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()

		assert.Equal(t, "customers.csv", header.Filename)
		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "Age,Geography\n40,France\n", string(content))

		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("Age,Geography,Prediction,Probability\n40,France,0,0.12\n"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	csv, err := client.PredictBatch(context.Background(), "customers.csv", strings.NewReader("Age,Geography\n40,France\n"))
	require.NoError(t, err)
	assert.Contains(t, csv, "Prediction,Probability")
}

func TestErrorMessageFallbacks(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"json detail", `{"detail":"Model not trained yet."}`, "Model not trained yet."},
		{"plain text", "something broke", "something broke"},
		{"empty body", "", "request failed with status 500"},
		{"json without detail", `{"error":"nope"}`, `{"error":"nope"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorMessage([]byte(tt.body), 500))
		})
	}
}

func TestTransportFailure(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	_, err := client.GetSchema(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr), "transport errors must not be APIError")
}
