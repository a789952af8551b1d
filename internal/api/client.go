package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds each request when no custom http.Client is supplied.
const DefaultTimeout = 30 * time.Second

// APIError is a non-2xx response from the service. The message is the
// response body, unwrapped from a {"detail": ...} envelope when present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("service returned %d: %s", e.Status, e.Message)
}

// Client talks to the churn prediction service.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for request debug logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured service URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetSchema fetches the input field schema. It fails with an APIError when
// the model has not been trained yet.
func (c *Client) GetSchema(ctx context.Context) (*Schema, error) {
	var schema Schema
	if err := c.getJSON(ctx, "/schema", &schema); err != nil {
		return nil, err
	}
	return &schema, nil
}

// Health checks service liveness.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var status HealthStatus
	if err := c.getJSON(ctx, "/health", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Train triggers model training. An empty target lets the service detect the
// target column itself.
func (c *Client) Train(ctx context.Context, target string) (*TrainResult, error) {
	path := "/train"
	if target != "" {
		path += "?target=" + url.QueryEscape(target)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, "")
	if err != nil {
		return nil, err
	}

	var result TrainResult
	if err := c.doJSON(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Predict posts a single record and returns the predicted label and
// probability. The record is serialized as one flat JSON object.
func (c *Client) Predict(ctx context.Context, record map[string]any) (*Prediction, error) {
	body, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/predict", bytes.NewReader(body), "application/json")
	if err != nil {
		return nil, err
	}

	var pred Prediction
	if err := c.doJSON(req, &pred); err != nil {
		return nil, err
	}
	return &pred, nil
}

// PredictBatch uploads a CSV file as multipart form data and returns the raw
// CSV text of the augmented response.
func (c *Client) PredictBatch(ctx context.Context, filename string, file io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/predict-batch", &buf, mw.FormDataContentType())
	if err != nil {
		return "", err
	}

	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read batch response: %w", err)
	}
	return string(body), nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

// do executes the request and converts non-2xx responses into APIError.
// The caller owns the response body on success.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	c.logger.Debug("request", "method", req.Method, "url", req.URL.String())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, &APIError{Status: resp.StatusCode, Message: errorMessage(body, resp.StatusCode)}
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	return c.doJSON(req, out)
}

func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorMessage extracts a readable message from an error response body.
// The service wraps errors as {"detail": "..."}; plain-text bodies are used
// verbatim and empty bodies fall back to a generic message.
func errorMessage(body []byte, status int) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return fmt.Sprintf("request failed with status %d", status)
	}

	var envelope struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Detail != "" {
		return envelope.Detail
	}
	return text
}
