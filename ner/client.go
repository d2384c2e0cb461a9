package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Span is a tagged span of query text with the model's confidence.
type Span struct {
	Text  string
	Score float64
}

// Recognizer tags entity spans in a query. Implementations may fail or be
// unavailable; the term extractor treats any error as an empty result.
type Recognizer interface {
	Recognize(ctx context.Context, text string) ([]Span, error)
}

// HTTPRecognizer implements Recognizer against a hosted token
// classification endpoint (Hugging Face inference style, as used for the
// legal-BERT model).
type HTTPRecognizer struct {
	endpoint string
	apiToken string
	client   *http.Client
}

// HTTPRecognizerOption is a functional option for HTTPRecognizer
type HTTPRecognizerOption func(*HTTPRecognizer)

// WithAPIToken sets the bearer token for the inference endpoint
func WithAPIToken(token string) HTTPRecognizerOption {
	return func(r *HTTPRecognizer) {
		r.apiToken = token
	}
}

// WithHTTPClient overrides the HTTP client
func WithHTTPClient(client *http.Client) HTTPRecognizerOption {
	return func(r *HTTPRecognizer) {
		r.client = client
	}
}

// NewHTTPRecognizer creates a recognizer that calls the given inference
// endpoint.
func NewHTTPRecognizer(endpoint string, opts ...HTTPRecognizerOption) *HTTPRecognizer {
	r := &HTTPRecognizer{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

type inferenceEntity struct {
	Word  string  `json:"word"`
	Score float64 `json:"score"`
}

// Recognize posts the text to the inference endpoint and returns the
// tagged spans.
func (r *HTTPRecognizer) Recognize(ctx context.Context, text string) ([]Span, error) {
	jsonData, err := json.Marshal(inferenceRequest{Inputs: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", r.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiToken)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("inference API error: %d - %s", resp.StatusCode, string(body))
	}

	var entities []inferenceEntity
	if err := json.NewDecoder(resp.Body).Decode(&entities); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	spans := make([]Span, 0, len(entities))
	for _, e := range entities {
		spans = append(spans, Span{Text: e.Word, Score: e.Score})
	}
	return spans, nil
}
