package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	cache "github.com/patrickmn/go-cache"
)

// Embedder turns a batch of strings into unit-normalized vectors of fixed
// dimensionality. Implementations must be deterministic for identical
// inputs within a process run; the category matcher relies on that.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

const (
	batchEmbeddingAPI = "https://generativelanguage.googleapis.com/v1beta/models/gemini-embedding-001:batchEmbedContents"
	embeddingModel    = "models/gemini-embedding-001"
	embeddingDims     = 768
	maxRetries        = 3
	initialBackoff    = time.Second
)

var ErrEmbeddingFailed = errors.New("failed to generate embeddings")

// EmbeddingRequest represents a single embedding API request
type EmbeddingRequest struct {
	Model                string       `json:"model"`
	Content              ContentInput `json:"content"`
	TaskType             string       `json:"task_type,omitempty"`
	OutputDimensionality int          `json:"output_dimensionality,omitempty"`
}

// ContentInput represents content for embedding
type ContentInput struct {
	Parts []PartInput `json:"parts"`
}

// PartInput represents a part of content
type PartInput struct {
	Text string `json:"text"`
}

// BatchEmbeddingRequest wraps multiple embedding requests
type BatchEmbeddingRequest struct {
	Requests []EmbeddingRequest `json:"requests"`
}

// BatchEmbeddingItem is a single embedding in a batch response
type BatchEmbeddingItem struct {
	Values []float64 `json:"values"`
}

// BatchEmbeddingResponse represents a batch embedding API response
type BatchEmbeddingResponse struct {
	Embeddings []BatchEmbeddingItem `json:"embeddings"`
}

// GeminiEmbedder implements Embedder against the Gemini embedding API.
// Vectors are memoized per input string so repeated queries within a
// process are deterministic and avoid redundant API calls.
type GeminiEmbedder struct {
	apiKey   string
	endpoint string
	client   *http.Client
	memo     *cache.Cache
}

// GeminiEmbedderOption is a functional option for GeminiEmbedder
type GeminiEmbedderOption func(*GeminiEmbedder)

// WithEndpoint overrides the embedding API endpoint (used in tests)
func WithEndpoint(endpoint string) GeminiEmbedderOption {
	return func(e *GeminiEmbedder) {
		e.endpoint = endpoint
	}
}

// WithHTTPClient overrides the HTTP client
func WithHTTPClient(client *http.Client) GeminiEmbedderOption {
	return func(e *GeminiEmbedder) {
		e.client = client
	}
}

// NewGeminiEmbedder creates an embedder backed by the Gemini embedding API
func NewGeminiEmbedder(apiKey string, opts ...GeminiEmbedderOption) *GeminiEmbedder {
	e := &GeminiEmbedder{
		apiKey:   apiKey,
		endpoint: batchEmbeddingAPI,
		client:   &http.Client{Timeout: 30 * time.Second},
		memo:     cache.New(cache.NoExpiration, cache.NoExpiration),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Embed returns a unit-normalized vector per input text, in input order.
func (e *GeminiEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	result := make([][]float64, len(texts))

	// Collect texts not already memoized.
	var missing []string
	var missingIdx []int
	for i, text := range texts {
		if v, ok := e.memo.Get(text); ok {
			result[i] = v.([]float64)
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) == 0 {
		return result, nil
	}

	embeddings, err := e.embedBatch(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(embeddings) != len(missing) {
		return nil, fmt.Errorf("embedding count mismatch: got %d, want %d", len(embeddings), len(missing))
	}

	for j, vec := range embeddings {
		normalize(vec)
		e.memo.Set(missing[j], vec, cache.NoExpiration)
		result[missingIdx[j]] = vec
	}

	return result, nil
}

func (e *GeminiEmbedder) embedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if e.apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	reqBody := BatchEmbeddingRequest{}
	for _, text := range texts {
		reqBody.Requests = append(reqBody.Requests, EmbeddingRequest{
			Model: embeddingModel,
			Content: ContentInput{
				Parts: []PartInput{{Text: text}},
			},
			TaskType:             "SEMANTIC_SIMILARITY",
			OutputDimensionality: embeddingDims,
		})
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	backoff := initialBackoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(backoff)
			backoff *= 2
		}

		req, err := http.NewRequestWithContext(ctx, "POST", e.endpoint, bytes.NewBuffer(jsonData))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", e.apiKey)

		resp, err := e.client.Do(req)
		if err != nil {
			if attempt == maxRetries-1 {
				return nil, fmt.Errorf("failed to send request after %d attempts: %w", maxRetries, err)
			}
			continue
		}

		if resp.StatusCode == http.StatusOK {
			var apiResp BatchEmbeddingResponse
			if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
				resp.Body.Close()
				if attempt == maxRetries-1 {
					return nil, fmt.Errorf("failed to decode response: %w", err)
				}
				continue
			}
			resp.Body.Close()

			vectors := make([][]float64, len(apiResp.Embeddings))
			for i, item := range apiResp.Embeddings {
				vectors[i] = item.Values
			}
			return vectors, nil
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		// Don't retry on 400 or 401 errors
		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("API error: %d - %s", resp.StatusCode, string(body))
		}

		if attempt == maxRetries-1 {
			return nil, fmt.Errorf("API error after %d attempts: %d", maxRetries, resp.StatusCode)
		}
	}

	return nil, ErrEmbeddingFailed
}

// normalize scales vec to unit length in place.
func normalize(vec []float64) {
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
}
