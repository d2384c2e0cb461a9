package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"lawgic-backend/corpus"
	"lawgic-backend/models"
	"lawgic-backend/retrieval"
	"lawgic-backend/term"
)

func newTestGeminiClient(t *testing.T) *genai.Client {
	t.Helper()
	client, err := genai.NewClient(context.Background(), option.WithAPIKey("test-key"))
	require.NoError(t, err)
	return client
}

type cannedEmbedder struct {
	vectors map[string][]float64
}

func (c *cannedEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		vec, ok := c.vectors[text]
		if !ok {
			return nil, fmt.Errorf("no canned vector for %q", text)
		}
		out[i] = vec
	}
	return out, nil
}

func newTestMatcher(t *testing.T, embedder *cannedEmbedder) *retrieval.Matcher {
	t.Helper()

	dir := t.TempDir()
	statutePath := filepath.Join(dir, "pdpa.json")
	statute := `{
		"data sharing": {
			"26 transfer of personal data": "An organisation shall not transfer personal data outside Singapore."
		}
	}`
	require.NoError(t, os.WriteFile(statutePath, []byte(statute), 0644))

	store := corpus.NewStore(corpus.StoreConfig{
		StatutePath:     statutePath,
		DefinitionsPath: filepath.Join(dir, "missing.json"),
		SchedulesPath:   filepath.Join(dir, "missing.json"),
		SubsidiaryPath:  filepath.Join(dir, "missing.json"),
	}, embedder)
	return retrieval.NewMatcher(store, embedder)
}

// pipelineVectors maps every extracted term onto the category vector so
// the single test category always matches.
func pipelineVectors() map[string][]float64 {
	vec := []float64{1, 0}
	return map[string][]float64{
		"data sharing":    vec,
		"consent":         vec,
		"without":         vec,
		"patient records": vec,
		"records":         vec,
		"hospital":        vec,
		"patient":         vec,
		"overseas":        vec,
	}
}

func newGenerationServer(t *testing.T, text string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{
					"content": map[string]interface{}{
						"parts": []map[string]interface{}{
							{"text": text},
						},
					},
					"finishReason": "STOP",
				},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func TestAnalyzeQueryFullPipeline(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	embedder := &cannedEmbedder{vectors: pipelineVectors()}
	server := newGenerationServer(t, "```json\n{\"S 26 PDPA\": \"The transfer limitation applies to the overseas disclosure.\"}\n```")
	defer server.Close()

	svc := NewAnalysisService(
		WithExtractor(term.NewExtractor()),
		WithMatcher(newTestMatcher(t, embedder)),
		WithGeminiClient(newTestGeminiClient(t)),
		WithGenerationEndpoint(server.URL),
	)

	result, err := svc.AnalyzeQuery(context.Background(), AnalyzeRequest{
		Query: "A hospital discloses patient records overseas without consent",
	})
	require.NoError(t, err)

	assert.Equal(t, models.AnalysisStatusCompleted, result.Status)
	assert.Equal(t, []string{"data sharing"}, result.Categories)
	assert.Contains(t, result.Terms, "consent")
	assert.Contains(t, result.Context, "## Data Sharing")
	assert.Contains(t, result.Context, "transfer personal data outside Singapore")

	var parsed map[string]string
	require.NoError(t, json.Unmarshal([]byte(result.Analysis), &parsed))
	assert.Contains(t, parsed, "S 26 PDPA")
}

func TestAnalyzeQueryNoMatchesIsTerminal(t *testing.T) {
	embedder := &cannedEmbedder{}
	svc := NewAnalysisService(
		WithExtractor(term.NewExtractor()),
		WithMatcher(newTestMatcher(t, embedder)),
	)

	// No extractable terms means no matches and no generation call.
	result, err := svc.AnalyzeQuery(context.Background(), AnalyzeRequest{Query: "zzz qqq"})
	require.NoError(t, err)

	assert.Equal(t, models.AnalysisStatusNoMatches, result.Status)
	assert.Equal(t, noMatchesMessage, result.Analysis)
	assert.Empty(t, result.Categories)
	assert.Equal(t, retrieval.NoRelevantCategories, result.Context)
}

func TestAnalyzeQueryRetrievalFailure(t *testing.T) {
	// An embedder with no canned vectors fails on the first embed call.
	embedder := &cannedEmbedder{}
	svc := NewAnalysisService(
		WithExtractor(term.NewExtractor()),
		WithMatcher(newTestMatcher(t, embedder)),
	)

	_, err := svc.AnalyzeQuery(context.Background(), AnalyzeRequest{
		Query: "A hospital discloses patient records overseas without consent",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRetrievalFailed)
}

func TestAnalyzeQueryRequiresGeminiClient(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	embedder := &cannedEmbedder{vectors: pipelineVectors()}
	svc := NewAnalysisService(
		WithExtractor(term.NewExtractor()),
		WithMatcher(newTestMatcher(t, embedder)),
	)

	_, err := svc.AnalyzeQuery(context.Background(), AnalyzeRequest{
		Query: "A hospital discloses patient records overseas without consent",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestAnalyzeQueryRequiresPipeline(t *testing.T) {
	_, err := NewAnalysisService().AnalyzeQuery(context.Background(), AnalyzeRequest{Query: "anything"})
	assert.Error(t, err)
}
