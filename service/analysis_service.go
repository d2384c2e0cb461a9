package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"lawgic-backend/models"
	"lawgic-backend/repository"
	"lawgic-backend/retrieval"
	"lawgic-backend/storage"
	"lawgic-backend/term"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
)

// AnalysisService runs the full pipeline for a legal scenario: term
// extraction, the context retrieval cascade, Gemini reasoning, and
// persistence of the result.
type AnalysisService struct {
	extractor    *term.Extractor
	matcher      *retrieval.Matcher
	analysisRepo *repository.AnalysisRepository
	storage      storage.Storage
	geminiClient *genai.Client
	endpoint     string
}

// AnalysisServiceOption is a functional option for AnalysisService
type AnalysisServiceOption func(*AnalysisService)

// WithExtractor sets the term extractor
func WithExtractor(extractor *term.Extractor) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.extractor = extractor
	}
}

// WithMatcher sets the category matcher
func WithMatcher(matcher *retrieval.Matcher) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.matcher = matcher
	}
}

// WithAnalysisRepository sets the analysis repository. Without one,
// analyses are processed but not recorded.
func WithAnalysisRepository(repo *repository.AnalysisRepository) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.analysisRepo = repo
	}
}

// WithStorage sets the artifact storage. Without one, analysis output is
// returned but not persisted.
func WithStorage(store storage.Storage) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.storage = store
	}
}

// WithGeminiClient sets the Gemini client
func WithGeminiClient(client *genai.Client) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.geminiClient = client
	}
}

// WithGenerationEndpoint overrides the generation API endpoint (used in tests)
func WithGenerationEndpoint(endpoint string) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.endpoint = endpoint
	}
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(opts ...AnalysisServiceOption) *AnalysisService {
	s := &AnalysisService{
		endpoint: generationAPI,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	ErrRetrievalFailed  = errors.New("failed to retrieve legal context")
	ErrGenerationFailed = errors.New("failed to generate analysis")
	ErrAnalysisNotFound = errors.New("analysis not found")
)

const (
	maxRetries     = 3
	initialBackoff = time.Second
)

// noMatchesMessage is returned as the analysis when the retrieval cascade
// found no relevant provisions.
const noMatchesMessage = "No relevant PDPA provisions found for this query."

// AnalyzeRequest represents a request to analyze a legal scenario
type AnalyzeRequest struct {
	Query string
}

// AnalyzeResult represents the outcome of a full analysis run
type AnalyzeResult struct {
	ID         uuid.UUID
	Query      string
	Terms      []string
	Categories []string
	Context    string
	Analysis   string
	Status     models.AnalysisStatus
}

// AnalyzeQuery runs the pipeline synchronously: extract terms, build the
// legal context, generate the structured analysis, persist. A query that
// matches nothing is a valid terminal outcome, not an error.
func (s *AnalysisService) AnalyzeQuery(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error) {
	if s.extractor == nil {
		return nil, errors.New("term extractor not set")
	}
	if s.matcher == nil {
		return nil, errors.New("category matcher not set")
	}

	keyTerms := s.extractor.Extract(ctx, req.Query)

	record := &models.Analysis{
		Query:  req.Query,
		Status: models.AnalysisStatusPending,
		Terms:  keyTerms,
	}
	if s.analysisRepo != nil {
		if err := s.analysisRepo.Create(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to create analysis record: %w", err)
		}
	}

	legalContext, matches, err := s.matcher.BuildContext(ctx, keyTerms)
	if err != nil {
		s.markFailed(ctx, record, "retrieval failed: "+err.Error())
		return nil, fmt.Errorf("%w: %v", ErrRetrievalFailed, err)
	}

	result := &AnalyzeResult{
		ID:      record.ID,
		Query:   req.Query,
		Terms:   keyTerms,
		Context: legalContext,
	}
	for _, match := range matches {
		result.Categories = append(result.Categories, match.Category)
	}

	if legalContext == retrieval.NoRelevantCategories {
		result.Analysis = noMatchesMessage
		result.Status = models.AnalysisStatusNoMatches
		s.complete(ctx, record, models.AnalysisStatusNoMatches, noMatchesMessage)
		return result, nil
	}

	if s.analysisRepo != nil {
		if err := s.analysisRepo.UpdateRetrieval(ctx, record.ID, result.Terms, result.Categories, legalContext); err != nil {
			log.Printf("Warning: failed to record retrieval artifacts: %v", err)
		}
	}

	analysis, err := s.generateAnalysis(ctx, req.Query, legalContext)
	if err != nil {
		s.markFailed(ctx, record, "generation failed: "+err.Error())
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	cleaned := CleanAnalysisOutput(analysis)
	result.Analysis = cleaned
	result.Status = models.AnalysisStatusCompleted

	if s.storage != nil && record.ID != uuid.Nil {
		if _, err := s.storage.SaveAnalysis(ctx, record.ID, []byte(cleaned)); err != nil {
			log.Printf("Warning: failed to persist analysis artifact: %v", err)
		}
	}
	s.complete(ctx, record, models.AnalysisStatusCompleted, cleaned)

	return result, nil
}

// GetAnalysisRequest represents a request to fetch an analysis record
type GetAnalysisRequest struct {
	AnalysisID uuid.UUID
}

// GetAnalysisResult represents the result of fetching an analysis record
type GetAnalysisResult struct {
	Analysis *models.Analysis
}

// GetAnalysis retrieves a stored analysis record
func (s *AnalysisService) GetAnalysis(ctx context.Context, req GetAnalysisRequest) (*GetAnalysisResult, error) {
	if s.analysisRepo == nil {
		return nil, errors.New("analysis repository not set")
	}

	analysis, err := s.analysisRepo.GetByID(ctx, req.AnalysisID)
	if err != nil {
		return nil, ErrAnalysisNotFound
	}

	return &GetAnalysisResult{Analysis: analysis}, nil
}

// generateAnalysis calls the reasoning step with retry and backoff.
func (s *AnalysisService) generateAnalysis(ctx context.Context, query, legalContext string) (string, error) {
	if s.geminiClient == nil {
		return "", errors.New("gemini client not initialized")
	}

	prompt := buildAnalysisPrompt(query, legalContext)

	var content string
	var err error
	backoff := initialBackoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(backoff)
			backoff *= 2
		}

		content, err = s.callGenerationAPI(ctx, prompt, 0.3)
		if err != nil {
			if attempt == maxRetries-1 {
				return "", fmt.Errorf("failed to generate analysis after %d attempts: %w", maxRetries, err)
			}
			continue
		}

		if content != "" {
			return content, nil
		}
	}

	return "", ErrGenerationFailed
}

func (s *AnalysisService) markFailed(ctx context.Context, record *models.Analysis, message string) {
	if s.analysisRepo == nil || record.ID == uuid.Nil {
		return
	}
	if err := s.analysisRepo.Fail(ctx, record.ID, message); err != nil {
		log.Printf("Warning: failed to mark analysis %s failed: %v", record.ID, err)
	}
}

func (s *AnalysisService) complete(ctx context.Context, record *models.Analysis, status models.AnalysisStatus, result string) {
	if s.analysisRepo == nil || record.ID == uuid.Nil {
		return
	}
	if err := s.analysisRepo.Complete(ctx, record.ID, status, result); err != nil {
		log.Printf("Warning: failed to complete analysis %s: %v", record.ID, err)
	}
}
