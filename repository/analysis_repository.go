package repository

import (
	"context"

	"lawgic-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AnalysisRepository handles database operations for analyses
type AnalysisRepository struct {
	db *pgxpool.Pool
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(db *pgxpool.Pool) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Create creates a new analysis record
func (r *AnalysisRepository) Create(ctx context.Context, analysis *models.Analysis) error {
	query := `
		INSERT INTO analyses (
			query, status, terms, categories
		) VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		analysis.Query,
		analysis.Status,
		analysis.Terms,
		analysis.Categories,
	).Scan(&analysis.ID, &analysis.CreatedAt, &analysis.UpdatedAt)

	return err
}

// GetByID retrieves an analysis by ID
func (r *AnalysisRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Analysis, error) {
	analysis := &models.Analysis{}
	query := `
		SELECT id, query, status, terms, categories, context, result,
			error_message, created_at, updated_at, completed_at
		FROM analyses
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&analysis.ID,
		&analysis.Query,
		&analysis.Status,
		&analysis.Terms,
		&analysis.Categories,
		&analysis.Context,
		&analysis.Result,
		&analysis.ErrorMessage,
		&analysis.CreatedAt,
		&analysis.UpdatedAt,
		&analysis.CompletedAt,
	)

	if err != nil {
		return nil, err
	}

	if analysis.Terms == nil {
		analysis.Terms = make(models.StringList, 0)
	}
	if analysis.Categories == nil {
		analysis.Categories = make(models.StringList, 0)
	}

	return analysis, nil
}

// UpdateRetrieval records the retrieval artifacts for an in-progress
// analysis: extracted terms, matched categories and assembled context.
func (r *AnalysisRepository) UpdateRetrieval(ctx context.Context, id uuid.UUID, terms, categories models.StringList, contextText string) error {
	query := `
		UPDATE analyses SET
			status = $2,
			terms = $3,
			categories = $4,
			context = $5,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, models.AnalysisStatusInProgress, terms, categories, contextText)
	return err
}

// Complete marks an analysis as completed with its result
func (r *AnalysisRepository) Complete(ctx context.Context, id uuid.UUID, status models.AnalysisStatus, result string) error {
	query := `
		UPDATE analyses SET
			status = $2,
			result = $3,
			updated_at = NOW(),
			completed_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, status, result)
	return err
}

// Fail marks an analysis as failed with an error message
func (r *AnalysisRepository) Fail(ctx context.Context, id uuid.UUID, errorMessage string) error {
	query := `
		UPDATE analyses SET
			status = $2,
			error_message = $3,
			updated_at = NOW(),
			completed_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, models.AnalysisStatusFailed, errorMessage)
	return err
}
