package repository

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lawgic-backend/models"
)

// newTestPool connects to the database named by TEST_DATABASE_URL and
// ensures the analyses table exists. Without the variable the test is
// skipped; the SQL/scan contract needs a live Postgres.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(context.Background(), `
		CREATE TABLE IF NOT EXISTS analyses (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			query TEXT NOT NULL,
			status VARCHAR(50) NOT NULL DEFAULT 'pending',
			terms JSONB DEFAULT '[]'::jsonb,
			categories JSONB DEFAULT '[]'::jsonb,
			context TEXT,
			result TEXT,
			error_message TEXT,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			completed_at TIMESTAMP WITH TIME ZONE
		)`)
	require.NoError(t, err)

	return pool
}

func TestAnalysisLifecycle(t *testing.T) {
	pool := newTestPool(t)
	repo := NewAnalysisRepository(pool)
	ctx := context.Background()

	analysis := &models.Analysis{
		Query:  "A hospital discloses patient records overseas without consent",
		Status: models.AnalysisStatusPending,
		Terms:  models.StringList{"consent", "without"},
	}
	require.NoError(t, repo.Create(ctx, analysis))
	require.NotZero(t, analysis.ID)
	t.Cleanup(func() {
		pool.Exec(ctx, "DELETE FROM analyses WHERE id = $1", analysis.ID)
	})

	require.NoError(t, repo.UpdateRetrieval(ctx, analysis.ID,
		models.StringList{"consent", "without", "overseas"},
		models.StringList{"data sharing"},
		"## Data Sharing\n\nprovision text"))

	loaded, err := repo.GetByID(ctx, analysis.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AnalysisStatusInProgress, loaded.Status)
	assert.Equal(t, models.StringList{"consent", "without", "overseas"}, loaded.Terms)
	assert.Equal(t, models.StringList{"data sharing"}, loaded.Categories)
	require.NotNil(t, loaded.Context)
	assert.Contains(t, *loaded.Context, "## Data Sharing")
	assert.Nil(t, loaded.CompletedAt)

	require.NoError(t, repo.Complete(ctx, analysis.ID, models.AnalysisStatusCompleted, `{"S 26 PDPA": "reasoning"}`))

	loaded, err = repo.GetByID(ctx, analysis.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AnalysisStatusCompleted, loaded.Status)
	require.NotNil(t, loaded.Result)
	assert.Contains(t, *loaded.Result, "S 26 PDPA")
	assert.NotNil(t, loaded.CompletedAt)
}

func TestAnalysisFail(t *testing.T) {
	pool := newTestPool(t)
	repo := NewAnalysisRepository(pool)
	ctx := context.Background()

	analysis := &models.Analysis{
		Query:  "anything",
		Status: models.AnalysisStatusPending,
	}
	require.NoError(t, repo.Create(ctx, analysis))
	t.Cleanup(func() {
		pool.Exec(ctx, "DELETE FROM analyses WHERE id = $1", analysis.ID)
	})

	require.NoError(t, repo.Fail(ctx, analysis.ID, "generation failed: quota exceeded"))

	loaded, err := repo.GetByID(ctx, analysis.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AnalysisStatusFailed, loaded.Status)
	require.NotNil(t, loaded.ErrorMessage)
	assert.Contains(t, *loaded.ErrorMessage, "quota exceeded")
}
