package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AnalysisStatus represents the status of an analysis request
type AnalysisStatus string

const (
	AnalysisStatusPending    AnalysisStatus = "pending"
	AnalysisStatusInProgress AnalysisStatus = "in_progress"
	AnalysisStatusCompleted  AnalysisStatus = "completed"
	AnalysisStatusFailed     AnalysisStatus = "failed"
	// AnalysisStatusNoMatches is a valid terminal state, not a failure:
	// the corpus held no relevant provisions for the query.
	AnalysisStatusNoMatches AnalysisStatus = "no_matches"
)

// StringList is a JSONB-backed list of strings
type StringList []string

// Value implements driver.Valuer for JSONB
func (l StringList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSONB
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = make(StringList, 0)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*l = make(StringList, 0)
		return nil
	}

	if len(bytes) == 0 {
		*l = make(StringList, 0)
		return nil
	}

	return json.Unmarshal(bytes, l)
}

// Analysis represents one legal analysis request: the scenario, the
// retrieval artifacts (terms, matched categories, assembled context) and
// the reasoning output.
type Analysis struct {
	ID           uuid.UUID      `json:"id"`
	Query        string         `json:"query"`
	Status       AnalysisStatus `json:"status"`
	Terms        StringList     `json:"terms"`
	Categories   StringList     `json:"categories"`
	Context      *string        `json:"context,omitempty"`
	Result       *string        `json:"result,omitempty"`
	ErrorMessage *string        `json:"error_message,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
}
