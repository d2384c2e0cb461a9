package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lawgic-backend/service"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := NewAnalysisHandler(service.NewAnalysisService())
	r := gin.New()
	r.POST("/api/analyze", handler.Analyze)
	r.GET("/api/analyses/:id", handler.GetAnalysis)
	return r
}

func TestAnalyzeRejectsMissingQuery(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: `{}`},
		{name: "malformed json", body: `{"query":`},
		{name: "whitespace query", body: `{"query": "   "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "INVALID_REQUEST")
		})
	}
}

func TestAnalyzeUnconfiguredServiceFails(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"query": "A hospital leaked records"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "ANALYSIS_FAILED")
}

func TestGetAnalysisRejectsInvalidID(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/analyses/not-a-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_ANALYSIS_ID")
}
