// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for the route table.

package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/AleutianAI/AleutianSupport/services/assistant/datatypes"
	"github.com/AleutianAI/AleutianSupport/services/assistant/freshchat"
)

type stubDeps struct{}

func (stubDeps) Answer(ctx context.Context, question string) (string, datatypes.AnswerMetadata, error) {
	return "answer", datatypes.AnswerMetadata{}, nil
}

func (stubDeps) TabCompletion(ctx context.Context, typedText, lastAnswer string) (string, error) {
	return "completion", nil
}

func (stubDeps) IngestHistory(ctx context.Context, since time.Time) (freshchat.IngestStats, error) {
	return freshchat.IngestStats{}, nil
}

func (stubDeps) TestConnection(ctx context.Context) (int, string, error) {
	return http.StatusOK, "", nil
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupRoutes(router, Dependencies{
		APIToken:  "secret",
		Answerer:  stubDeps{},
		Completer: stubDeps{},
		Ingestor:  stubDeps{},
		Tester:    stubDeps{},
	})
	return router
}

func TestHealthAndMetricsAreUnauthenticated(t *testing.T) {
	router := newTestRouter()

	for _, path := range []string{"/health", "/metrics"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestAPIRoutesRequireToken(t *testing.T) {
	router := newTestRouter()

	paths := []string{
		"/api/assistant?question=test",
		"/api/assistant/tab-completion?typedKeys=Mer",
		"/api/import-historical",
		"/api/test-freshchat",
	}
	for _, path := range paths {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestAPIRoutesServeWithToken(t *testing.T) {
	router := newTestRouter()

	paths := []string{
		"/api/assistant?token=secret&question=test",
		"/api/assistant/tab-completion?token=secret&typedKeys=Mer",
		"/api/import-historical?token=secret",
		"/api/test-freshchat?token=secret",
	}
	for _, path := range paths {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}
