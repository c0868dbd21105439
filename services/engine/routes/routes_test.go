// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for engine route registration

package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnubhavBangari3/Creative-Production-Engine/services/engine/kits"
	"github.com/AnubhavBangari3/Creative-Production-Engine/services/llm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type noopLLM struct{}

func (noopLLM) Generate(ctx context.Context, prompt string, params llm.GenerationParams) (string, error) {
	return "{}", nil
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	store, err := kits.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	router := gin.New()
	SetupRoutes(router, noopLLM{}, store, nil, "ollama")
	return router
}

func TestSetupRoutes_RegistersEndpoints(t *testing.T) {
	router := testRouter(t)

	want := map[string]string{
		"/health":             "GET",
		"/metrics":            "GET",
		"/v1/kits":            "POST",
		"/v1/kits/regenerate": "POST",
		"/v1/kits/export":     "POST",
		"/v1/kits/:id":        "GET",
	}

	registered := map[string]bool{}
	for _, r := range router.Routes() {
		registered[r.Method+" "+r.Path] = true
	}
	for path, method := range want {
		assert.True(t, registered[method+" "+path], "missing %s %s", method, path)
	}
	// /v1/kits serves both the generator and the history list.
	assert.True(t, registered["GET /v1/kits"])
}

func TestHealthEndpoint(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestMetricsEndpoint(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/metrics", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
