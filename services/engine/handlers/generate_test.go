// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for the kit generation and regeneration handlers

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnubhavBangari3/Creative-Production-Engine/services/engine/datatypes"
	"github.com/AnubhavBangari3/Creative-Production-Engine/services/llm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubLLM returns a canned reply or error for every Generate call.
type stubLLM struct {
	reply string
	err   error
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, params llm.GenerationParams) (string, error) {
	return s.reply, s.err
}

// memStore records saved kits in memory.
type memStore struct {
	saved   []datatypes.StoredKit
	saveErr error
}

func (m *memStore) Save(ctx context.Context, kit datatypes.StoredKit) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, kit)
	return nil
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func generateRouter(client llm.LLMClient, store StoreSaver) *gin.Engine {
	router := gin.New()
	router.POST("/v1/kits", HandleGenerateKit(client, store, nil, "ollama"))
	return router
}

// =============================================================================
// HandleGenerateKit Tests
// =============================================================================

func TestGenerateKit_Success(t *testing.T) {
	reply := `{"topic":"Rome","tone":"epic","language":"English",` +
		`"hooks":["h1","h2"],"titles":["t1"],"description":"d",` +
		`"tags":["a","b"],"thumbnail":{"text":"ROME","prompt":"p"},` +
		`"shorts":[{"title":"s1","script":"sc1"}],"script":"long"}`
	store := &memStore{}
	router := generateRouter(&stubLLM{reply: reply}, store)

	w := postJSON(router, "/v1/kits", `{"topic": "Rome"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp KitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Error)
	assert.Equal(t, "Rome", resp.Topic)
	assert.Equal(t, []string{"h1", "h2"}, resp.Hooks)
	assert.Equal(t, "ROME", resp.Thumbnail.Text)
	assert.NotEmpty(t, resp.ID)

	require.Len(t, store.saved, 1)
	assert.Equal(t, resp.ID, store.saved[0].ID)
}

func TestGenerateKit_RepairsBrokenJSON(t *testing.T) {
	// Prose prefix plus a truncated document: extraction and balancing
	// must recover it.
	reply := "Here is your JSON:\n" + `{"topic":"Rome","hooks":["h1","h2"`
	router := generateRouter(&stubLLM{reply: reply}, &memStore{})

	w := postJSON(router, "/v1/kits", `{"topic": "Rome"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp KitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Error)
	assert.Equal(t, []string{"h1", "h2"}, resp.Hooks)
}

func TestGenerateKit_MissingTopic(t *testing.T) {
	router := generateRouter(&stubLLM{}, &memStore{})

	for _, body := range []string{`{}`, `{"topic": "   "}`} {
		w := postJSON(router, "/v1/kits", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp KitResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Topic is required", resp.Error)
		// The safe shape is still present.
		assert.NotNil(t, resp.Hooks)
	}
}

func TestGenerateKit_UnrecoverableOutput(t *testing.T) {
	reply := "I cannot comply with this request."
	store := &memStore{}
	router := generateRouter(&stubLLM{reply: reply}, store)

	w := postJSON(router, "/v1/kits", `{"topic": "Rome"}`)
	// Degraded responses keep 200 so the frontend can render diagnostics.
	assert.Equal(t, http.StatusOK, w.Code)

	var resp KitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Model did not return valid JSON (even after repair)", resp.Error)
	assert.Equal(t, reply, resp.Raw)
	assert.NotEmpty(t, resp.Hint)
	assert.Empty(t, store.saved)
}

func TestGenerateKit_StoreFailureDoesNotFailResponse(t *testing.T) {
	reply := `{"topic":"Rome","hooks":["h1"]}`
	store := &memStore{saveErr: errors.New("disk full")}
	router := generateRouter(&stubLLM{reply: reply}, store)

	w := postJSON(router, "/v1/kits", `{"topic": "Rome"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp KitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Error)
	assert.Equal(t, []string{"h1"}, resp.Hooks)
}

func TestGenerateKit_BackendUnreachable(t *testing.T) {
	router := generateRouter(&stubLLM{err: errors.New("dial tcp 127.0.0.1:11434: connection refused")}, &memStore{})

	w := postJSON(router, "/v1/kits", `{"topic": "Rome"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp KitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "Is it running?")
	assert.Contains(t, resp.Hint, "ollama serve")
}

func TestGenerateKit_WrongTypedFieldsFallBack(t *testing.T) {
	// hooks as a string and thumbnail as an array must not crash merge.
	reply := `{"topic":"Rome","hooks":"not a list","thumbnail":[1,2],"tags":["ok"]}`
	router := generateRouter(&stubLLM{reply: reply}, &memStore{})

	w := postJSON(router, "/v1/kits", `{"topic": "Rome"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp KitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Error)
	assert.Empty(t, resp.Hooks)
	assert.Equal(t, []string{"ok"}, resp.Tags)
	assert.Equal(t, datatypes.Thumbnail{}, resp.Thumbnail)
}

// =============================================================================
// HandleRegenerateSection Tests
// =============================================================================

func regenerateRouter(client llm.LLMClient) *gin.Engine {
	router := gin.New()
	router.POST("/v1/kits/regenerate", HandleRegenerateSection(client, nil, "ollama"))
	return router
}

func TestRegenerateSection_Success(t *testing.T) {
	reply := `{"section":"titles","value":["T1","T2","T3"]}`
	router := regenerateRouter(&stubLLM{reply: reply})

	w := postJSON(router, "/v1/kits/regenerate",
		`{"section": "titles", "kit": {"topic": "Rome"}}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "titles", resp["section"])
	assert.Equal(t, []any{"T1", "T2", "T3"}, resp["value"])
}

func TestRegenerateSection_InvalidSection(t *testing.T) {
	router := regenerateRouter(&stubLLM{})

	w := postJSON(router, "/v1/kits/regenerate",
		`{"section": "everything", "kit": {"topic": "Rome"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid section")
}

func TestRegenerateSection_MissingTopic(t *testing.T) {
	router := regenerateRouter(&stubLLM{})

	w := postJSON(router, "/v1/kits/regenerate",
		`{"section": "titles", "kit": {}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing kit.topic")
}

func TestRegenerateSection_MissingValueKey(t *testing.T) {
	reply := `{"section":"titles"}`
	router := regenerateRouter(&stubLLM{reply: reply})

	w := postJSON(router, "/v1/kits/regenerate",
		`{"section": "titles", "kit": {"topic": "Rome"}}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "missing section/value")
}

func TestRegenerateSection_PythonLiteralReply(t *testing.T) {
	// A Python-literal reply still recovers through the fallback parser.
	reply := `{'section': 'tags', 'value': ['a', 'b']}`
	router := regenerateRouter(&stubLLM{reply: reply})

	w := postJSON(router, "/v1/kits/regenerate",
		`{"section": "tags", "kit": {"topic": "Rome"}}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "tags", resp["section"])
	assert.Equal(t, []any{"a", "b"}, resp["value"])
}
