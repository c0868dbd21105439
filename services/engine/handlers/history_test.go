// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for the history and export handlers

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnubhavBangari3/Creative-Production-Engine/services/engine/datatypes"
	"github.com/AnubhavBangari3/Creative-Production-Engine/services/engine/kits"
)

// fakeReader serves a fixed newest-first kit list.
type fakeReader struct {
	kits      []datatypes.StoredKit
	lastLimit int
}

func (f *fakeReader) Recent(ctx context.Context, limit int) ([]datatypes.StoredKit, error) {
	f.lastLimit = limit
	if limit > len(f.kits) {
		limit = len(f.kits)
	}
	return f.kits[:limit], nil
}

func (f *fakeReader) Get(ctx context.Context, id string) (datatypes.StoredKit, error) {
	for _, k := range f.kits {
		if k.ID == id {
			return k, nil
		}
	}
	return datatypes.StoredKit{}, kits.ErrNotFound
}

func historyRouter(reader StoreReader) *gin.Engine {
	router := gin.New()
	router.GET("/v1/kits", ListRecentKits(reader))
	router.GET("/v1/kits/:id", GetKitDetail(reader))
	return router
}

func storedKits(n int) []datatypes.StoredKit {
	out := make([]datatypes.StoredKit, n)
	for i := range out {
		out[i] = datatypes.StoredKit{
			ID:        fmt.Sprintf("id-%d", i),
			Topic:     fmt.Sprintf("topic-%d", i),
			Tone:      "cinematic",
			Language:  "English",
			CreatedAt: time.Now().UTC(),
			Kit:       datatypes.EmptyKit(fmt.Sprintf("topic-%d", i), "", ""),
		}
	}
	return out
}

func TestListRecentKits_DefaultLimit(t *testing.T) {
	reader := &fakeReader{kits: storedKits(10)}
	router := historyRouter(reader)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/kits", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, reader.lastLimit)

	var resp struct {
		Results []datatypes.KitSummary `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Results, 5)
	assert.Equal(t, "topic-0", resp.Results[0].Topic)
}

func TestListRecentKits_LimitClamped(t *testing.T) {
	reader := &fakeReader{kits: storedKits(30)}
	router := historyRouter(reader)

	tests := []struct {
		query string
		want  int
	}{
		{"limit=3", 3},
		{"limit=100", 20},
		{"limit=0", 1},
		{"limit=-2", 1},
		{"limit=abc", 5},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/v1/kits?"+tt.query, nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, tt.want, reader.lastLimit, "query %s", tt.query)
	}
}

func TestGetKitDetail_Found(t *testing.T) {
	reader := &fakeReader{kits: storedKits(3)}
	router := historyRouter(reader)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/kits/id-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got datatypes.StoredKit
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "id-1", got.ID)
	assert.Equal(t, "topic-1", got.Kit.Topic)
}

func TestGetKitDetail_NotFound(t *testing.T) {
	reader := &fakeReader{kits: storedKits(1)}
	router := historyRouter(reader)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/kits/nope", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Kit not found")
}

// =============================================================================
// HandleExportKit Tests
// =============================================================================

func TestExportKit_Attachment(t *testing.T) {
	router := gin.New()
	router.POST("/v1/kits/export", HandleExportKit())

	body := `{"topic":"Roman Empire","tone":"cinematic","language":"English",` +
		`"hooks":["h1"],"titles":["t1"],"tags":["a","b"],` +
		`"thumbnail":{"text":"TX","prompt":"PR"},"shorts":[],"script":"S"}`
	w := postJSON(router, "/v1/kits/export", body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Roman_Empire_kit.txt")
	assert.Contains(t, w.Body.String(), "CREATIVE PRODUCTION KIT")
	assert.Contains(t, w.Body.String(), "- h1")
	assert.Contains(t, w.Body.String(), "a, b")
}

func TestExportKit_EmptyTopicDefaults(t *testing.T) {
	router := gin.New()
	router.POST("/v1/kits/export", HandleExportKit())

	w := postJSON(router, "/v1/kits/export", `{}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Untitled_kit.txt")
}
