package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AnubhavBangari3/Creative-Production-Engine/services/engine/datatypes"
	"github.com/AnubhavBangari3/Creative-Production-Engine/services/engine/kits"
)

// StoreSaver is the write side of the kit store, enough for the
// generation handler to persist history.
type StoreSaver interface {
	Save(ctx context.Context, kit datatypes.StoredKit) error
}

// StoreReader is the read side of the kit store used by the history
// endpoints.
type StoreReader interface {
	Recent(ctx context.Context, limit int) ([]datatypes.StoredKit, error)
	Get(ctx context.Context, id string) (datatypes.StoredKit, error)
}

// ListRecentKits returns kit summaries for the history sidebar.
// The limit query parameter is clamped to 1..20, default 5.
func ListRecentKits(store StoreReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 5
		if raw := c.Query("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil {
				limit = n
			}
		}
		if limit < 1 {
			limit = 1
		}
		if limit > 20 {
			limit = 20
		}

		stored, err := store.Recent(c.Request.Context(), limit)
		if err != nil {
			slog.Error("failed to list recent kits", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		results := make([]datatypes.KitSummary, 0, len(stored))
		for _, s := range stored {
			results = append(results, s.Summary())
		}
		c.JSON(http.StatusOK, gin.H{"results": results})
	}
}

// GetKitDetail loads one stored kit by id for the history view.
func GetKitDetail(store StoreReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		stored, err := store.Get(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, kits.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Kit not found"})
				return
			}
			slog.Error("failed to load kit", "id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stored)
	}
}
