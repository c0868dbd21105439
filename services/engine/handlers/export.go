package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AnubhavBangari3/Creative-Production-Engine/services/engine/datatypes"
	"github.com/AnubhavBangari3/Creative-Production-Engine/services/engine/export"
)

// HandleExportKit renders the posted kit as a plain-text bundle and
// serves it as a download attachment.
func HandleExportKit() gin.HandlerFunc {
	return func(c *gin.Context) {
		var kit datatypes.ProductionKit
		if err := c.ShouldBindJSON(&kit); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid kit payload"})
			return
		}
		if kit.Topic == "" {
			kit.Topic = "Untitled"
		}

		content := export.RenderBundle(kit)
		filename := export.AttachmentFilename(kit.Topic)
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(content))
	}
}
