// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AnubhavBangari3/Creative-Production-Engine/services/engine/handlers"
	"github.com/AnubhavBangari3/Creative-Production-Engine/services/engine/kits"
	"github.com/AnubhavBangari3/Creative-Production-Engine/services/engine/observability"
	"github.com/AnubhavBangari3/Creative-Production-Engine/services/llm"
)

func SetupRoutes(router *gin.Engine, client llm.LLMClient, store kits.Store,
	metrics *observability.EngineMetrics, backend string) {

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1 group
	v1 := router.Group("/v1")
	{
		v1.POST("/kits", handlers.HandleGenerateKit(client, store, metrics, backend))
		v1.POST("/kits/regenerate", handlers.HandleRegenerateSection(client, metrics, backend))
		v1.POST("/kits/export", handlers.HandleExportKit())
		v1.GET("/kits", handlers.ListRecentKits(store))
		v1.GET("/kits/:id", handlers.GetKitDetail(store))
	}
}
