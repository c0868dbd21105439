// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/AnubhavBangari3/Creative-Production-Engine/services/engine/kits"
	"github.com/AnubhavBangari3/Creative-Production-Engine/services/engine/observability"
	"github.com/AnubhavBangari3/Creative-Production-Engine/services/engine/routes"
	"github.com/AnubhavBangari3/Creative-Production-Engine/services/llm"
)

// runServe starts the engine HTTP service in-process. Unlike the
// containerized entrypoint it skips the OTLP tracer, which needs a
// collector that local runs rarely have.
func runServe(cmd *cobra.Command, args []string) {
	port := os.Getenv("ENGINE_PORT")
	if port == "" {
		port = "12310"
	}

	metrics := observability.InitMetrics()

	var client llm.LLMClient
	var err error
	backend := os.Getenv("LLM_BACKEND_TYPE")
	switch backend {
	case "openai":
		client, err = llm.NewOpenAIClient()
	case "ollama":
		client, err = llm.NewOllamaClient()
	default:
		backend = "ollama"
		client, err = llm.NewOllamaClient()
	}
	if err != nil {
		logger.Error("Failed to initialize LLM client", "backend", backend, "error", err)
		os.Exit(1)
	}

	storePath := os.Getenv("KIT_STORE_PATH")
	if storePath == "" {
		storePath = "./data/kits"
	}
	store, err := kits.Open(kits.Config{Path: storePath, Logger: logger.Slog()})
	if err != nil {
		logger.Error("Failed to open the kit store", "path", storePath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	routes.SetupRoutes(router, client, store, metrics, backend)

	logger.Info("Starting the engine server", "port", port, "backend", backend)
	if err := router.Run(":" + port); err != nil {
		logger.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
