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
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AnubhavBangari3/Creative-Production-Engine/services/engine/datatypes"
	"github.com/AnubhavBangari3/Creative-Production-Engine/services/engine/export"
)

// runExport renders a saved kit JSON file as a plain-text bundle.
func runExport(cmd *cobra.Command, args []string) {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		logger.Error("Failed to read kit file", "path", args[0], "error", err)
		os.Exit(1)
	}

	kit := datatypes.EmptyKit("", "", "")
	if err := json.Unmarshal(raw, &kit); err != nil {
		logger.Error("Kit file is not valid JSON", "path", args[0], "error", err)
		os.Exit(1)
	}

	bundle := export.RenderBundle(kit)
	if exportOutput == "" {
		fmt.Print(bundle)
		return
	}
	if err := os.WriteFile(exportOutput, []byte(bundle), 0o644); err != nil {
		logger.Error("Failed to write bundle", "path", exportOutput, "error", err)
		os.Exit(1)
	}
	logger.Info("Bundle written", "path", exportOutput)
}
