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
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	verbose      bool
	repairQuiet  bool   // suppress stage diagnostics, print only the recovered JSON
	exportOutput string // export destination file; stdout when empty
	kitTone      string
	kitLanguage  string

	rootCmd = &cobra.Command{
		Use:   "engine",
		Short: "A cli for the Creative Production Engine",
		Long: `Engine is a companion tool for the Creative Production Engine
				service: generate production kits against a running engine,
				repair malformed model output locally, and export kits as
				plain-text bundles.`,
	}

	// --- Service ---
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the engine HTTP service in-process",
		Run:   runServe, // Defined in cmd_serve.go
	}

	// --- Generation ---
	generateCmd = &cobra.Command{
		Use:   "generate [topic]",
		Short: "Generate a production kit for a topic via a running engine service",
		Args:  cobra.MinimumNArgs(1),
		Run:   runGenerate, // Defined in cmd_generate.go
	}

	// --- Local Utilities ---
	repairCmd = &cobra.Command{
		Use:   "repair [file]",
		Short: "Repair malformed JSON from a file (or stdin) and print the recovered document",
		Run:   runRepair, // Defined in cmd_repair.go
	}

	exportCmd = &cobra.Command{
		Use:   "export [kit.json]",
		Short: "Render a saved kit JSON file as a plain-text production bundle",
		Args:  cobra.ExactArgs(1),
		Run:   runExport, // Defined in cmd_export.go
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	rootCmd.AddCommand(serveCmd)

	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVar(&kitTone, "tone", "cinematic",
		"Tone for the generated kit (e.g., cinematic, playful, dramatic)")
	generateCmd.Flags().StringVar(&kitLanguage, "language", "English",
		"Output language for the generated kit")

	rootCmd.AddCommand(repairCmd)
	repairCmd.Flags().BoolVarP(&repairQuiet, "quiet", "q", false,
		"Print only the recovered JSON, without stage diagnostics")

	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "",
		"Write the bundle to a file instead of stdout")
}
