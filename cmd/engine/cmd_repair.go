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
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/AnubhavBangari3/Creative-Production-Engine/services/recovery"
)

// runRepair reads malformed JSON from a file argument or stdin, runs it
// through the recovery pipeline, and prints the repaired document.
func runRepair(cmd *cobra.Command, args []string) {
	var input []byte
	var err error
	if len(args) > 0 {
		input, err = os.ReadFile(args[0])
		if err != nil {
			logger.Error("Failed to read input file", "path", args[0], "error", err)
			os.Exit(1)
		}
	} else {
		input, err = io.ReadAll(os.Stdin)
		if err != nil {
			logger.Error("Failed to read stdin", "error", err)
			os.Exit(1)
		}
	}

	diag := io.Writer(os.Stderr)
	if repairQuiet {
		diag = io.Discard
	}
	if err := repair(string(input), os.Stdout, diag); err != nil {
		logger.Error("Repair failed", "error", err)
		os.Exit(1)
	}
}

// repair runs the pipeline and writes the recovered JSON to out, with a
// one-line stage summary on diag.
func repair(input string, out, diag io.Writer) error {
	result := recovery.Recover(input)
	if !result.Ok() {
		fmt.Fprintf(diag, "repair failed at stage %s\n", result.StageReached)
		return result.Err
	}
	fmt.Fprintf(diag, "repaired at stage %s\n", result.StageReached)

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, []byte(result.Value.Encode()), "", "  "); err != nil {
		// Encode output is valid JSON; fall back to the compact form
		// rather than failing the command.
		fmt.Fprintln(out, result.Value.Encode())
		return nil
	}
	fmt.Fprintln(out, pretty.String())
	return nil
}
