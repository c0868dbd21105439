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
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AnubhavBangari3/Creative-Production-Engine/services/engine/datatypes"
)

// runGenerate asks a running engine service to build a production kit
// and prints the response.
func runGenerate(cmd *cobra.Command, args []string) {
	topic := strings.TrimSpace(strings.Join(args, " "))
	if topic == "" {
		logger.Error("Topic cannot be empty")
		os.Exit(1)
	}

	payload, err := json.Marshal(datatypes.GenerateKitRequest{
		Topic:    topic,
		Tone:     kitTone,
		Language: kitLanguage,
	})
	if err != nil {
		logger.Error("Failed to encode request", "error", err)
		os.Exit(1)
	}

	url := strings.TrimRight(config.EngineURL, "/") + "/v1/kits"
	logger.Info("Requesting kit", "url", url, "topic", topic)

	client := &http.Client{Timeout: config.RequestTimeout()}
	resp, err := client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		logger.Error("Engine request failed. Is the engine service running?",
			"url", url, "error", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Error("Failed to read engine response", "error", err)
		os.Exit(1)
	}
	if resp.StatusCode != http.StatusOK {
		logger.Error("Engine returned an error",
			"status", resp.StatusCode, "body", string(body))
		os.Exit(1)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(pretty.String())
}
