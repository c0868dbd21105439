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

import "time"

// Config is the optional config.yaml layout for the CLI.
type Config struct {
	// EngineURL is the base URL of a running engine service, used by
	// commands that talk to it (generate).
	EngineURL string `yaml:"engine_url"`

	// RequestTimeoutSeconds bounds HTTP calls to the engine.
	// Generation can take minutes on a local model.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`

	// LogDir enables file logging for CLI runs.
	LogDir string `yaml:"log_dir"`
}

// RequestTimeout returns the configured timeout as a duration.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// DefaultConfig returns the CLI defaults used when config.yaml is
// absent or partial.
func DefaultConfig() Config {
	return Config{
		EngineURL:             "http://localhost:12310",
		RequestTimeoutSeconds: 300,
	}
}
