// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package recovery

import "errors"

// Sentinel errors for the recovery package.
//
// Individual stage misses (a normalizer that found nothing to rewrite)
// are not errors: the pipeline simply moves on. Only the conditions that
// end a run are surfaced here.
var (
	// ErrEmptyInput indicates the raw text was empty.
	ErrEmptyInput = errors.New("empty input")

	// ErrNoOpeningDelimiter indicates no '{' was found anywhere in the
	// input, so no candidate object could be extracted.
	ErrNoOpeningDelimiter = errors.New("no opening delimiter")

	// ErrRecoveryExhausted indicates every stage ran and no parse
	// succeeded, including the literal fallback.
	ErrRecoveryExhausted = errors.New("recovery exhausted")
)
