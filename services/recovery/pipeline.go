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

import (
	"fmt"
	"strings"
)

// Stage identifies how far the pipeline had to go for a given input.
type Stage int

const (
	// StageRaw is the initial state; nothing ran yet.
	StageRaw Stage = iota

	// StageExtracted parsed after boundary extraction alone.
	StageExtracted

	// StageBalanced parsed after closing delimiters were appended.
	StageBalanced

	// StageScalarFixed parsed after bare time tokens were quoted.
	StageScalarFixed

	// StageQuoteFixed parsed after single-quote normalization.
	StageQuoteFixed

	// StageMultilineFixed parsed after multiline value re-escaping.
	StageMultilineFixed

	// StageLiteralFallback parsed only under the permissive literal
	// grammar.
	StageLiteralFallback
)

// String returns the snake_case stage name used in logs and metrics.
func (s Stage) String() string {
	switch s {
	case StageRaw:
		return "raw"
	case StageExtracted:
		return "extracted"
	case StageBalanced:
		return "balanced"
	case StageScalarFixed:
		return "scalar_fixed"
	case StageQuoteFixed:
		return "quote_fixed"
	case StageMultilineFixed:
		return "multiline_fixed"
	case StageLiteralFallback:
		return "literal_fallback"
	default:
		return "unknown"
	}
}

// Result is the outcome of one pipeline invocation.
//
// Exactly one of Value and Err is meaningful. FinalCandidate is always
// populated: on success it is the candidate that parsed, on failure the
// most-repaired candidate, so callers can surface a degraded but
// informative response.
type Result struct {
	// Value is the recovered document; nil on failure.
	Value *Value

	// FinalCandidate is the last candidate text considered.
	FinalCandidate string

	// StageReached is the earliest stage at which a parse succeeded, or
	// the last stage attempted on failure.
	StageReached Stage

	// Err is non-nil only when every stage failed.
	Err error
}

// Ok reports whether the pipeline produced a value.
func (r Result) Ok() bool { return r.Err == nil && r.Value != nil }

// Recover runs the progressive repair pipeline over raw model output.
//
// # Description
//
// The stage sequence is fixed and strictly linear; after each repair a
// strict parse is attempted, and the first success ends the run. No stage
// re-reads an earlier candidate and no stage is retried. Malformed input
// never causes a panic: exhaustion of all stages, including the
// permissive literal fallback, produces a Result whose Err wraps the last
// strict-parse error.
//
// The literal fallback deliberately operates on the extractor's output,
// not on the later repaired candidates, mirroring how a Python-literal
// response needs none of the JSON-specific repairs.
//
// # Inputs
//
//   - raw: Raw model output, arbitrary text.
//
// # Outputs
//
//   - Result: Value plus the stage that produced it, or a failure with
//     diagnostics.
//
// # Thread Safety
//
// Safe for unlimited concurrent calls; the pipeline is stateless.
func Recover(raw string) Result {
	if strings.TrimSpace(raw) == "" {
		return Result{
			FinalCandidate: raw,
			StageReached:   StageRaw,
			Err:            ErrEmptyInput,
		}
	}

	extracted := ExtractFirstObject(raw)

	candidate := extracted
	stages := []struct {
		id    Stage
		apply func(string) string
	}{
		{StageExtracted, nil},
		{StageBalanced, BalanceDelimiters},
		{StageScalarFixed, QuoteTimeTokens},
		{StageQuoteFixed, NormalizeSingleQuotes},
		{StageMultilineFixed, ReescapeMultilineValue},
	}

	var lastErr error
	for _, st := range stages {
		if st.apply != nil {
			candidate = st.apply(candidate)
		}
		v, err := ParseStrict(candidate)
		if err == nil {
			return Result{Value: v, FinalCandidate: candidate, StageReached: st.id}
		}
		lastErr = err
	}

	// Last resort: the permissive literal grammar over the extractor's
	// candidate.
	if v, err := ParseLiteral(extracted); err == nil {
		return Result{Value: v, FinalCandidate: candidate, StageReached: StageLiteralFallback}
	}

	err := fmt.Errorf("%w: %v", ErrRecoveryExhausted, lastErr)
	if !strings.Contains(raw, "{") {
		err = fmt.Errorf("%w: %w", ErrNoOpeningDelimiter, err)
	}
	return Result{
		FinalCandidate: candidate,
		StageReached:   StageLiteralFallback,
		Err:            err,
	}
}
