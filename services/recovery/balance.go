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

import "strings"

// BalanceDelimiters appends missing closing brackets and braces.
//
// # Description
//
// Truncated model output loses its trailing ']' and '}' characters. This
// counts opens against closes across the whole candidate and appends the
// deficit of ']' then '}' at the end, then truncates anything after the
// last structural '}'.
//
// Counting is quote-aware: bracket characters inside double-quoted string
// values (common in script or description text) are ignored, so they
// cannot skew the balance. The count is still global rather than
// scope-aware; an input like "]{" is not reordered, merely topped up.
//
// # Inputs
//
//   - candidate: Candidate text, normally starting with '{'.
//
// # Outputs
//
//   - string: The candidate with closing delimiters appended and trailing
//     garbage after the final '}' removed. Unchanged if it contains no
//     '}' at all after repair.
func BalanceDelimiters(candidate string) string {
	if candidate == "" {
		return candidate
	}

	openSquare, closeSquare := 0, 0
	openCurly, closeCurly := 0, 0
	lastCurly := -1
	inString := false
	escapePending := false

	for i := 0; i < len(candidate); i++ {
		ch := candidate[i]
		if inString {
			switch {
			case escapePending:
				escapePending = false
			case ch == '\\':
				escapePending = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '[':
			openSquare++
		case ']':
			closeSquare++
		case '{':
			openCurly++
		case '}':
			closeCurly++
			lastCurly = i
		}
	}

	var b strings.Builder
	b.Grow(len(candidate) + (openSquare - closeSquare) + (openCurly - closeCurly))
	b.WriteString(candidate)
	for i := closeSquare; i < openSquare; i++ {
		b.WriteByte(']')
	}
	for i := closeCurly; i < openCurly; i++ {
		b.WriteByte('}')
		lastCurly = b.Len() - 1
	}
	repaired := b.String()

	// Trim anything after the final closing brace.
	if lastCurly != -1 {
		repaired = repaired[:lastCurly+1]
	}
	return repaired
}
