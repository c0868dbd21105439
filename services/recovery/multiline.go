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
	"encoding/json"
	"strings"
)

// ReescapeMultilineValue repairs a "value" string containing raw breaks.
//
// # Description
//
// Long text fields (descriptions, scripts) often come back as
//
//	"value": "
//	  line one
//	  line two
//	"
//
// with raw newlines inside the literal, which JSON forbids. This targets
// the specific shape `"value": "<content>"` where the closing quote sits
// just before the final closing brace of the document (content matched
// non-greedily across line boundaries), re-encodes the captured content
// with proper \n and \" escapes, and splices the result back in place.
//
// # Inputs
//
//   - candidate: Candidate text.
//
// # Outputs
//
//   - string: The candidate with the value string re-escaped, or the
//     input unchanged when the shape was not found.
func ReescapeMultilineValue(candidate string) string {
	if candidate == "" {
		return candidate
	}

	// Try each occurrence of the "value" key until one anchors.
	from := 0
	for {
		idx := strings.Index(candidate[from:], `"value"`)
		if idx == -1 {
			return candidate
		}
		keyStart := from + idx

		if out, ok := reescapeAt(candidate, keyStart); ok {
			return out
		}
		from = keyStart + len(`"value"`)
	}
}

// reescapeAt attempts the rewrite with the "value" key at keyStart.
func reescapeAt(candidate string, keyStart int) (string, bool) {
	i := keyStart + len(`"value"`)

	for i < len(candidate) && isSpace(candidate[i]) {
		i++
	}
	if i >= len(candidate) || candidate[i] != ':' {
		return "", false
	}
	i++
	for i < len(candidate) && isSpace(candidate[i]) {
		i++
	}
	if i >= len(candidate) || candidate[i] != '"' {
		return "", false
	}
	contentStart := i + 1

	// Non-greedy: take the first closing quote whose remainder is only
	// whitespace, a '}', and trailing whitespace to end of document.
	for j := contentStart; j < len(candidate); j++ {
		if candidate[j] != '"' {
			continue
		}
		if !closesDocument(candidate[j+1:]) {
			continue
		}
		inner := candidate[contentStart:j]
		encoded, err := json.Marshal(inner)
		if err != nil {
			return "", false
		}
		var b strings.Builder
		b.Grow(len(candidate) + len(encoded))
		b.WriteString(candidate[:contentStart-1])
		b.Write(encoded)
		b.WriteString(candidate[j+1:])
		return b.String(), true
	}
	return "", false
}

// closesDocument reports whether rest is `\s*}\s*` to end of input.
func closesDocument(rest string) bool {
	i := 0
	for i < len(rest) && isSpace(rest[i]) {
		i++
	}
	if i >= len(rest) || rest[i] != '}' {
		return false
	}
	i++
	for i < len(rest) && isSpace(rest[i]) {
		i++
	}
	return i == len(rest)
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}
