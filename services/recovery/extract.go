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

// ExtractFirstObject isolates the first complete JSON object in raw text.
//
// # Description
//
// Models often wrap their JSON in prose ("Here is your JSON:\n{...}\nHope
// that helps!"). This scans to the first '{' and walks forward tracking
// brace depth, treating everything inside double-quoted strings as opaque
// (with backslash-escape awareness, so \" does not close a string). The
// returned substring runs from the first '{' through the brace that
// returns depth to zero.
//
// If no '{' exists the input is returned unchanged; a later stage or the
// caller decides what that means. If the depth never returns to zero the
// trimmed tail from the first '{' is returned and balancing is left to
// the next stage. Either way the output of a successful scan always
// starts with '{'.
//
// # Inputs
//
//   - raw: Raw model output, possibly empty.
//
// # Outputs
//
//   - string: The candidate object text, or the input unchanged when no
//     '{' is present.
func ExtractFirstObject(raw string) string {
	if raw == "" {
		return raw
	}

	start := strings.IndexByte(raw, '{')
	if start == -1 {
		return raw
	}

	s := raw[start:]
	depth := 0
	inString := false
	escapePending := false

	for i := 0; i < len(s); i++ {
		ch := s[i]
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
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}

	// Never balanced; hand the trimmed tail to the balancer.
	return strings.TrimSpace(s)
}
