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

// NormalizeSingleQuotes rewrites single-quoted literals as double-quoted.
//
// # Description
//
// Models sometimes emit Python-style lists: ['a', 'dynasty's', 'b']. This
// converts each single-quoted literal to a double-quoted one while
// keeping apostrophes that are clearly content: a ' with a word character
// on both sides ("dynasty's") does not terminate the literal. Backslash
// escapes inside the literal are honored, and any \" or \' from the
// original is un-escaped before literal double quotes are re-escaped for
// safe embedding.
//
// Single quotes inside double-quoted strings are never touched.
//
// # Inputs
//
//   - candidate: Candidate text.
//
// # Outputs
//
//   - string: The candidate with single-quoted literals converted.
//     Unchanged when none were found.
func NormalizeSingleQuotes(candidate string) string {
	if candidate == "" {
		return candidate
	}

	var b strings.Builder
	b.Grow(len(candidate))
	inString := false
	escapePending := false

	for i := 0; i < len(candidate); i++ {
		ch := candidate[i]
		if inString {
			b.WriteByte(ch)
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
			b.WriteByte(ch)
		case '\'':
			inner, end, ok := scanSingleQuoted(candidate, i)
			if !ok {
				b.WriteByte(ch)
				continue
			}
			b.WriteByte('"')
			b.WriteString(rescapeForDoubleQuotes(inner))
			b.WriteByte('"')
			i = end
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// scanSingleQuoted reads a single-quoted literal starting at s[start].
// A ' sandwiched between word characters is content, not a terminator.
// Returns the raw inner text (escapes intact) and the index of the
// closing quote.
func scanSingleQuoted(s string, start int) (inner string, end int, ok bool) {
	i := start + 1
	for i < len(s) {
		ch := s[i]
		switch {
		case ch == '\\' && i+1 < len(s):
			i += 2
		case ch == '\'':
			if i > start+1 && i+1 < len(s) && isWordChar(s[i-1]) && isWordChar(s[i+1]) {
				// Apostrophe-as-content, e.g. dynasty's.
				i++
				continue
			}
			return s[start+1 : i], i, true
		case ch == '\n':
			// A raw line break before the closing quote means this was
			// not a quoted literal after all.
			return "", 0, false
		default:
			i++
		}
	}
	return "", 0, false
}

// rescapeForDoubleQuotes prepares single-quoted content for embedding in
// a double-quoted literal: \" and \' become plain characters first, then
// every literal quote is escaped. \' must be unwrapped because it is not
// a valid escape inside a double-quoted JSON string.
func rescapeForDoubleQuotes(inner string) string {
	inner = strings.ReplaceAll(inner, `\"`, `"`)
	inner = strings.ReplaceAll(inner, `\'`, `'`)
	return strings.ReplaceAll(inner, `"`, `\"`)
}

func isWordChar(ch byte) bool {
	return ch == '_' ||
		(ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9')
}
