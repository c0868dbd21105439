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

// QuoteTimeTokens wraps bare time-like tokens in double quotes.
//
// # Description
//
// Models emit durations and timestamps as bare tokens ("duration": 7:30),
// which is invalid JSON since 7:30 is not a number. This scans for the
// shape
//
//	: <ws> H:MM or HH:MM <ws> , or } or ]
//
// outside of string values and rewrites the token as a quoted string,
// leaving the surrounding whitespace and terminator untouched. Anything
// that does not match exactly is left alone.
//
// # Inputs
//
//   - candidate: Candidate text.
//
// # Outputs
//
//   - string: The candidate with bare time tokens quoted. Unchanged when
//     no token matched.
func QuoteTimeTokens(candidate string) string {
	if candidate == "" {
		return candidate
	}

	var b strings.Builder
	b.Grow(len(candidate) + 8)
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

		if ch == '"' {
			inString = true
			b.WriteByte(ch)
			continue
		}

		if ch == ':' {
			if token, rest, ok := matchTimeToken(candidate[i+1:]); ok {
				b.WriteByte(':')
				b.WriteString(token.leadingWS)
				b.WriteByte('"')
				b.WriteString(token.text)
				b.WriteByte('"')
				i = len(candidate) - len(rest) - 1
				continue
			}
		}
		b.WriteByte(ch)
	}
	return b.String()
}

// timeToken is one matched bare time token and its leading whitespace.
type timeToken struct {
	leadingWS string
	text      string
}

// matchTimeToken tries to read <ws> d{1,2} ':' d{2} <ws-lookahead to
// terminator> from the head of s. The returned rest begins at the first
// character after the token (the whitespace before the terminator is
// left in rest so the caller re-emits it verbatim).
func matchTimeToken(s string) (timeToken, string, bool) {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	ws := s[:i]

	start := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	hours := i - start
	if hours < 1 || hours > 2 {
		return timeToken{}, "", false
	}
	if i >= len(s) || s[i] != ':' {
		return timeToken{}, "", false
	}
	i++
	minStart := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i-minStart != 2 {
		return timeToken{}, "", false
	}
	end := i

	// The token must be immediately followed by an element terminator,
	// allowing whitespace. Otherwise it may be part of something larger.
	j := end
	for j < len(s) && (s[j] == ' ' || s[j] == '\t' || s[j] == '\n' || s[j] == '\r') {
		j++
	}
	if j >= len(s) || (s[j] != ',' && s[j] != '}' && s[j] != ']') {
		return timeToken{}, "", false
	}

	return timeToken{leadingWS: ws, text: s[start:end]}, s[end:], true
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }
