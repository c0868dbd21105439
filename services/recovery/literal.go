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
	"strconv"
	"strings"
	"unicode/utf16"
)

// ParseLiteral parses text as a permissive mapping/sequence/scalar literal.
//
// # Description
//
// The last-resort parser for model output that is a Python-style literal
// rather than JSON: single- or double-quoted strings, True/False/None
// alongside true/false/null, trailing commas, and trailing content after
// the first complete value. It is a small recursive-descent parser over a
// fixed grammar; it evaluates nothing and accepts no expressions, only
// literals.
//
// # Inputs
//
//   - text: Candidate text, normally the extractor's output.
//
// # Outputs
//
//   - *Value: The parsed document on success.
//   - error: Non-nil with position information when parsing fails.
func ParseLiteral(text string) (*Value, error) {
	p := &literalParser{src: text}
	p.skipSpace()
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	// Trailing content after the first complete value is tolerated.
	return v, nil
}

// literalParser is a cursor over the source text.
type literalParser struct {
	src string
	pos int
}

func (p *literalParser) errf(format string, args ...any) error {
	return fmt.Errorf("literal parse at offset %d: %s", p.pos, fmt.Sprintf(format, args...))
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *literalParser) peek() (byte, bool) {
	if p.pos >= len(p.src) {
		return 0, false
	}
	return p.src[p.pos], true
}

func (p *literalParser) parseValue() (*Value, error) {
	ch, ok := p.peek()
	if !ok {
		return nil, p.errf("unexpected end of input")
	}
	switch {
	case ch == '{':
		return p.parseMapping()
	case ch == '[':
		return p.parseSequence()
	case ch == '"' || ch == '\'':
		s, err := p.parseString()
		if err != nil {
			return nil, err
		}
		return String(s), nil
	case ch == '-' || ch == '+' || isDigit(ch):
		return p.parseNumber()
	default:
		return p.parseWord()
	}
}

func (p *literalParser) parseMapping() (*Value, error) {
	p.pos++ // consume '{'
	obj := Object()
	p.skipSpace()

	if ch, ok := p.peek(); ok && ch == '}' {
		p.pos++
		return obj, nil
	}

	for {
		p.skipSpace()
		ch, ok := p.peek()
		if !ok {
			return nil, p.errf("unterminated mapping")
		}
		if ch != '"' && ch != '\'' {
			return nil, p.errf("mapping key must be a string, got %q", ch)
		}
		key, err := p.parseString()
		if err != nil {
			return nil, err
		}

		p.skipSpace()
		ch, ok = p.peek()
		if !ok || ch != ':' {
			return nil, p.errf("expected ':' after mapping key %q", key)
		}
		p.pos++
		p.skipSpace()

		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		obj.Set(key, val)

		p.skipSpace()
		ch, ok = p.peek()
		if !ok {
			return nil, p.errf("unterminated mapping")
		}
		switch ch {
		case ',':
			p.pos++
			p.skipSpace()
			// Trailing comma before '}' is fine.
			if ch2, ok2 := p.peek(); ok2 && ch2 == '}' {
				p.pos++
				return obj, nil
			}
		case '}':
			p.pos++
			return obj, nil
		default:
			return nil, p.errf("expected ',' or '}' in mapping, got %q", ch)
		}
	}
}

func (p *literalParser) parseSequence() (*Value, error) {
	p.pos++ // consume '['
	arr := Array()
	p.skipSpace()

	if ch, ok := p.peek(); ok && ch == ']' {
		p.pos++
		return arr, nil
	}

	for {
		p.skipSpace()
		item, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		arr.Append(item)

		p.skipSpace()
		ch, ok := p.peek()
		if !ok {
			return nil, p.errf("unterminated sequence")
		}
		switch ch {
		case ',':
			p.pos++
			p.skipSpace()
			if ch2, ok2 := p.peek(); ok2 && ch2 == ']' {
				p.pos++
				return arr, nil
			}
		case ']':
			p.pos++
			return arr, nil
		default:
			return nil, p.errf("expected ',' or ']' in sequence, got %q", ch)
		}
	}
}

// parseString reads a single- or double-quoted string with the usual
// escape sequences. Unknown escapes keep the character as-is.
func (p *literalParser) parseString() (string, error) {
	quote := p.src[p.pos]
	p.pos++

	var b strings.Builder
	for p.pos < len(p.src) {
		ch := p.src[p.pos]
		switch {
		case ch == quote:
			p.pos++
			return b.String(), nil
		case ch == '\\':
			if p.pos+1 >= len(p.src) {
				return "", p.errf("unterminated escape")
			}
			next := p.src[p.pos+1]
			switch next {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case '\\', '/', '"', '\'':
				b.WriteByte(next)
			case 'u':
				r, consumed, err := p.parseUnicodeEscape()
				if err != nil {
					return "", err
				}
				b.WriteRune(r)
				p.pos += consumed
				continue
			default:
				// Permissive: keep unknown escapes as content.
				b.WriteByte(next)
			}
			p.pos += 2
		default:
			b.WriteByte(ch)
			p.pos++
		}
	}
	return "", p.errf("unterminated string")
}

// parseUnicodeEscape decodes \uXXXX at p.pos, pairing surrogates when a
// second \uXXXX follows. Returns the rune and bytes consumed from p.pos.
func (p *literalParser) parseUnicodeEscape() (rune, int, error) {
	if p.pos+6 > len(p.src) {
		return 0, 0, p.errf("truncated unicode escape")
	}
	hi, err := strconv.ParseUint(p.src[p.pos+2:p.pos+6], 16, 32)
	if err != nil {
		return 0, 0, p.errf("invalid unicode escape %q", p.src[p.pos:p.pos+6])
	}
	r := rune(hi)
	if utf16.IsSurrogate(r) && p.pos+12 <= len(p.src) &&
		p.src[p.pos+6] == '\\' && p.src[p.pos+7] == 'u' {
		lo, err := strconv.ParseUint(p.src[p.pos+8:p.pos+12], 16, 32)
		if err == nil {
			if combined := utf16.DecodeRune(r, rune(lo)); combined != 0xFFFD {
				return combined, 12, nil
			}
		}
	}
	return r, 6, nil
}

func (p *literalParser) parseNumber() (*Value, error) {
	start := p.pos
	if ch, _ := p.peek(); ch == '-' || ch == '+' {
		p.pos++
	}
	digits := 0
	for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
		p.pos++
		digits++
	}
	if p.pos < len(p.src) && p.src[p.pos] == '.' {
		p.pos++
		for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
			p.pos++
			digits++
		}
	}
	if digits == 0 {
		return nil, p.errf("malformed number")
	}
	if p.pos < len(p.src) && (p.src[p.pos] == 'e' || p.src[p.pos] == 'E') {
		p.pos++
		if p.pos < len(p.src) && (p.src[p.pos] == '-' || p.src[p.pos] == '+') {
			p.pos++
		}
		expDigits := 0
		for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
			p.pos++
			expDigits++
		}
		if expDigits == 0 {
			return nil, p.errf("malformed exponent")
		}
	}

	text := p.src[start:p.pos]
	if _, err := strconv.ParseFloat(text, 64); err != nil {
		return nil, p.errf("malformed number %q", text)
	}
	// Normalize a leading '+', which strict JSON output never carries.
	text = strings.TrimPrefix(text, "+")
	return Number(text), nil
}

// parseWord reads a bare keyword: JSON or Python spellings of the
// boolean and null literals.
func (p *literalParser) parseWord() (*Value, error) {
	start := p.pos
	for p.pos < len(p.src) && isWordChar(p.src[p.pos]) {
		p.pos++
	}
	word := p.src[start:p.pos]
	switch word {
	case "true", "True":
		return Bool(true), nil
	case "false", "False":
		return Bool(false), nil
	case "null", "None":
		return Null(), nil
	case "":
		return nil, p.errf("unexpected character %q", p.src[start])
	default:
		return nil, p.errf("unknown literal %q", word)
	}
}
