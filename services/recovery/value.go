// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package recovery repairs malformed JSON produced by generative models.
//
// # Description
//
// Models asked to emit JSON frequently get it almost right: prose before
// the object, a missing closing brace, a bare 7:30 where a string was
// required, Python-style single quotes, or raw newlines inside string
// values. This package runs a fixed sequence of increasingly aggressive
// repairs over the raw text, attempting a strict parse after each one and
// stopping at the first success. A permissive literal parser is the last
// resort; only exhausting every stage produces a failure, and that failure
// is a returned value rather than a panic.
//
// # Pipeline
//
//	raw → extract → balance → quote time tokens → normalize quotes
//	    → re-escape multiline values → literal fallback
//
// # Thread Safety
//
// Every function in this package is a pure computation over its input
// string. There is no shared state; concurrent calls need no coordination.
package recovery

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	// KindNull is the JSON null.
	KindNull Kind = iota

	// KindBool is a boolean.
	KindBool

	// KindNumber is a number, kept in its textual form.
	KindNumber

	// KindString is a string.
	KindString

	// KindArray is an ordered sequence of values.
	KindArray

	// KindObject is a mapping of string keys to values.
	KindObject
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Member is a single key/value entry of an object.
type Member struct {
	Key   string
	Value *Value
}

// Value is a tagged union over the JSON value kinds.
//
// # Description
//
// The parse target of the pipeline. Objects keep insertion order so a
// recovered document round-trips in a stable shape; numbers keep their
// textual form so large integers survive untouched.
//
// # Thread Safety
//
// Values are built once and read afterwards; they are not safe for
// concurrent mutation.
type Value struct {
	kind  Kind
	str   string // string payload, or textual number
	b     bool
	items []*Value
	membs []Member
	index map[string]int
}

// Null returns the null value.
func Null() *Value { return &Value{kind: KindNull} }

// Bool returns a boolean value.
func Bool(b bool) *Value { return &Value{kind: KindBool, b: b} }

// String returns a string value.
func String(s string) *Value { return &Value{kind: KindString, str: s} }

// Number returns a number value from its textual form.
func Number(text string) *Value { return &Value{kind: KindNumber, str: text} }

// NumberFloat returns a number value from a float64.
func NumberFloat(f float64) *Value {
	return &Value{kind: KindNumber, str: strconv.FormatFloat(f, 'g', -1, 64)}
}

// Array returns an array value holding the given items.
func Array(items ...*Value) *Value {
	return &Value{kind: KindArray, items: items}
}

// Object returns an empty object value.
func Object() *Value {
	return &Value{kind: KindObject, index: map[string]int{}}
}

// Kind returns the variant tag.
func (v *Value) Kind() Kind { return v.kind }

// Str returns the string payload. Valid only for KindString.
func (v *Value) Str() string { return v.str }

// BoolVal returns the boolean payload. Valid only for KindBool.
func (v *Value) BoolVal() bool { return v.b }

// NumberText returns the textual form of a number.
func (v *Value) NumberText() string { return v.str }

// Float64 returns the number as a float64.
//
// # Outputs
//
//   - float64: The parsed number, 0 on parse failure.
//   - error: Non-nil if the value is not a number or does not parse.
func (v *Value) Float64() (float64, error) {
	if v.kind != KindNumber {
		return 0, fmt.Errorf("value is %s, not a number", v.kind)
	}
	return strconv.ParseFloat(v.str, 64)
}

// Items returns the elements of an array. Nil for other kinds.
func (v *Value) Items() []*Value { return v.items }

// Len returns the element count for arrays and the member count for
// objects; 0 for scalars.
func (v *Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.membs)
	default:
		return 0
	}
}

// Members returns the object members in insertion order.
func (v *Value) Members() []Member { return v.membs }

// Get looks up an object member by key.
func (v *Value) Get(key string) (*Value, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	i, ok := v.index[key]
	if !ok {
		return nil, false
	}
	return v.membs[i].Value, true
}

// Set inserts or replaces an object member, preserving insertion order.
func (v *Value) Set(key string, val *Value) {
	if v.kind != KindObject {
		return
	}
	if i, ok := v.index[key]; ok {
		v.membs[i].Value = val
		return
	}
	v.index[key] = len(v.membs)
	v.membs = append(v.membs, Member{Key: key, Value: val})
}

// Append adds an element to an array value.
func (v *Value) Append(item *Value) {
	if v.kind == KindArray {
		v.items = append(v.items, item)
	}
}

// Interface converts the value into plain Go types: map[string]any,
// []any, string, float64, bool, and nil. Numbers that do not fit a
// float64 keep their textual form as json.Number.
func (v *Value) Interface() any {
	if v == nil {
		return nil
	}
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindString:
		return v.str
	case KindNumber:
		if f, err := strconv.ParseFloat(v.str, 64); err == nil {
			return f
		}
		return json.Number(v.str)
	case KindArray:
		out := make([]any, len(v.items))
		for i, it := range v.items {
			out[i] = it.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.membs))
		for _, m := range v.membs {
			out[m.Key] = m.Value.Interface()
		}
		return out
	default:
		return nil
	}
}

// Encode renders the value as compact JSON with members in insertion
// order.
func (v *Value) Encode() string {
	var b strings.Builder
	v.encode(&b)
	return b.String()
}

// MarshalJSON implements json.Marshaler.
func (v *Value) MarshalJSON() ([]byte, error) {
	return []byte(v.Encode()), nil
}

func (v *Value) encode(b *strings.Builder) {
	if v == nil {
		b.WriteString("null")
		return
	}
	switch v.kind {
	case KindNull:
		b.WriteString("null")
	case KindBool:
		if v.b {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case KindNumber:
		b.WriteString(v.str)
	case KindString:
		enc, _ := json.Marshal(v.str)
		b.Write(enc)
	case KindArray:
		b.WriteByte('[')
		for i, it := range v.items {
			if i > 0 {
				b.WriteByte(',')
			}
			it.encode(b)
		}
		b.WriteByte(']')
	case KindObject:
		b.WriteByte('{')
		for i, m := range v.membs {
			if i > 0 {
				b.WriteByte(',')
			}
			key, _ := json.Marshal(m.Key)
			b.Write(key)
			b.WriteByte(':')
			m.Value.encode(b)
		}
		b.WriteByte('}')
	}
}

// ParseStrict parses text under the standard JSON grammar.
//
// # Description
//
// This is the "strict parse" the pipeline attempts after each stage.
// Trailing non-whitespace after the first document is rejected, so a
// candidate with leftover garbage does not pass by accident. Numbers are
// decoded with UseNumber to keep their textual form.
//
// # Inputs
//
//   - text: Candidate JSON text.
//
// # Outputs
//
//   - *Value: The parsed document on success.
//   - error: Non-nil if the text is not valid JSON.
func ParseStrict(text string) (*Value, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	// Anything beyond the first document is a parse failure.
	if dec.More() {
		return nil, fmt.Errorf("trailing data after JSON document")
	}
	return fromGo(raw), nil
}

// fromGo converts a decoded encoding/json value into a Value.
// Map keys are sorted so the result is deterministic; the strict path
// goes through Go maps, which do not preserve source order.
func fromGo(raw any) *Value {
	switch t := raw.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case json.Number:
		return Number(t.String())
	case float64:
		return NumberFloat(t)
	case []any:
		arr := Array()
		for _, it := range t {
			arr.Append(fromGo(it))
		}
		return arr
	case map[string]any:
		obj := Object()
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			obj.Set(k, fromGo(t[k]))
		}
		return obj
	default:
		return Null()
	}
}
