//
// Tencent is pleased to support the open source community by making trpc-agent-evalkit available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evalkit is licensed under the Apache License Version 2.0.
//
//

// Package extract turns arbitrarily shaped evaluation response documents
// into a flat sequence of scored records.
package extract

import (
	"encoding/json"
	"strconv"
)

// Scalar is the closed set of value types allowed in record metadata.
// Only strings, numbers and booleans found next to a score survive
// extraction; nested structures are dropped.
type Scalar interface {
	isScalar()
	// Text returns the display form of the value.
	Text() string
}

// String is a string-valued metadata entry.
type String string

// Number is a numeric metadata entry.
type Number float64

// Bool is a boolean metadata entry.
type Bool bool

func (String) isScalar() {}
func (Number) isScalar() {}
func (Bool) isScalar()   {}

// Text returns the string value itself.
func (s String) Text() string { return string(s) }

// Text formats the number with the shortest representation that
// round-trips, matching encoding/json output for float64.
func (n Number) Text() string { return strconv.FormatFloat(float64(n), 'g', -1, 64) }

// Text returns "true" or "false".
func (b Bool) Text() string { return strconv.FormatBool(bool(b)) }

// asScalar converts a parsed JSON value to a Scalar when it is one of the
// admitted scalar types. Null and composite values are rejected.
func asScalar(v any) (Scalar, bool) {
	switch val := v.(type) {
	case string:
		return String(val), true
	case float64:
		return Number(val), true
	case bool:
		return Bool(val), true
	case int:
		return Number(val), true
	case int64:
		return Number(val), true
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return nil, false
		}
		return Number(f), true
	default:
		return nil, false
	}
}

// Metadata is an open mapping of provenance fields attached to a record.
// Keys merge with last-write-wins semantics as extraction descends.
type Metadata map[string]Scalar

// Text returns the display form of the value stored under key.
func (m Metadata) Text(key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	return v.Text(), true
}

// clone copies the metadata so sibling branches never observe each
// other's context extensions.
func (m Metadata) clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Record is one scored judgment extracted from a raw evaluation document.
// Records are immutable once created.
type Record struct {
	// Score is carried exactly as found in the source document. It is
	// usually a float64 in [0, 1] but extraction performs no validation:
	// a missing score stays nil and a non-numeric score passes through
	// untyped. Use ScoreValue for the numeric view.
	Score any `json:"score"`
	// Explanation is the judge rationale, carried untyped like Score.
	Explanation any `json:"explanation"`
	// Metadata holds the inherited context merged with the record's own
	// scalar fields.
	Metadata Metadata `json:"metadata"`
}

// ScoreValue returns the score as a float64 when the record carries a
// numeric score. Missing and non-numeric scores report false and are
// treated as absent by every downstream statistic.
func (r *Record) ScoreValue() (float64, bool) {
	switch s := r.Score.(type) {
	case float64:
		return s, true
	case int:
		return float64(s), true
	case int64:
		return float64(s), true
	case json.Number:
		f, err := s.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
