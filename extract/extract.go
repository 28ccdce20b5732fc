//
// Tencent is pleased to support the open source community by making trpc-agent-evalkit available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evalkit is licensed under the Apache License Version 2.0.
//
//

package extract

// Well-known field names recognized during extraction.
const (
	// KeyScore is the preferred score field of a record mapping.
	KeyScore = "score"
	// KeyValue is the fallback score field when KeyScore is absent.
	KeyValue = "value"
	// KeyExplanation must be present for a mapping to count as a record.
	KeyExplanation = "explanation"

	// KeySessionID identifies the session a record belongs to.
	KeySessionID = "session_id"
	// KeyTraceID identifies the trace a record belongs to.
	KeyTraceID = "trace_id"
	// KeyEvaluatorName names the evaluator that produced a record.
	KeyEvaluatorName = "evaluator_name"
	// KeyEvaluatorID identifies the evaluator that produced a record.
	KeyEvaluatorID = "evaluator_id"
	// KeyLabel is the categorical judgment attached to a score.
	KeyLabel = "label"
	// KeySourceFile records which file a record was loaded from.
	KeySourceFile = "source_file"
)

// contextKeys are the identifier fields inherited by records nested below
// the mapping that carries them.
var contextKeys = []string{KeySessionID, KeyTraceID, KeyEvaluatorName, KeyEvaluatorID}

// containerKeys are the only fields extraction descends into on a
// non-record mapping, in this order.
var containerKeys = []string{"results", "evaluations", "data", "items"}

// Extract walks a parsed JSON document and returns every evaluation record
// it contains, in document pre-order. A mapping is a record when it has a
// score field (KeyScore preferred, KeyValue as fallback) together with an
// explanation field. All other mappings only contribute context: their
// identifier fields extend the metadata inherited by nested records, and
// extraction recurses into their container fields.
//
// The walk is read-only and terminates on any tree-shaped input, which a
// JSON parse guarantees. The parent context may be nil.
func Extract(v any, parent Metadata) []Record {
	switch val := v.(type) {
	case []any:
		var records []Record
		for _, item := range val {
			records = append(records, Extract(item, parent)...)
		}
		return records
	case map[string]any:
		return extractMapping(val, parent)
	default:
		// Scalars and null contribute no records.
		return nil
	}
}

func extractMapping(m map[string]any, parent Metadata) []Record {
	if key, ok := scoreKey(m); ok {
		return []Record{newRecord(m, key, parent)}
	}

	context := parent
	extended := false
	for _, key := range contextKeys {
		v, ok := m[key]
		if !ok {
			continue
		}
		s, ok := asScalar(v)
		if !ok {
			continue
		}
		if !extended {
			context = parent.clone()
			extended = true
		}
		context[key] = s
	}

	var records []Record
	for _, key := range containerKeys {
		if v, ok := m[key]; ok {
			records = append(records, Extract(v, context)...)
		}
	}
	return records
}

// scoreKey reports which score field makes this mapping a record.
// KeyScore wins over KeyValue when both are present; the behavior when the
// two disagree is inherited from the upstream service responses, which
// never populate both.
func scoreKey(m map[string]any) (string, bool) {
	if _, ok := m[KeyExplanation]; !ok {
		return "", false
	}
	if _, ok := m[KeyScore]; ok {
		return KeyScore, true
	}
	if _, ok := m[KeyValue]; ok {
		return KeyValue, true
	}
	return "", false
}

// newRecord builds an immutable record from a record mapping. The record's
// metadata is the inherited context merged with every remaining
// scalar-valued field; nested fields are dropped and extraction does not
// descend into a record.
func newRecord(m map[string]any, key string, parent Metadata) Record {
	meta := parent.clone()
	for k, v := range m {
		if k == KeyScore || k == KeyValue || k == KeyExplanation {
			continue
		}
		if s, ok := asScalar(v); ok {
			meta[k] = s
		}
	}
	return Record{
		Score:       m[key],
		Explanation: m[KeyExplanation],
		Metadata:    meta,
	}
}
