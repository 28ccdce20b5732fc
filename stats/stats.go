//
// Tencent is pleased to support the open source community by making trpc-agent-evalkit available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evalkit is licensed under the Apache License Version 2.0.
//
//

// Package stats aggregates extracted evaluation records into summary
// statistics and partitions the low-scoring subset for analysis.
package stats

import (
	"errors"
	"fmt"
	"math"

	"trpc.group/trpc-go/trpc-agent-evalkit/extract"
)

// ErrInvalidThreshold is returned when a score threshold is outside [0, 1].
var ErrInvalidThreshold = errors.New("threshold must be within [0, 1]")

// evaluatorUnknown groups records whose metadata identifies no evaluator.
const evaluatorUnknown = "unknown"

// EvaluatorStats aggregates the non-null scores of one named evaluator.
type EvaluatorStats struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	// Stdev is the sample standard deviation, present only when Count > 1.
	Stdev *float64 `json:"stdev,omitempty"`
}

// RunStats aggregates an entire loaded record set. All statistics are
// recomputed from scratch on every Compute call; pointer fields are nil
// when there are not enough valid scores to define them.
type RunStats struct {
	// Total counts every record, including those without a valid score.
	Total int `json:"total"`
	// ValidScores counts records with a numeric score.
	ValidScores     int      `json:"valid_scores"`
	MeanScore       *float64 `json:"mean_score"`
	MinScore        *float64 `json:"min_score"`
	MaxScore        *float64 `json:"max_score"`
	Stdev           *float64 `json:"stdev"`
	LowScoringCount int      `json:"low_scoring_count"`
	// LowScoringPct is 100 * LowScoringCount / ValidScores, 0 when there
	// are no valid scores.
	LowScoringPct float64                    `json:"low_scoring_pct"`
	ByEvaluator   map[string]*EvaluatorStats `json:"by_evaluator"`
	// Threshold is the low-score cutoff used, carried for display.
	Threshold float64 `json:"threshold"`
}

// Compute aggregates records against the given low-score threshold.
// Records without a numeric score count toward Total only. A threshold
// outside [0, 1] fails fast rather than being clamped. Empty input yields
// well-defined zero aggregates, never a division failure.
func Compute(records []extract.Record, threshold float64) (*RunStats, error) {
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidThreshold, threshold)
	}

	var scores []float64
	byEvaluator := make(map[string][]float64)
	lowCount := 0
	for i := range records {
		score, ok := records[i].ScoreValue()
		if !ok {
			continue
		}
		scores = append(scores, score)
		name := evaluatorName(records[i].Metadata)
		byEvaluator[name] = append(byEvaluator[name], score)
		if score < threshold {
			lowCount++
		}
	}

	out := &RunStats{
		Total:           len(records),
		ValidScores:     len(scores),
		LowScoringCount: lowCount,
		ByEvaluator:     make(map[string]*EvaluatorStats, len(byEvaluator)),
		Threshold:       threshold,
	}
	if len(scores) > 0 {
		out.MeanScore = ptr(round3(mean(scores)))
		out.MinScore = ptr(round3(minOf(scores)))
		out.MaxScore = ptr(round3(maxOf(scores)))
		out.LowScoringPct = round1(float64(lowCount) / float64(len(scores)) * 100)
	}
	if len(scores) > 1 {
		out.Stdev = ptr(round3(stdev(scores)))
	}
	for name, ss := range byEvaluator {
		es := &EvaluatorStats{
			Count: len(ss),
			Mean:  round3(mean(ss)),
			Min:   round3(minOf(ss)),
			Max:   round3(maxOf(ss)),
		}
		if len(ss) > 1 {
			es.Stdev = ptr(round3(stdev(ss)))
		}
		out.ByEvaluator[name] = es
	}
	return out, nil
}

// LowScoring returns the records whose numeric score is strictly below
// threshold, preserving the original order. Records without a numeric
// score are never low-scoring.
func LowScoring(records []extract.Record, threshold float64) []extract.Record {
	var out []extract.Record
	for i := range records {
		if score, ok := records[i].ScoreValue(); ok && score < threshold {
			out = append(out, records[i])
		}
	}
	return out
}

// evaluatorName resolves the grouping key for a record: evaluator_name,
// then label, then "unknown".
func evaluatorName(meta extract.Metadata) string {
	if name, ok := meta.Text(extract.KeyEvaluatorName); ok {
		return name
	}
	if label, ok := meta.Text(extract.KeyLabel); ok {
		return label
	}
	return evaluatorUnknown
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stdev is the sample (n-1) standard deviation. Callers guarantee
// len(xs) > 1.
func stdev(xs []float64) float64 {
	m := mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)-1))
}

func minOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func maxOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

func round3(x float64) float64 { return math.Round(x*1000) / 1000 }

func round1(x float64) float64 { return math.Round(x*10) / 10 }

func ptr(x float64) *float64 { return &x }
