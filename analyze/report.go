//
// Tencent is pleased to support the open source community by making trpc-agent-evalkit available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evalkit is licensed under the Apache License Version 2.0.
//
//

package analyze

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"trpc.group/trpc-go/trpc-agent-evalkit/stats"
)

const reportTimeLayout = "20060102_150405"

// Report is the outcome of analyzing a run's low-scoring evaluations.
type Report struct {
	// Stats are the run statistics the analysis was based on.
	Stats *stats.RunStats
	// LowScoring is the number of records that fell below the threshold.
	LowScoring int
	// Findings holds the raw per-batch pattern findings.
	Findings []string
	// Summary is the synthesized Markdown recommendation.
	Summary string
}

// Markdown renders the report as a standalone Markdown document.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("# Evaluation Analysis Report\n\n")
	b.WriteString("## Run Statistics\n\n")
	b.WriteString(fmt.Sprintf("- Total evaluations: %d\n", r.Stats.Total))
	b.WriteString(fmt.Sprintf("- Valid scores: %d\n", r.Stats.ValidScores))
	if r.Stats.MeanScore != nil {
		b.WriteString(fmt.Sprintf("- Mean score: %v\n", *r.Stats.MeanScore))
	}
	if r.Stats.MinScore != nil && r.Stats.MaxScore != nil {
		b.WriteString(fmt.Sprintf("- Score range: %v - %v\n", *r.Stats.MinScore, *r.Stats.MaxScore))
	}
	b.WriteString(fmt.Sprintf("- Below threshold (%v): %d (%v%%)\n\n",
		r.Stats.Threshold, r.Stats.LowScoringCount, r.Stats.LowScoringPct))
	if len(r.Stats.ByEvaluator) > 0 {
		b.WriteString("## Evaluator Breakdown\n\n")
		b.WriteString("| Evaluator | Count | Mean | Min | Max |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, name := range sortedEvaluators(r.Stats.ByEvaluator) {
			s := r.Stats.ByEvaluator[name]
			b.WriteString(fmt.Sprintf("| %s | %d | %v | %v | %v |\n",
				name, s.Count, s.Mean, s.Min, s.Max))
		}
		b.WriteString("\n")
	}
	b.WriteString("## Analysis\n\n")
	b.WriteString(r.Summary)
	b.WriteString("\n")
	return b.String()
}

// Writer persists reports to disk with timestamped file names.
type Writer struct {
	outputDir string
	now       func() time.Time
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithOutputDir sets the directory reports are written to.
// Defaults to the current directory.
func WithOutputDir(dir string) WriterOption {
	return func(w *Writer) {
		w.outputDir = dir
	}
}

// WithClock overrides the time source used for file names.
func WithClock(now func() time.Time) WriterOption {
	return func(w *Writer) {
		w.now = now
	}
}

// NewWriter creates a report writer.
func NewWriter(opt ...WriterOption) *Writer {
	w := &Writer{
		outputDir: ".",
		now:       time.Now,
	}
	for _, o := range opt {
		o(w)
	}
	return w
}

// Write renders the report to Markdown and writes it to the output
// directory. Returns the path of the written file.
func (w *Writer) Write(r *Report) (string, error) {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	name := fmt.Sprintf("analysis_report_%s.md", w.now().Format(reportTimeLayout))
	path := filepath.Join(w.outputDir, name)
	if err := os.WriteFile(path, []byte(r.Markdown()), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

func sortedEvaluators(m map[string]*stats.EvaluatorStats) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
