//
// Tencent is pleased to support the open source community by making trpc-agent-evalkit available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evalkit is licensed under the Apache License Version 2.0.
//
//

package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"trpc.group/trpc-go/trpc-agent-evalkit/analyze"
	"trpc.group/trpc-go/trpc-agent-evalkit/extract"
	"trpc.group/trpc-go/trpc-agent-evalkit/stats"
)

var (
	analyzeDir       string
	analyzeThreshold float64
	analyzeBatchSize int
	analyzeLLM       bool
	analyzeModel     string
	analyzeOut       string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Aggregate score statistics from evaluation result files",
	Long: `Loads every *.json file in the data directory, extracts the individual
evaluation records and prints aggregate score statistics.

With --llm the low-scoring records are additionally analyzed for
systematic failure patterns and a Markdown report is written. The LLM
credentials are taken from the environment of the underlying client.

Examples:
  evalkit analyze --dir eval_data
  evalkit analyze --dir eval_data --threshold 0.5 --llm`,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := extract.LoadDir(analyzeDir)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return fmt.Errorf("no evaluation records found in %s: "+
				"expected *.json files containing score/explanation entries", analyzeDir)
		}
		runStats, err := stats.Compute(records, analyzeThreshold)
		if err != nil {
			return err
		}
		printStats(cmd.OutOrStdout(), runStats)

		if !analyzeLLM {
			return nil
		}
		var opts []analyze.Option
		if analyzeModel != "" {
			opts = append(opts, analyze.WithModel(analyzeModel))
		}
		report, err := analyze.New(opts...).Analyze(cmd.Context(), records, runStats, analyzeBatchSize)
		if errors.Is(err, analyze.ErrNoLowScoring) {
			fmt.Fprintln(cmd.OutOrStdout(), "No low-scoring evaluations, skipping analysis.")
			return nil
		}
		if err != nil {
			return err
		}
		path, err := analyze.NewWriter(analyze.WithOutputDir(analyzeOut)).Write(report)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Analysis report written to %s\n", path)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeDir, "dir", "eval_data", "directory with evaluation result JSON files")
	analyzeCmd.Flags().Float64Var(&analyzeThreshold, "threshold", 0.7, "low-score cutoff in [0, 1]")
	analyzeCmd.Flags().IntVar(&analyzeBatchSize, "batch-size", 10, "records per analysis batch")
	analyzeCmd.Flags().BoolVar(&analyzeLLM, "llm", false, "analyze low-scoring records with an LLM")
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "", "analysis model override")
	analyzeCmd.Flags().StringVar(&analyzeOut, "out", ".", "directory for the analysis report")
}

func printStats(w io.Writer, s *stats.RunStats) {
	fmt.Fprintf(w, "Total evaluations:  %d\n", s.Total)
	fmt.Fprintf(w, "Valid scores:       %d\n", s.ValidScores)
	if s.MeanScore != nil {
		fmt.Fprintf(w, "Mean score:         %v\n", *s.MeanScore)
	}
	if s.MinScore != nil && s.MaxScore != nil {
		fmt.Fprintf(w, "Score range:        %v - %v\n", *s.MinScore, *s.MaxScore)
	}
	if s.Stdev != nil {
		fmt.Fprintf(w, "Stdev:              %v\n", *s.Stdev)
	}
	fmt.Fprintf(w, "Below %v:          %d (%v%%)\n", s.Threshold, s.LowScoringCount, s.LowScoringPct)
	if len(s.ByEvaluator) == 0 {
		return
	}
	fmt.Fprintln(w, "\nBy evaluator:")
	names := make([]string, 0, len(s.ByEvaluator))
	for name := range s.ByEvaluator {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		e := s.ByEvaluator[name]
		fmt.Fprintf(w, "  %-30s n=%-4d mean=%-7v min=%-7v max=%v\n",
			name, e.Count, e.Mean, e.Min, e.Max)
	}
}
