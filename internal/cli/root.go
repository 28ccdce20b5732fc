//
// Tencent is pleased to support the open source community by making trpc-agent-evalkit available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evalkit is licensed under the Apache License Version 2.0.
//
//

// Package cli implements the evalkit command-line interface.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"trpc.group/trpc-go/trpc-agent-evalkit/log"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "evalkit",
	Short: "Aggregate, analyze and visualize agent evaluation results",
	Long: `evalkit works with the JSON result files produced by agent evaluation
runs: it extracts the individual judgments, aggregates score statistics,
renders a self-contained HTML dashboard and, when configured with an LLM,
analyzes low-scoring evaluations for systematic failure patterns.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.LevelDebug)
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(runCmd)
}
