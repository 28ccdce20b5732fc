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
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"trpc.group/trpc-go/trpc-agent-evalkit/pipeline"
	"trpc.group/trpc-go/trpc-agent-evalkit/service"
)

var (
	runConfigFile string
	runEndpoint   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full evaluation pipeline",
	Long: `Drives the configured prompts through the agent runtime, waits for the
traces to settle, scores each session with the configured evaluators,
stores the run and renders the dashboard. With analyze enabled in the
config, low-scoring evaluations are additionally analyzed into a
Markdown report.

Examples:
  evalkit run --config pipeline.yaml --endpoint http://localhost:8080`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if runEndpoint == "" {
			return errors.New("--endpoint is required")
		}
		cfg, err := pipeline.LoadConfig(runConfigFile)
		if err != nil {
			return err
		}
		client := service.NewClient(runEndpoint)
		p, err := pipeline.New(cfg, client, client)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		go func() {
			select {
			case <-sigCh:
				fmt.Fprintln(cmd.ErrOrStderr(), "interrupt received, stopping")
				cancel()
			case <-ctx.Done():
			}
		}()

		outcome, err := p.Run(ctx)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Run %s complete.\n", outcome.RunID)
		fmt.Fprintf(out, "Dashboard: %s\n", outcome.DashboardPath)
		if outcome.ReportPath != "" {
			fmt.Fprintf(out, "Analysis report: %s\n", outcome.ReportPath)
		}
		if len(outcome.FailedSessions) > 0 {
			fmt.Fprintf(out, "Skipped sessions: %v\n", outcome.FailedSessions)
		}
		printStats(out, outcome.Stats)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runConfigFile, "config", "pipeline.yaml", "pipeline config file")
	runCmd.Flags().StringVar(&runEndpoint, "endpoint", "", "base URL of the agent runtime and evaluation service")
}
