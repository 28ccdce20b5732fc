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
	"fmt"

	"github.com/spf13/cobra"

	"trpc.group/trpc-go/trpc-agent-evalkit/dashboard"
	"trpc.group/trpc-go/trpc-agent-evalkit/resultstore"
)

var (
	dashboardDir string
	dashboardOut string
	dashboardRun string
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Render stored evaluation runs as HTML dashboards",
	Long: `Renders run bundles from the result store into self-contained HTML
dashboards. By default every stored run is rendered; --run restricts the
rendering to one run id.

Examples:
  evalkit dashboard --dir run_results --out dashboards
  evalkit dashboard --run 2f1c0b9a-...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := resultstore.NewManager(resultstore.WithBaseDir(dashboardDir))
		runIDs := []string{dashboardRun}
		if dashboardRun == "" {
			var err error
			runIDs, err = store.List(cmd.Context())
			if err != nil {
				return err
			}
		}
		if len(runIDs) == 0 {
			return fmt.Errorf("no stored runs found in %s: run `evalkit run` first", dashboardDir)
		}
		gen := dashboard.New(dashboard.WithOutputDir(dashboardOut))
		for _, runID := range runIDs {
			run, err := store.Get(cmd.Context(), runID)
			if err != nil {
				return err
			}
			path, err := gen.Generate(cmd.Context(), run.Sessions)
			if err != nil {
				return fmt.Errorf("render run %s: %w", runID, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Run %s rendered to %s\n", runID, path)
		}
		return nil
	},
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardDir, "dir", "run_results", "result store directory")
	dashboardCmd.Flags().StringVar(&dashboardOut, "out", "dashboards", "directory for rendered dashboards")
	dashboardCmd.Flags().StringVar(&dashboardRun, "run", "", "render only this run id")
}
