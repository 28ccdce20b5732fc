//
// Tencent is pleased to support the open source community by making trpc-agent-evalkit available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evalkit is licensed under the Apache License Version 2.0.
//
//

// Package resultstore persists the per-session result bundles of an
// evaluation run so dashboards can be regenerated without re-scoring.
package resultstore

import (
	"context"
	"time"

	"trpc.group/trpc-go/trpc-agent-evalkit/dashboard"
)

// RunResult is one stored evaluation run.
type RunResult struct {
	// RunID uniquely identifies this run. Assigned on save when empty.
	RunID string `json:"run_id"`
	// AgentID is the agent the run evaluated.
	AgentID string `json:"agent_id,omitempty"`
	// CreatedAt is when the run was stored.
	CreatedAt time.Time `json:"created_at"`
	// Sessions holds the bundles in evaluation order.
	Sessions []*dashboard.SessionResult `json:"sessions"`
}

// Manager stores and retrieves evaluation runs.
type Manager interface {
	// Save stores a run and returns its id.
	Save(ctx context.Context, result *RunResult) (string, error)
	// Get retrieves a run by id.
	Get(ctx context.Context, runID string) (*RunResult, error)
	// List returns the ids of all stored runs.
	List(ctx context.Context) ([]string, error)
}

// Options configures a result store.
type Options struct {
	// BaseDir is the directory run files are stored in.
	BaseDir string
}

// NewOptions applies functional options over the defaults.
func NewOptions(opt ...Option) *Options {
	opts := &Options{
		BaseDir: "run_results",
	}
	for _, o := range opt {
		o(opts)
	}
	return opts
}

// Option configures the result store.
type Option func(*Options)

// WithBaseDir overrides the default base directory used to store runs.
func WithBaseDir(dir string) Option {
	return func(o *Options) {
		o.BaseDir = dir
	}
}
