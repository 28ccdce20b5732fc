//
// Tencent is pleased to support the open source community by making trpc-agent-evalkit available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evalkit is licensed under the Apache License Version 2.0.
//
//

// Package dashboard renders per-session evaluation result bundles into a
// single self-contained interactive HTML report. The generated artifact
// embeds the full dataset inline; the only external reference is the
// Chart.js library loaded from a CDN.
package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"trpc.group/trpc-go/trpc-agent-evalkit/log"
)

// ErrNoSessions is returned when there are no bundles to render.
var ErrNoSessions = errors.New("no session results to render")

// TokenUsage breaks down the token consumption of one evaluation result.
type TokenUsage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
	TotalTokens  int `json:"totalTokens"`
}

// Result is one evaluator outcome within a session.
type Result struct {
	EvaluatorID string `json:"evaluator_id"`
	// EvaluatorName is the human-readable evaluator name when the scoring
	// service reports one distinct from the id.
	EvaluatorName string `json:"evaluator_name,omitempty"`
	// Value is the numeric score, nil when the evaluator produced none.
	Value *float64 `json:"value"`
	Label string   `json:"label,omitempty"`
	// Explanation is always serialized, even when empty: the extractor
	// recognizes a result as a record by the presence of this field.
	Explanation string      `json:"explanation"`
	TokenUsage  *TokenUsage `json:"token_usage,omitempty"`
}

// SessionResult bundles the evaluation results of one session. Bundles are
// rendered in the order supplied; the dashboard never re-sorts them.
type SessionResult struct {
	SessionID string         `json:"session_id"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Results   []*Result      `json:"results"`
}

// Generator writes evaluation dashboards.
type Generator struct {
	outputDir string
	now       func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithOutputDir sets the directory dashboards are written to.
// It is created on first use if absent. Defaults to the working directory.
func WithOutputDir(dir string) Option {
	return func(g *Generator) {
		g.outputDir = dir
	}
}

// WithClock overrides the time source used for the artifact name and the
// generated-at header. Intended for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// New creates a dashboard generator.
func New(opt ...Option) *Generator {
	g := &Generator{
		outputDir: ".",
		now:       time.Now,
	}
	for _, o := range opt {
		o(g)
	}
	return g
}

// Generate renders the bundles into
// <outputDir>/evaluation_dashboard_<YYYYMMDD_HHMMSS>.html and returns the
// path of the written file. The rendered document is fully computed before
// the file is opened, so a write failure leaves at worst a partial file;
// callers needing atomicity should write to a temporary directory and
// rename. Identical bundles and a fixed clock produce byte-identical
// artifacts.
func (g *Generator) Generate(ctx context.Context, sessions []*SessionResult) (string, error) {
	if len(sessions) == 0 {
		return "", ErrNoSessions
	}

	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal session results: %w", err)
	}

	now := g.now()
	var buf bytes.Buffer
	err = dashboardTmpl.Execute(&buf, dashboardView{
		Timestamp: now.Format("20060102_150405"),
		Generated: now.Format("2006-01-02 15:04:05"),
		Data:      template.JS(data),
	})
	if err != nil {
		return "", fmt.Errorf("render dashboard: %w", err)
	}

	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(g.outputDir, fmt.Sprintf("evaluation_dashboard_%s.html", now.Format("20060102_150405")))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write dashboard: %w", err)
	}
	log.Infof("dashboard generated: %s (%d sessions)", path, len(sessions))
	return path, nil
}

// dashboardView is the data handed to the HTML template.
type dashboardView struct {
	Timestamp string
	Generated string
	Data      template.JS
}
