//
// Tencent is pleased to support the open source community by making trpc-agent-evalkit available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evalkit is licensed under the Apache License Version 2.0.
//
//

// Package pipeline wires the agent runtime, the evaluation service, the
// result store and the reporting layers into one end-to-end run. All
// retry, concurrency and continue-on-error policy lives here; the core
// packages it drives stay synchronous and policy-free.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/panjf2000/ants/v2"

	"trpc.group/trpc-go/trpc-agent-evalkit/analyze"
	"trpc.group/trpc-go/trpc-agent-evalkit/dashboard"
	"trpc.group/trpc-go/trpc-agent-evalkit/extract"
	"trpc.group/trpc-go/trpc-agent-evalkit/log"
	"trpc.group/trpc-go/trpc-agent-evalkit/resultstore"
	"trpc.group/trpc-go/trpc-agent-evalkit/service"
	"trpc.group/trpc-go/trpc-agent-evalkit/stats"
)

// Pipeline runs prompts through an agent runtime, scores the resulting
// sessions and renders the reporting artifacts.
type Pipeline struct {
	cfg      *Config
	runtime  service.Runtime
	eval     service.Evaluation
	store    resultstore.Manager
	dash     *dashboard.Generator
	reports  *analyze.Writer
	analyzer *analyze.Analyzer
}

// Option configures a Pipeline beyond its Config.
type Option func(*Pipeline)

// WithStore overrides the result store.
func WithStore(m resultstore.Manager) Option {
	return func(p *Pipeline) {
		p.store = m
	}
}

// WithDashboard overrides the dashboard generator.
func WithDashboard(g *dashboard.Generator) Option {
	return func(p *Pipeline) {
		p.dash = g
	}
}

// WithReportWriter overrides the analysis report writer.
func WithReportWriter(w *analyze.Writer) Option {
	return func(p *Pipeline) {
		p.reports = w
	}
}

// WithAnalyzer overrides the analyzer used when Config.Analyze is set.
func WithAnalyzer(a *analyze.Analyzer) Option {
	return func(p *Pipeline) {
		p.analyzer = a
	}
}

// New creates a pipeline over a validated config and the two external
// services.
func New(cfg *Config, runtime service.Runtime, eval service.Evaluation, opt ...Option) (*Pipeline, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if runtime == nil {
		return nil, errors.New("runtime is nil")
	}
	if eval == nil {
		return nil, errors.New("evaluation service is nil")
	}
	p := &Pipeline{
		cfg:     cfg,
		runtime: runtime,
		eval:    eval,
	}
	for _, o := range opt {
		o(p)
	}
	if p.store == nil {
		p.store = resultstore.NewManager(resultstore.WithBaseDir(cfg.ResultDir))
	}
	if p.dash == nil {
		p.dash = dashboard.New(dashboard.WithOutputDir(cfg.OutputDir))
	}
	if p.reports == nil {
		p.reports = analyze.NewWriter(analyze.WithOutputDir(cfg.OutputDir))
	}
	if cfg.Analyze && p.analyzer == nil {
		var analyzeOpts []analyze.Option
		if cfg.AnalysisModel != "" {
			analyzeOpts = append(analyzeOpts, analyze.WithModel(cfg.AnalysisModel))
		}
		p.analyzer = analyze.New(analyzeOpts...)
	}
	return p, nil
}

// Outcome summarizes one pipeline run.
type Outcome struct {
	// RunID identifies the stored run.
	RunID string
	// DashboardPath is the rendered dashboard file.
	DashboardPath string
	// ReportPath is the analysis report, empty when analysis did not run.
	ReportPath string
	// Stats are the run statistics.
	Stats *stats.RunStats
	// FailedSessions lists session ids that were invoked or evaluated
	// unsuccessfully and skipped.
	FailedSessions []string
}

// promptSession is one prompt successfully driven through the runtime.
type promptSession struct {
	id       string
	metadata map[string]any
}

// sessionOutcome is the evaluation result of one session.
type sessionOutcome struct {
	bundle *dashboard.SessionResult
	err    error
}

// Run executes the pipeline end to end. Per-session failures are logged
// and skipped; Run fails only when no session survives or an artifact
// step fails.
func (p *Pipeline) Run(ctx context.Context) (*Outcome, error) {
	outcome := &Outcome{}

	sessions := p.invokePrompts(ctx, outcome)
	if len(sessions) == 0 {
		return nil, errors.New("no prompt produced a session")
	}
	if err := p.settle(ctx); err != nil {
		return nil, err
	}

	bundles, err := p.evaluateSessions(ctx, sessions, outcome)
	if err != nil {
		return nil, err
	}
	if len(bundles) == 0 {
		return nil, errors.New("no session was evaluated successfully")
	}

	runID, err := p.store.Save(ctx, &resultstore.RunResult{
		AgentID:  p.cfg.AgentID,
		Sessions: bundles,
	})
	if err != nil {
		return nil, fmt.Errorf("store run: %w", err)
	}
	outcome.RunID = runID

	records, err := bundleRecords(bundles)
	if err != nil {
		return nil, err
	}
	runStats, err := stats.Compute(records, p.cfg.ScoreThreshold)
	if err != nil {
		return nil, err
	}
	outcome.Stats = runStats

	path, err := p.dash.Generate(ctx, bundles)
	if err != nil {
		return nil, fmt.Errorf("render dashboard: %w", err)
	}
	outcome.DashboardPath = path

	if p.analyzer != nil {
		if err := p.analyzeRun(ctx, records, runStats, outcome); err != nil {
			return nil, err
		}
	}
	log.Infof("run %s complete: %d sessions, %d failed, dashboard %s",
		runID, len(bundles), len(outcome.FailedSessions), path)
	return outcome, nil
}

// invokePrompts drives each prompt through the runtime in order. Failed
// prompts are recorded on the outcome and skipped.
func (p *Pipeline) invokePrompts(ctx context.Context, outcome *Outcome) []*promptSession {
	sessions := make([]*promptSession, 0, len(p.cfg.Prompts))
	for i, prompt := range p.cfg.Prompts {
		sessionID := prompt.SessionID
		if sessionID == "" {
			sessionID = uuid.NewString()
		}
		payload, err := json.Marshal(map[string]string{"prompt": prompt.Text})
		if err != nil {
			log.Errorf("marshal prompt %d: %v", i, err)
			outcome.FailedSessions = append(outcome.FailedSessions, sessionID)
			continue
		}
		if _, err := p.runtime.Invoke(ctx, &service.InvokeRequest{
			AgentID:   p.cfg.AgentID,
			SessionID: sessionID,
			Payload:   payload,
		}); err != nil {
			log.Errorf("invoke prompt %d (session %s): %v", i, sessionID, err)
			outcome.FailedSessions = append(outcome.FailedSessions, sessionID)
			continue
		}
		log.Debugf("invoked prompt %d under session %s", i, sessionID)
		sessions = append(sessions, &promptSession{
			id:       sessionID,
			metadata: prompt.Metadata,
		})
	}
	return sessions
}

// settle waits for the runtime to flush traces before scoring.
func (p *Pipeline) settle(ctx context.Context) error {
	if p.cfg.SettleSeconds <= 0 {
		return nil
	}
	log.Infof("waiting %ds for traces to settle", p.cfg.SettleSeconds)
	return sleepContext(ctx, time.Duration(p.cfg.SettleSeconds)*time.Second)
}

// evaluateSessions scores the sessions concurrently, preserving prompt
// order in the returned bundles. Failed sessions are recorded on the
// outcome and skipped.
func (p *Pipeline) evaluateSessions(
	ctx context.Context,
	sessions []*promptSession,
	outcome *Outcome,
) ([]*dashboard.SessionResult, error) {
	pool, err := ants.NewPool(p.cfg.Concurrency)
	if err != nil {
		return nil, fmt.Errorf("create session eval pool: %w", err)
	}
	defer pool.Release()

	results := make([]*sessionOutcome, len(sessions))
	var wg sync.WaitGroup
	for idx, session := range sessions {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			results[idx] = p.evaluateSession(ctx, session)
		}
		if err := pool.Submit(task); err != nil {
			wg.Done()
			results[idx] = &sessionOutcome{
				err: fmt.Errorf("submit evaluation for session %s: %w", session.id, err),
			}
		}
	}
	wg.Wait()

	var merr *multierror.Error
	bundles := make([]*dashboard.SessionResult, 0, len(results))
	for idx, result := range results {
		if result.err != nil {
			log.Errorf("session %s skipped: %v", sessions[idx].id, result.err)
			outcome.FailedSessions = append(outcome.FailedSessions, sessions[idx].id)
			merr = multierror.Append(merr, result.err)
			continue
		}
		bundles = append(bundles, result.bundle)
	}
	if len(bundles) == 0 && merr != nil {
		return nil, fmt.Errorf("evaluate sessions: %w", merr.ErrorOrNil())
	}
	return bundles, nil
}

// evaluateSession scores one session with bounded retries.
func (p *Pipeline) evaluateSession(ctx context.Context, session *promptSession) *sessionOutcome {
	var lastErr error
	for attempt := 1; attempt <= p.cfg.MaxRetries; attempt++ {
		if attempt > 1 {
			if err := sleepContext(ctx, time.Duration(p.cfg.RetryDelaySeconds)*time.Second); err != nil {
				return &sessionOutcome{err: err}
			}
			log.Warnf("retrying evaluation for session %s (attempt %d/%d)",
				session.id, attempt, p.cfg.MaxRetries)
		}
		resp, err := p.eval.Run(ctx, &service.RunRequest{
			AgentID:    p.cfg.AgentID,
			SessionID:  session.id,
			Evaluators: p.cfg.Evaluators,
		})
		if err != nil {
			lastErr = err
			continue
		}
		return &sessionOutcome{bundle: newSessionBundle(session, resp.Results)}
	}
	return &sessionOutcome{
		err: fmt.Errorf("evaluate session %s after %d attempts: %w",
			session.id, p.cfg.MaxRetries, lastErr),
	}
}

// analyzeRun runs the LLM analysis over the low-scoring subset and writes
// the report. A run with nothing below threshold is a success.
func (p *Pipeline) analyzeRun(
	ctx context.Context,
	records []extract.Record,
	runStats *stats.RunStats,
	outcome *Outcome,
) error {
	report, err := p.analyzer.Analyze(ctx, records, runStats, p.cfg.BatchSize)
	if errors.Is(err, analyze.ErrNoLowScoring) {
		log.Infof("no low-scoring evaluations, skipping analysis report")
		return nil
	}
	if err != nil {
		return fmt.Errorf("analyze run: %w", err)
	}
	path, err := p.reports.Write(report)
	if err != nil {
		return err
	}
	outcome.ReportPath = path
	return nil
}

// newSessionBundle maps evaluation service results into a dashboard bundle.
func newSessionBundle(session *promptSession, results []*service.EvalResult) *dashboard.SessionResult {
	bundle := &dashboard.SessionResult{
		SessionID: session.id,
		Metadata:  session.metadata,
		Results:   make([]*dashboard.Result, 0, len(results)),
	}
	for _, r := range results {
		evaluatorID := r.EvaluatorID
		if evaluatorID == "" {
			evaluatorID = r.EvaluatorName
		}
		result := &dashboard.Result{
			EvaluatorID:   evaluatorID,
			EvaluatorName: r.EvaluatorName,
			Value:         r.Value,
			Label:         r.Label,
			Explanation:   r.Explanation,
		}
		if r.TokenUsage != nil {
			result.TokenUsage = &dashboard.TokenUsage{
				InputTokens:  r.TokenUsage.InputTokens,
				OutputTokens: r.TokenUsage.OutputTokens,
				TotalTokens:  r.TokenUsage.TotalTokens,
			}
		}
		bundle.Results = append(bundle.Results, result)
	}
	return bundle
}

// bundleRecords re-extracts flat records from the bundles so statistics
// and analysis see exactly what the stored artifacts contain.
func bundleRecords(bundles []*dashboard.SessionResult) ([]extract.Record, error) {
	data, err := json.Marshal(bundles)
	if err != nil {
		return nil, fmt.Errorf("marshal bundles: %w", err)
	}
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse bundles: %w", err)
	}
	return extract.Extract(parsed, nil), nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
