//
// Tencent is pleased to support the open source community by making trpc-agent-evalkit available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evalkit is licensed under the Apache License Version 2.0.
//
//

// Package analyze turns low-scoring evaluation batches into prose
// recommendations through an LLM. The analysis itself is an external
// concern; this package assembles prompts, drives the model and renders
// the resulting report.
package analyze

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go"
	openaiopt "github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"trpc.group/trpc-go/trpc-agent-evalkit/extract"
	"trpc.group/trpc-go/trpc-agent-evalkit/log"
	"trpc.group/trpc-go/trpc-agent-evalkit/stats"
)

// ErrNoLowScoring is returned when there is nothing to analyze. It is a
// positive outcome: every record met the threshold.
var ErrNoLowScoring = errors.New("no low-scoring evaluations to analyze")

const defaultModel = "gpt-4o-mini"

const batchAnalyzerInstructions = `You analyze low-scoring agent evaluations to identify systematic failure patterns.
Each evaluation has a score (scores below the threshold indicate problems), an explanation from the LLM judge, and metadata with evaluator_name and trace/session identifiers.
Read each explanation, group similar failures, and report at most 5 systematic patterns (2+ occurrences each) as JSON: {"patterns": [{"name", "description", "count", "evaluators_affected", "evidence", "root_cause"}]}.
Evidence must be verbatim quotes from the explanations.`

const synthesisInstructions = `You synthesize evaluation analysis into actionable recommendations.
Given overall statistics and per-batch failure patterns, identify the top 3 problems ranked by frequency and severity, cite verbatim evidence for each, and propose specific, minimal fixes.
Answer in Markdown with a short summary followed by the three problems.`

// Analyzer drives LLM analysis of low-scoring evaluation records.
type Analyzer struct {
	client openai.Client
	model  string
}

// Option configures an Analyzer.
type Option func(*config)

type config struct {
	model      string
	clientOpts []openaiopt.RequestOption
}

// WithModel overrides the model used for analysis.
func WithModel(model string) Option {
	return func(c *config) {
		c.model = model
	}
}

// WithClientOptions appends options for the underlying OpenAI-compatible
// client, such as base URL and API key overrides.
func WithClientOptions(opts ...openaiopt.RequestOption) Option {
	return func(c *config) {
		c.clientOpts = append(c.clientOpts, opts...)
	}
}

// New creates an analyzer. Credentials default to the environment handling
// of the underlying client.
func New(opt ...Option) *Analyzer {
	cfg := &config{model: defaultModel}
	for _, o := range opt {
		o(cfg)
	}
	return &Analyzer{
		client: openai.NewClient(cfg.clientOpts...),
		model:  cfg.model,
	}
}

// AnalyzeBatch analyzes one batch of low-scoring records and returns the
// model's pattern findings.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, batch []extract.Record) (string, error) {
	prompt, err := batchPrompt(batch)
	if err != nil {
		return "", err
	}
	return a.complete(ctx, batchAnalyzerInstructions, prompt)
}

// Analyze partitions the low-scoring subset of records into batches,
// analyzes each batch, and synthesizes a report. Returns ErrNoLowScoring
// when every scored record met the threshold.
func (a *Analyzer) Analyze(ctx context.Context, records []extract.Record, runStats *stats.RunStats, batchSize int) (*Report, error) {
	low := stats.LowScoring(records, runStats.Threshold)
	if len(low) == 0 {
		return nil, ErrNoLowScoring
	}
	batches, err := stats.Partition(low, batchSize)
	if err != nil {
		return nil, err
	}
	log.Infof("analyzing %d low-scoring evaluations in %d batches", len(low), len(batches))

	findings := make([]string, 0, len(batches))
	for i, batch := range batches {
		finding, err := a.AnalyzeBatch(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("analyze batch %d/%d: %w", i+1, len(batches), err)
		}
		findings = append(findings, finding)
	}

	summary, err := a.complete(ctx, synthesisInstructions, synthesisPrompt(runStats, findings))
	if err != nil {
		return nil, fmt.Errorf("synthesize report: %w", err)
	}
	return &Report{
		Stats:      runStats,
		LowScoring: len(low),
		Findings:   findings,
		Summary:    summary,
	}, nil
}

func (a *Analyzer) complete(ctx context.Context, instructions, prompt string) (string, error) {
	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(a.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(instructions),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("model returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// batchPrompt serializes one batch for the analyzer model.
func batchPrompt(batch []extract.Record) (string, error) {
	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Analyze these evaluations and return JSON patterns:\n%s", data), nil
}

// synthesisPrompt combines run statistics with per-batch findings.
func synthesisPrompt(runStats *stats.RunStats, findings []string) string {
	var b strings.Builder
	b.WriteString("## Statistics\n")
	b.WriteString(fmt.Sprintf("- Total evaluations: %d\n", runStats.Total))
	if runStats.MeanScore != nil {
		b.WriteString(fmt.Sprintf("- Mean score: %v\n", *runStats.MeanScore))
	}
	b.WriteString(fmt.Sprintf("- Low scoring (<%v): %d (%v%%)\n",
		runStats.Threshold, runStats.LowScoringCount, runStats.LowScoringPct))
	if runStats.MinScore != nil && runStats.MaxScore != nil {
		b.WriteString(fmt.Sprintf("- Score range: %v - %v\n", *runStats.MinScore, *runStats.MaxScore))
	}
	if data, err := json.MarshalIndent(runStats.ByEvaluator, "", "  "); err == nil {
		b.WriteString("\n## Evaluator Breakdown\n")
		b.Write(data)
		b.WriteString("\n")
	}
	b.WriteString("\n## Batch Findings\n")
	for i, finding := range findings {
		b.WriteString(fmt.Sprintf("\nBatch %d:\n%s\n", i+1, finding))
	}
	return b.String()
}
