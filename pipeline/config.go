//
// Tencent is pleased to support the open source community by making trpc-agent-evalkit available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evalkit is licensed under the Apache License Version 2.0.
//
//

package pipeline

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default knobs applied by DefaultConfig. Every value is explicit in the
// resolved Config; nothing downstream reads package state.
const (
	defaultScoreThreshold    = 0.7
	defaultBatchSize         = 10
	defaultSettleSeconds     = 60
	defaultMaxRetries        = 3
	defaultRetryDelaySeconds = 30
	defaultConcurrency       = 4
	defaultOutputDir         = "dashboards"
	defaultResultDir         = "run_results"
)

// PromptSpec is one prompt to drive through the agent runtime.
type PromptSpec struct {
	// Text is the prompt sent to the agent.
	Text string `yaml:"text"`
	// SessionID pins the session id. A fresh uuid is assigned when empty.
	SessionID string `yaml:"session_id,omitempty"`
	// Metadata is attached to the session's result bundle as-is.
	Metadata map[string]any `yaml:"metadata,omitempty"`
}

// Config drives one end-to-end evaluation run.
type Config struct {
	// AgentID is the agent runtime target.
	AgentID string `yaml:"agent_id"`
	// Evaluators are the evaluator names submitted with each session.
	Evaluators []string `yaml:"evaluators"`
	// Prompts are driven through the runtime in order.
	Prompts []PromptSpec `yaml:"prompts"`
	// ScoreThreshold marks scores strictly below it as low. In [0, 1].
	ScoreThreshold float64 `yaml:"score_threshold"`
	// BatchSize bounds analysis batches.
	BatchSize int `yaml:"batch_size"`
	// SettleSeconds is the wait between invoking the prompts and scoring
	// them, giving the runtime time to flush traces.
	SettleSeconds int `yaml:"settle_seconds"`
	// MaxRetries bounds evaluation attempts per session.
	MaxRetries int `yaml:"max_retries"`
	// RetryDelaySeconds is the wait between evaluation attempts.
	RetryDelaySeconds int `yaml:"retry_delay_seconds"`
	// Concurrency bounds parallel session evaluations.
	Concurrency int `yaml:"concurrency"`
	// OutputDir receives the dashboard and analysis report.
	OutputDir string `yaml:"output_dir"`
	// ResultDir receives the stored run bundles.
	ResultDir string `yaml:"result_dir"`
	// Analyze enables the LLM analysis step.
	Analyze bool `yaml:"analyze"`
	// AnalysisModel overrides the analysis model when Analyze is set.
	AnalysisModel string `yaml:"analysis_model,omitempty"`
}

// DefaultConfig returns a config with all knobs at their defaults.
func DefaultConfig() *Config {
	return &Config{
		ScoreThreshold:    defaultScoreThreshold,
		BatchSize:         defaultBatchSize,
		SettleSeconds:     defaultSettleSeconds,
		MaxRetries:        defaultMaxRetries,
		RetryDelaySeconds: defaultRetryDelaySeconds,
		Concurrency:       defaultConcurrency,
		OutputDir:         defaultOutputDir,
		ResultDir:         defaultResultDir,
	}
}

// LoadConfig reads a YAML config file over the defaults and validates it.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if c.AgentID == "" {
		return errors.New("agent_id is required")
	}
	if len(c.Evaluators) == 0 {
		return errors.New("at least one evaluator is required")
	}
	if len(c.Prompts) == 0 {
		return errors.New("at least one prompt is required")
	}
	for i, p := range c.Prompts {
		if p.Text == "" {
			return fmt.Errorf("prompt %d has no text", i)
		}
	}
	if c.ScoreThreshold < 0 || c.ScoreThreshold > 1 {
		return fmt.Errorf("score_threshold %v outside [0, 1]", c.ScoreThreshold)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size %d must be positive", c.BatchSize)
	}
	if c.SettleSeconds < 0 {
		return fmt.Errorf("settle_seconds %d must not be negative", c.SettleSeconds)
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max_retries %d must be at least 1", c.MaxRetries)
	}
	if c.RetryDelaySeconds < 0 {
		return fmt.Errorf("retry_delay_seconds %d must not be negative", c.RetryDelaySeconds)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency %d must be at least 1", c.Concurrency)
	}
	return nil
}
