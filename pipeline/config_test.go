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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.AgentID = "agent-1"
	cfg.Evaluators = []string{"Builtin.Helpfulness"}
	cfg.Prompts = []PromptSpec{{Text: "What is the refund policy?"}}
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 0.7, cfg.ScoreThreshold)
	assert.Equal(t, 10, cfg.BatchSize)
	assert.Equal(t, 60, cfg.SettleSeconds)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 30, cfg.RetryDelaySeconds)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, "dashboards", cfg.OutputDir)
	assert.Equal(t, "run_results", cfg.ResultDir)
	assert.False(t, cfg.Analyze)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
agent_id: support-agent
evaluators:
  - Builtin.Helpfulness
  - Builtin.Correctness
prompts:
  - text: "How do I reset my password?"
  - text: "What is the refund policy?"
    session_id: pinned-session
    metadata:
      category: billing
score_threshold: 0.5
batch_size: 5
settle_seconds: 0
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "support-agent", cfg.AgentID)
	assert.Equal(t, []string{"Builtin.Helpfulness", "Builtin.Correctness"}, cfg.Evaluators)
	require.Len(t, cfg.Prompts, 2)
	assert.Equal(t, "pinned-session", cfg.Prompts[1].SessionID)
	assert.Equal(t, map[string]any{"category": "billing"}, cfg.Prompts[1].Metadata)
	assert.Equal(t, 0.5, cfg.ScoreThreshold)
	assert.Equal(t, 5, cfg.BatchSize)
	assert.Equal(t, 0, cfg.SettleSeconds)
	// Untouched fields keep their defaults.
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 4, cfg.Concurrency)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("agent_id: [unclosed"), 0o644))
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing agent id", func(c *Config) { c.AgentID = "" }},
		{"no evaluators", func(c *Config) { c.Evaluators = nil }},
		{"no prompts", func(c *Config) { c.Prompts = nil }},
		{"empty prompt text", func(c *Config) { c.Prompts = []PromptSpec{{}} }},
		{"threshold too high", func(c *Config) { c.ScoreThreshold = 1.5 }},
		{"threshold negative", func(c *Config) { c.ScoreThreshold = -0.1 }},
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }},
		{"negative settle", func(c *Config) { c.SettleSeconds = -1 }},
		{"zero retries", func(c *Config) { c.MaxRetries = 0 }},
		{"negative retry delay", func(c *Config) { c.RetryDelaySeconds = -1 }},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
	require.NoError(t, validConfig().Validate())
}
