//
// Tencent is pleased to support the open source community by making trpc-agent-evalkit available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evalkit is licensed under the Apache License Version 2.0.
//
//

// Package service defines the interfaces of the managed agent runtime and
// the remote evaluation service. Both are external collaborators: this
// package carries their request/response shapes and thin transport glue,
// nothing of their behavior.
package service

import (
	"context"
	"encoding/json"
)

// InvokeRequest submits one prompt to the agent runtime under a session.
type InvokeRequest struct {
	AgentID   string          `json:"agent_id"`
	SessionID string          `json:"session_id"`
	Payload   json.RawMessage `json:"payload"`
}

// InvokeResponse carries the runtime's reply payload. When the runtime
// streamed its reply, Payload holds the final decoded event.
type InvokeResponse struct {
	Payload json.RawMessage `json:"payload"`
}

// Runtime invokes the managed agent runtime.
type Runtime interface {
	Invoke(ctx context.Context, req *InvokeRequest) (*InvokeResponse, error)
}

// RunRequest asks the evaluation service to score a session with the
// named evaluators.
type RunRequest struct {
	AgentID    string   `json:"agent_id"`
	SessionID  string   `json:"session_id"`
	Evaluators []string `json:"evaluators"`
}

// TokenUsage reports the judge's token consumption for one result.
type TokenUsage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
	TotalTokens  int `json:"totalTokens"`
}

// EvalResult is one scored judgment as returned by the evaluation service.
type EvalResult struct {
	EvaluatorName string `json:"evaluator_name"`
	EvaluatorID   string `json:"evaluator_id"`
	// Value is nil when the evaluator declined to score the session.
	Value       *float64    `json:"value"`
	Label       string      `json:"label,omitempty"`
	Explanation string      `json:"explanation,omitempty"`
	TokenUsage  *TokenUsage `json:"token_usage,omitempty"`
}

// RunResponse carries the results of one evaluation run.
type RunResponse struct {
	Results []*EvalResult `json:"results"`
}

// Evaluation scores recorded sessions with named evaluators.
type Evaluation interface {
	Run(ctx context.Context, req *RunRequest) (*RunResponse, error)
}
