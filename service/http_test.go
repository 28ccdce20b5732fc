//
// Tencent is pleased to support the open source community by making trpc-agent-evalkit available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evalkit is licensed under the Apache License Version 2.0.
//
//

package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientInvoke(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/invocations", r.URL.Path)
		var req InvokeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "agent-1", req.AgentID)
		assert.Equal(t, "session-1", req.SessionID)
		w.Write([]byte(`{"answer": "4"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	resp, err := c.Invoke(context.Background(), &InvokeRequest{
		AgentID:   "agent-1",
		SessionID: "session-1",
		Payload:   json.RawMessage(`{"prompt": "How much is 2+2?"}`),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"answer": "4"}`, string(resp.Payload))
}

func TestClientInvokeStreamed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte("data: {\"response\": {\"answer\": \"Paris\"}}\n"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	resp, err := c.Invoke(context.Background(), &InvokeRequest{SessionID: "s"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"answer": "Paris"}`, string(resp.Payload))
}

func TestClientRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/evaluations", r.URL.Path)
		var req RunRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"Builtin.Correctness"}, req.Evaluators)
		json.NewEncoder(w).Encode(&RunResponse{Results: []*EvalResult{{
			EvaluatorName: "Correctness",
			EvaluatorID:   "Builtin.Correctness",
			Value:         floatPtr(0.9),
			Label:         "Correct",
			TokenUsage:    &TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15},
		}}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	resp, err := c.Run(context.Background(), &RunRequest{
		AgentID:    "agent-1",
		SessionID:  "session-1",
		Evaluators: []string{"Builtin.Correctness"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Builtin.Correctness", resp.Results[0].EvaluatorID)
	require.NotNil(t, resp.Results[0].Value)
	assert.Equal(t, 0.9, *resp.Results[0].Value)
}

func TestClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "No spans found for session", http.StatusConflict)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Run(context.Background(), &RunRequest{SessionID: "s"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No spans found")
	assert.Contains(t, err.Error(), "409")
}

func floatPtr(f float64) *float64 { return &f }
