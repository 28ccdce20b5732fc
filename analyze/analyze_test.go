//
// Tencent is pleased to support the open source community by making trpc-agent-evalkit available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evalkit is licensed under the Apache License Version 2.0.
//
//

package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	openaiopt "github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-agent-evalkit/extract"
	"trpc.group/trpc-go/trpc-agent-evalkit/stats"
)

func newTestServer(t *testing.T, reply func(call int) string) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req["messages"])
		calls++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"choices":[{"message":{"role":"assistant","content":%q}}]}`, reply(calls))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func testAnalyzer(srv *httptest.Server) *Analyzer {
	return New(
		WithModel("test-model"),
		WithClientOptions(
			openaiopt.WithBaseURL(srv.URL),
			openaiopt.WithAPIKey("test-key"),
		),
	)
}

func lowRecord(score float64, explanation string) extract.Record {
	return extract.Record{
		Score:       score,
		Explanation: explanation,
		Metadata: extract.Metadata{
			extract.KeyEvaluatorName: extract.String("Builtin.Helpfulness"),
		},
	}
}

func TestAnalyzeBatch(t *testing.T) {
	srv, calls := newTestServer(t, func(int) string {
		return `{"patterns":[]}`
	})
	a := testAnalyzer(srv)

	finding, err := a.AnalyzeBatch(context.Background(), []extract.Record{
		lowRecord(0.2, "missed the point"),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"patterns":[]}`, finding)
	assert.Equal(t, 1, *calls)
}

func TestAnalyzeBatchesThenSynthesizes(t *testing.T) {
	srv, calls := newTestServer(t, func(call int) string {
		return fmt.Sprintf("reply %d", call)
	})
	a := testAnalyzer(srv)

	records := []extract.Record{
		lowRecord(0.1, "wrong tool"),
		lowRecord(0.2, "wrong tool again"),
		lowRecord(0.3, "hallucinated"),
		lowRecord(0.9, "fine"),
	}
	runStats, err := stats.Compute(records, 0.5)
	require.NoError(t, err)

	report, err := a.Analyze(context.Background(), records, runStats, 2)
	require.NoError(t, err)

	// Two batches of low-scoring records plus one synthesis call.
	assert.Equal(t, 3, *calls)
	assert.Equal(t, 3, report.LowScoring)
	assert.Equal(t, []string{"reply 1", "reply 2"}, report.Findings)
	assert.Equal(t, "reply 3", report.Summary)
	assert.Same(t, runStats, report.Stats)
}

func TestAnalyzeNoLowScoring(t *testing.T) {
	srv, calls := newTestServer(t, func(int) string { return "unused" })
	a := testAnalyzer(srv)

	records := []extract.Record{lowRecord(0.9, "fine")}
	runStats, err := stats.Compute(records, 0.5)
	require.NoError(t, err)

	_, err = a.Analyze(context.Background(), records, runStats, 10)
	require.ErrorIs(t, err, ErrNoLowScoring)
	assert.Equal(t, 0, *calls)
}

func TestAnalyzeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()
	a := New(WithClientOptions(
		openaiopt.WithBaseURL(srv.URL),
		openaiopt.WithAPIKey("test-key"),
		openaiopt.WithMaxRetries(0),
	))

	_, err := a.AnalyzeBatch(context.Background(), []extract.Record{lowRecord(0.1, "x")})
	require.Error(t, err)
}

func TestBatchPromptIncludesRecords(t *testing.T) {
	prompt, err := batchPrompt([]extract.Record{lowRecord(0.25, "ignored the context")})
	require.NoError(t, err)
	assert.Contains(t, prompt, "ignored the context")
	assert.Contains(t, prompt, "0.25")
}

func TestSynthesisPromptIncludesStatsAndFindings(t *testing.T) {
	records := []extract.Record{lowRecord(0.2, "a"), lowRecord(0.8, "b")}
	runStats, err := stats.Compute(records, 0.5)
	require.NoError(t, err)

	prompt := synthesisPrompt(runStats, []string{"first finding", "second finding"})
	assert.Contains(t, prompt, "Total evaluations: 2")
	assert.Contains(t, prompt, "Builtin.Helpfulness")
	assert.Contains(t, prompt, "Batch 1:\nfirst finding")
	assert.Contains(t, prompt, "Batch 2:\nsecond finding")
}
