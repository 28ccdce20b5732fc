//
// Tencent is pleased to support the open source community by making trpc-agent-evalkit available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evalkit is licensed under the Apache License Version 2.0.
//
//

package resultstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-agent-evalkit/dashboard"
)

func TestLocalManagerSaveGetList(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	mgr := NewManager(WithBaseDir(dir)).(*manager)

	_, err := mgr.Save(ctx, nil)
	assert.Error(t, err)

	_, err = mgr.Get(ctx, "")
	assert.Error(t, err)

	score := 0.8
	result := &RunResult{
		AgentID: "agent-1",
		Sessions: []*dashboard.SessionResult{{
			SessionID: "s1",
			Results: []*dashboard.Result{{
				EvaluatorID: "Builtin.Helpfulness",
				Value:       &score,
			}},
		}},
	}
	id, err := mgr.Save(ctx, result)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.FileExists(t, mgr.runPath(id))
	assert.False(t, result.CreatedAt.IsZero())

	retrieved, err := mgr.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "agent-1", retrieved.AgentID)
	require.Len(t, retrieved.Sessions, 1)
	assert.Equal(t, "s1", retrieved.Sessions[0].SessionID)

	ids, err := mgr.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{id}, ids)

	_, err = mgr.Get(ctx, "unknown")
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLocalManagerListMissingDir(t *testing.T) {
	mgr := NewManager(WithBaseDir(filepath.Join(t.TempDir(), "absent")))
	ids, err := mgr.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestLocalManagerKeepsProvidedID(t *testing.T) {
	dir := t.TempDir()
	mgr := NewManager(WithBaseDir(dir))
	id, err := mgr.Save(context.Background(), &RunResult{RunID: "run-42"})
	require.NoError(t, err)
	assert.Equal(t, "run-42", id)

	// No temp file is left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "run-42"+runFileSuffix, entries[0].Name())
}
