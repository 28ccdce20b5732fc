//
// Tencent is pleased to support the open source community by making trpc-agent-evalkit available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evalkit is licensed under the Apache License Version 2.0.
//
//

package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFileSeedsSourceFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "run1.json", `{"results": [{"score": 0.8, "explanation": "x"}]}`)

	records, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, String("run1.json"), records[0].Metadata[KeySourceFile])
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := writeFile(t, dir, "bad.json", `{not json`)
	_, err = LoadFile(bad)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "bad.json")
}

func TestLoadDirLexicalOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.json", `{"score": 0.2, "explanation": "second"}`)
	writeFile(t, dir, "a.json", `{"score": 0.1, "explanation": "first"}`)
	writeFile(t, dir, "notes.txt", "ignored")

	records, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "first", records[0].Explanation)
	assert.Equal(t, "second", records[1].Explanation)
}

func TestLoadDirPartialFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.json", `{"score": 0.9, "explanation": "kept"}`)
	writeFile(t, dir, "broken.json", `]`)

	records, err := LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.json")
	require.Len(t, records, 1)
	assert.Equal(t, "kept", records[0].Explanation)
}

func TestLoadDirEmpty(t *testing.T) {
	records, err := LoadDir(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, records)
}
