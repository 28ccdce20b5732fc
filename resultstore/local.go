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
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// runFileSuffix is the suffix of stored run files.
const runFileSuffix = ".evalrun.json"

// manager implements Manager using local file storage.
type manager struct {
	baseDir string
	now     func() time.Time
	mu      sync.Mutex
}

// NewManager creates a local file result store.
// Use functional options to override the default directory.
func NewManager(opt ...Option) Manager {
	opts := NewOptions(opt...)
	return &manager{
		baseDir: opts.BaseDir,
		now:     time.Now,
	}
}

// Save stores a run to a local file, assigning a run id when absent.
// The file is written to a temporary path and renamed so readers never
// observe a partial run.
func (m *manager) Save(ctx context.Context, result *RunResult) (string, error) {
	_ = ctx
	if result == nil {
		return "", errors.New("result is nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if result.RunID == "" {
		result.RunID = uuid.NewString()
	}
	if result.CreatedAt.IsZero() {
		result.CreatedAt = m.now()
	}
	if err := os.MkdirAll(m.baseDir, 0o755); err != nil {
		return "", err
	}
	path := m.runPath(result.RunID)
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return "", err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", err
	}
	return result.RunID, nil
}

// Get retrieves a run by id from local file.
func (m *manager) Get(ctx context.Context, runID string) (*RunResult, error) {
	_ = ctx
	if runID == "" {
		return nil, errors.New("run id is empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(runID)
}

// List returns the ids of all stored runs, in lexical file order.
func (m *manager) List(ctx context.Context) ([]string, error) {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	entries, err := os.ReadDir(m.baseDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), runFileSuffix) {
			ids = append(ids, strings.TrimSuffix(entry.Name(), runFileSuffix))
		}
	}
	return ids, nil
}

func (m *manager) runPath(runID string) string {
	return filepath.Join(m.baseDir, fmt.Sprintf("%s%s", runID, runFileSuffix))
}

func (m *manager) load(runID string) (*RunResult, error) {
	f, err := os.Open(m.runPath(runID))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var res RunResult
	if err := json.NewDecoder(f).Decode(&res); err != nil {
		return nil, err
	}
	return &res, nil
}
