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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/go-multierror"

	"trpc.group/trpc-go/trpc-agent-evalkit/log"
)

// LoadFile parses one JSON document and extracts its records. The metadata
// context is seeded with the file's base name under KeySourceFile.
func LoadFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	seed := Metadata{KeySourceFile: String(filepath.Base(path))}
	return Extract(doc, seed), nil
}

// LoadDir extracts records from every *.json file in dir, in lexical file
// order. Files that cannot be read or parsed are skipped; their failures
// are combined into the returned error while records from the remaining
// files are still returned. Callers decide whether a partial load is
// acceptable.
func LoadDir(dir string) ([]Record, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var records []Record
	var merr *multierror.Error
	for _, path := range paths {
		recs, err := LoadFile(path)
		if err != nil {
			merr = multierror.Append(merr, err)
			continue
		}
		log.Debugf("loaded %d records from %s", len(recs), filepath.Base(path))
		records = append(records, recs...)
	}
	return records, merr.ErrorOrNil()
}
