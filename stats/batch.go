//
// Tencent is pleased to support the open source community by making trpc-agent-evalkit available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evalkit is licensed under the Apache License Version 2.0.
//
//

package stats

import (
	"errors"
	"fmt"

	"trpc.group/trpc-go/trpc-agent-evalkit/extract"
)

// ErrInvalidBatchSize is returned when a batch size is not positive.
var ErrInvalidBatchSize = errors.New("batch size must be positive")

// Partition splits records into contiguous batches of at most size
// elements, preserving the original order with no overlap and no gaps.
// The final batch may be shorter. Empty input yields no batches.
func Partition(records []extract.Record, size int) ([][]extract.Record, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, size)
	}
	var batches [][]extract.Record
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		batches = append(batches, records[start:end])
	}
	return batches, nil
}
