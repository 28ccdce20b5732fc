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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-agent-evalkit/extract"
)

func TestPartitionExactness(t *testing.T) {
	records := make([]extract.Record, 23)
	for i := range records {
		records[i] = extract.Record{Score: float64(i)}
	}
	batches, err := Partition(records, 10)
	require.NoError(t, err)
	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 10)
	assert.Len(t, batches[1], 10)
	assert.Len(t, batches[2], 3)

	// Concatenating all batches reproduces the original order exactly.
	var flat []extract.Record
	for _, b := range batches {
		flat = append(flat, b...)
	}
	assert.Equal(t, records, flat)
}

func TestPartitionSingleBatch(t *testing.T) {
	records := make([]extract.Record, 3)
	batches, err := Partition(records, 10)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Len(t, batches[0], 3)
}

func TestPartitionEmpty(t *testing.T) {
	batches, err := Partition(nil, 10)
	require.NoError(t, err)
	assert.Nil(t, batches)
}

func TestPartitionInvalidSize(t *testing.T) {
	_, err := Partition(nil, 0)
	assert.ErrorIs(t, err, ErrInvalidBatchSize)
	_, err = Partition(nil, -3)
	assert.ErrorIs(t, err, ErrInvalidBatchSize)
}
