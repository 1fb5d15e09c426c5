// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSampleRequests(t *testing.T) {
	consumed, requests, err := run(sampleRequests, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, requests)
	assert.Equal(t, len(sampleRequests), consumed)
}

func TestRunChunkSizeInsensitive(t *testing.T) {
	for _, chunkSize := range []int{1, 4, 16, 256} {
		consumed, requests, err := run(sampleRequests, chunkSize)
		require.NoErrorf(t, err, "chunkSize=%d", chunkSize)
		assert.Equalf(t, 3, requests, "chunkSize=%d", chunkSize)
		assert.Equalf(t, len(sampleRequests), consumed, "chunkSize=%d", chunkSize)
	}
}

func TestRunZeroChunkSizeClampedToOne(t *testing.T) {
	consumed, requests, err := run(sampleRequests, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, requests)
	assert.Equal(t, len(sampleRequests), consumed)
}
