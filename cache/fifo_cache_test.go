// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestFIFOCache(t *testing.T) {
	tests := []struct {
		name          string
		key           string
		expectedValue int
		expectedCount int
	}{
		{
			name:          "fresh cache, fetch",
			key:           "test1",
			expectedValue: 42,
			expectedCount: 1,
		},
		{
			name:          "use cache, no fetch",
			key:           "test1",
			expectedValue: 42,
			expectedCount: 1,
		},
		{
			name:          "different key, fetch",
			key:           "test2",
			expectedValue: 42,
			expectedCount: 2,
		},
		{
			name:          "third key evicts first",
			key:           "test3",
			expectedValue: 42,
			expectedCount: 3,
		},
		{
			name:          "first item evicted, fetch",
			key:           "test1",
			expectedValue: 42,
			expectedCount: 4,
		},
	}

	cache := NewFIFOCache[string, int](2)
	fetchCount := 0
	fetchFunc := func(string) (int, error) {
		fetchCount++
		return 42, nil
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			val, err := cache.Get(tt.key, fetchFunc)
			require.NoError(err)
			require.Equal(tt.expectedValue, val)
			require.Equal(tt.expectedCount, fetchCount)
			require.LessOrEqual(cache.Len(), 2)
		})
	}
}

func TestFIFOCacheErrorNotCached(t *testing.T) {
	require := require.New(t)

	errFetch := errors.New("fetch failed")
	cache := NewFIFOCache[string, int](4)

	_, err := cache.Get("k", func(string) (int, error) { return 0, errFetch })
	require.ErrorIs(err, errFetch)
	require.Zero(cache.Len())

	val, err := cache.Get("k", func(string) (int, error) { return 7, nil })
	require.NoError(err)
	require.Equal(7, val)

	val, ok := cache.Peek("k")
	require.True(ok)
	require.Equal(7, val)
}

func TestFIFOCacheSingleFlight(t *testing.T) {
	require := require.New(t)

	cache := NewFIFOCache[string, int](4)
	var (
		fetches atomic.Int32
		release = make(chan struct{})
		wg      sync.WaitGroup
	)
	fetch := func(string) (int, error) {
		fetches.Add(1)
		<-release
		return 42, nil
	}

	const callers = 8
	results := make([]int, callers)
	started := make(chan struct{}, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			started <- struct{}{}
			val, err := cache.Get("shared", fetch)
			if err == nil {
				results[i] = val
			}
		}(i)
	}
	for i := 0; i < callers; i++ {
		<-started
	}
	close(release)
	wg.Wait()

	for _, val := range results {
		require.Equal(42, val)
	}
	require.LessOrEqual(fetches.Load(), int32(callers))
	require.Equal(1, cache.Len())
}
