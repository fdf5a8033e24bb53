// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package cache provides a bounded FIFO cache that collapses concurrent
// fetches of the same key.
package cache

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// FetchFunc produces the value of a key on a cache miss.
type FetchFunc[K comparable, V any] func(key K) (V, error)

// FIFOCache is a thread-safe cache that evicts the oldest entry once it holds
// capacity entries. Failed fetches are not cached.
type FIFOCache[K comparable, V any] struct {
	lock     sync.RWMutex
	cache    map[K]V
	queue    []K
	capacity int

	group singleflight.Group
}

// NewFIFOCache returns an empty cache. A capacity below one is raised to one.
func NewFIFOCache[K comparable, V any](capacity int) *FIFOCache[K, V] {
	capacity = max(capacity, 1)
	return &FIFOCache[K, V]{
		cache:    make(map[K]V, capacity),
		queue:    make([]K, 0, capacity),
		capacity: capacity,
	}
}

// Get returns the cached value of key or fetches it. Concurrent calls for the
// same key share a single fetch.
func (c *FIFOCache[K, V]) Get(key K, fetch FetchFunc[K, V]) (V, error) {
	if val, ok := c.Peek(key); ok {
		return val, nil
	}

	v, err, _ := c.group.Do(keyToString(key), func() (interface{}, error) {
		if val, ok := c.Peek(key); ok {
			return val, nil
		}
		val, err := fetch(key)
		if err != nil {
			return val, err
		}
		c.lock.Lock()
		c.set(key, val)
		c.lock.Unlock()
		return val, nil
	})
	if err != nil {
		return *new(V), err
	}
	return v.(V), nil
}

// Peek returns the cached value of key without fetching.
func (c *FIFOCache[K, V]) Peek(key K) (V, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	val, ok := c.cache[key]
	return val, ok
}

// set adds a key-value pair to the cache (caller must hold write lock)
func (c *FIFOCache[K, V]) set(key K, val V) {
	if _, exists := c.cache[key]; exists {
		c.cache[key] = val
		return
	}

	if len(c.queue) >= c.capacity {
		oldest := c.queue[0]
		c.queue = c.queue[1:]
		delete(c.cache, oldest)
	}

	c.cache[key] = val
	c.queue = append(c.queue, key)
}

// Len returns the current number of items in the cache
func (c *FIFOCache[K, V]) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return len(c.cache)
}

// keyToString is defined to allow for both fmt.Stringer and primitive string types.
func keyToString[K comparable](key K) string {
	if s, ok := any(key).(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", key)
}
