// Package keyedcache provides the insert-once store every media cache builds on.
//
// A Cache never overwrites: the first value added under a key wins until the
// cache is reset. Values come back in insertion order. The type carries no
// locking; callers confine mutation to a single goroutine.
package keyedcache

import "iter"

// Cache maps string keys to values of type T.
type Cache[T any] struct {
	keys    []string
	entries map[string]T
}

// New returns an empty cache.
func New[T any]() *Cache[T] {
	return &Cache[T]{entries: make(map[string]T)}
}

// Add stores value under key. It returns false and leaves the existing entry
// untouched when key is already occupied.
func (c *Cache[T]) Add(key string, value T) bool {
	if c.entries == nil {
		c.entries = make(map[string]T)
	}
	if _, exists := c.entries[key]; exists {
		return false
	}
	c.entries[key] = value
	c.keys = append(c.keys, key)
	return true
}

// Get returns the value stored under key.
func (c *Cache[T]) Get(key string) (T, bool) {
	value, ok := c.entries[key]
	return value, ok
}

// Size returns the number of entries.
func (c *Cache[T]) Size() int {
	return len(c.keys)
}

// Keys returns the keys in insertion order.
func (c *Cache[T]) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// All returns every value in insertion order.
func (c *Cache[T]) All() []T {
	out := make([]T, 0, len(c.keys))
	for _, key := range c.keys {
		out = append(out, c.entries[key])
	}
	return out
}

// Values iterates over the entries present when iteration starts. Entries
// added or a reset during iteration do not affect the running sequence.
func (c *Cache[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range c.All() {
			if !yield(value) {
				return
			}
		}
	}
}

// Reset removes all entries.
func (c *Cache[T]) Reset() {
	clear(c.entries)
	c.keys = c.keys[:0]
}
