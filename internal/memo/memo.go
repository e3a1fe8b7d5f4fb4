package memo

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Table memoizes the result of a computation per key. The zero value is ready
// to use.
type Table[V any] struct {
	group   singleflight.Group
	mu      sync.RWMutex
	entries map[string]entry[V]
}

type entry[V any] struct {
	value V
	err   error
}

// Get returns the stored result for key, computing it with fn if no result
// has been stored yet. Callers that arrive while fn is running wait for it and
// receive the same result.
func (t *Table[V]) Get(key string, fn func() (V, error)) (V, error) {
	if e, ok := t.lookup(key); ok {
		return e.value, e.err
	}

	res, _, _ := t.group.Do(key, func() (any, error) {
		// A flight for key may have completed between lookup and Do.
		if e, ok := t.lookup(key); ok {
			return e, nil
		}
		v, err := fn()
		e := entry[V]{value: v, err: err}
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			t.store(key, e)
		}
		return e, nil
	})

	e := res.(entry[V])
	return e.value, e.err
}

// Len returns the number of stored entries.
func (t *Table[V]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

func (t *Table[V]) lookup(key string) (entry[V], bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[key]
	return e, ok
}

func (t *Table[V]) store(key string, e entry[V]) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.entries == nil {
		t.entries = make(map[string]entry[V])
	}
	t.entries[key] = e
}
