// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package loaders

import (
	"context"
	"sync"
)

// FetchFunc loads many keys in one round trip. Keys missing from the returned
// map resolve as absent.
type FetchFunc[K comparable, V any] func(ctx context.Context, keys []K) (map[K]V, error)

// batch is one group of keys fetched together
type batch[K comparable, V any] struct {
	keys   []K
	once   sync.Once
	done   chan struct{}
	values map[K]V
	err    error
}

// Batcher collects keys requested during one request and resolves them with
// a single fetch per batch. Results are memoised for the Batcher's lifetime,
// so a Batcher must not outlive the request it was built for.
type Batcher[K comparable, V any] struct {
	fetch FetchFunc[K, V]

	mu      sync.Mutex
	pending *batch[K, V]
	owner   map[K]*batch[K, V]
}

// NewBatcher creates a Batcher backed by fetch
func NewBatcher[K comparable, V any](fetch FetchFunc[K, V]) *Batcher[K, V] {
	return &Batcher[K, V]{
		fetch: fetch,
		owner: make(map[K]*batch[K, V]),
	}
}

// Load registers key in the pending batch and returns a Thunk for its value.
// A key already requested reuses the batch that owns it.
func (b *Batcher[K, V]) Load(key K) *Thunk[K, V] {
	b.mu.Lock()
	defer b.mu.Unlock()

	if owned, ok := b.owner[key]; ok {
		return &Thunk[K, V]{batcher: b, batch: owned, key: key}
	}

	if b.pending == nil {
		b.pending = &batch[K, V]{done: make(chan struct{})}
	}
	b.pending.keys = append(b.pending.keys, key)
	b.owner[key] = b.pending
	return &Thunk[K, V]{batcher: b, batch: b.pending, key: key}
}

// LoadMany registers every key and returns their thunks in order
func (b *Batcher[K, V]) LoadMany(keys []K) []*Thunk[K, V] {
	thunks := make([]*Thunk[K, V], len(keys))
	for i, k := range keys {
		thunks[i] = b.Load(k)
	}
	return thunks
}

// Flush fetches the pending batch, if any, and waits for it
func (b *Batcher[K, V]) Flush(ctx context.Context) error {
	b.mu.Lock()
	pending := b.pending
	b.mu.Unlock()

	if pending == nil {
		return nil
	}
	return b.wait(ctx, pending)
}

// wait flushes bt exactly once and blocks until its fetch has returned
func (b *Batcher[K, V]) wait(ctx context.Context, bt *batch[K, V]) error {
	bt.once.Do(func() { go b.run(ctx, bt) })

	select {
	case <-bt.done:
		return bt.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run detaches bt so later Loads start a new batch, fetches its keys and
// releases every waiter at once by closing done
func (b *Batcher[K, V]) run(ctx context.Context, bt *batch[K, V]) {
	b.mu.Lock()
	if b.pending == bt {
		b.pending = nil
	}
	keys := bt.keys
	b.mu.Unlock()

	values, err := b.fetch(ctx, keys)
	if values == nil {
		values = map[K]V{}
	}
	bt.values, bt.err = values, err
	close(bt.done)
}

// Thunk is a deferred result of Batcher.Load
type Thunk[K comparable, V any] struct {
	batcher *Batcher[K, V]
	batch   *batch[K, V]
	key     K
}

// Get resolves the thunk, flushing its batch on first use. ok is false when
// the key was not found.
func (t *Thunk[K, V]) Get(ctx context.Context) (value V, ok bool, err error) {
	if err = t.batcher.wait(ctx, t.batch); err != nil {
		return value, false, err
	}
	value, ok = t.batch.values[t.key]
	return value, ok, nil
}
