package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	intdb "busticket/internal/db"
	"busticket/internal/domain"
	"busticket/internal/utils"
)

// Record is anything stored in a document with a stable id.
type Record interface {
	RecordID() string
}

// Collection is a typed view over one document. Every mutation runs
// read-modify-write under the collection's lock, so concurrent writers in this
// process never lose each other's updates.
type Collection[T Record] struct {
	store intdb.Store
	name  string
	mu    sync.RWMutex
}

func NewCollection[T Record](s intdb.Store, name string) *Collection[T] {
	return &Collection[T]{store: s, name: name}
}

func (c *Collection[T]) Name() string { return c.name }

// load decodes the document. Undecodable records are left out of the result
// and counted.
func (c *Collection[T]) load(ctx context.Context) ([]T, int, error) {
	raw, err := c.store.Read(ctx, c.name)
	if err != nil {
		return nil, 0, err
	}
	out := make([]T, 0, len(raw))
	skipped := 0
	for i, r := range raw {
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			utils.LogWarn("", "store", "decode", fmt.Sprintf("%s[%d] skipped: %v", c.name, i, err))
			skipped++
			continue
		}
		out = append(out, v)
	}
	return out, skipped, nil
}

func (c *Collection[T]) save(ctx context.Context, items []T) error {
	raw := make([]json.RawMessage, 0, len(items))
	for _, it := range items {
		b, err := json.Marshal(it)
		if err != nil {
			return domain.DocumentIOError{Document: c.name, Op: "encode", Err: err}
		}
		raw = append(raw, b)
	}
	return c.store.Write(ctx, c.name, raw)
}

// All returns every record in document order.
func (c *Collection[T]) All(ctx context.Context) ([]T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	items, _, err := c.load(ctx)
	return items, err
}

// Find returns the first record with the given id.
func (c *Collection[T]) Find(ctx context.Context, id string) (T, bool, error) {
	var zero T
	items, err := c.All(ctx)
	if err != nil {
		return zero, false, err
	}
	for _, it := range items {
		if it.RecordID() == id {
			return it, true, nil
		}
	}
	return zero, false, nil
}

// Mutate loads the document, hands it to fn and writes back whatever fn returns.
// Nothing is written when fn fails or when the document holds records that do
// not decode, since writing back would drop them.
func (c *Collection[T]) Mutate(ctx context.Context, fn func(items []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, skipped, err := c.load(ctx)
	if err != nil {
		return err
	}
	if skipped > 0 {
		return domain.DocumentIOError{Document: c.name, Op: "write", Err: fmt.Errorf("%d undecodable records would be lost", skipped)}
	}
	next, err := fn(items)
	if err != nil {
		return err
	}
	return c.save(ctx, next)
}

func indexOf[T Record](items []T, id string) int {
	for i, it := range items {
		if it.RecordID() == id {
			return i
		}
	}
	return -1
}
