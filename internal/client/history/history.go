// Package history implements the scan history cache: an append-only log of
// successful identifications, listed newest first.
//
// The cache owns only the shape and ordering contract. Storage is delegated
// to a Store (the sqlite scans repository in the CLI, MemoryStore in tests).
package history

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/dmitrijs2005/herbscan/internal/client/models"
	"github.com/google/uuid"
)

// DefaultPageSize matches the page size of the backend history endpoint.
const DefaultPageSize = 20

// Store is the persistence medium behind the cache.
//
// Page must return entries ordered by CreatedAt descending, ties broken by
// insertion order with the latest insert first, starting at offset.
type Store interface {
	Insert(ctx context.Context, s models.Scan) error
	Page(ctx context.Context, offset, limit int) ([]models.Scan, error)
	Clear(ctx context.Context) error
}

// Cache is the scan history cache.
type Cache struct {
	store    Store
	now      func() time.Time
	pageSize int
}

// Option customizes a Cache.
type Option func(*Cache)

// WithClock overrides the clock used to stamp new entries.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithPageSize sets how many entries List fetches per store round trip.
func WithPageSize(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// NewCache builds a cache over store.
func NewCache(store Store, opts ...Option) *Cache {
	c := &Cache{store: store, now: time.Now, pageSize: DefaultPageSize}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Append records s. A missing ID or timestamp is assigned here; the stored
// entry is returned.
func (c *Cache) Append(ctx context.Context, s models.Scan) (models.Scan, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = c.now()
	}
	s.CreatedAt = s.CreatedAt.UTC()

	if err := c.store.Insert(ctx, s); err != nil {
		return models.Scan{}, fmt.Errorf("error appending scan: %w", err)
	}
	return s, nil
}

// List returns a lazy, finite sequence of entries, newest first. Every range
// over the sequence starts again from the newest entry. A store error is
// yielded once and ends the sequence.
func (c *Cache) List(ctx context.Context) iter.Seq2[models.Scan, error] {
	return func(yield func(models.Scan, error) bool) {
		offset := 0
		for {
			page, err := c.store.Page(ctx, offset, c.pageSize)
			if err != nil {
				yield(models.Scan{}, fmt.Errorf("error listing scans: %w", err))
				return
			}
			for _, s := range page {
				if !yield(s, nil) {
					return
				}
			}
			if len(page) < c.pageSize {
				return
			}
			offset += len(page)
		}
	}
}

// Recent collects at most n entries from List. n <= 0 collects everything.
func (c *Cache) Recent(ctx context.Context, n int) ([]models.Scan, error) {
	var out []models.Scan
	for s, err := range c.List(ctx) {
		if err != nil {
			return nil, err
		}
		out = append(out, s)
		if n > 0 && len(out) == n {
			break
		}
	}
	return out, nil
}

// Clear removes every entry.
func (c *Cache) Clear(ctx context.Context) error {
	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("error clearing scans: %w", err)
	}
	return nil
}
