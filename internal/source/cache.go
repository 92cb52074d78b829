package source

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"
)

// OpenFunc opens the document behind a locator.
type OpenFunc func(ctx context.Context, locator string) (Source, error)

// Cache memoizes opened documents by locator. Concurrent requests for the
// same locator share one open; failures are not cached.
type Cache struct {
	open  OpenFunc
	group singleflight.Group

	mu   sync.RWMutex
	docs map[string]Source
}

func NewCache(open OpenFunc) *Cache {
	return &Cache{open: open, docs: make(map[string]Source)}
}

// Get returns the cached document or opens it. Errors are *AssetError.
// The shared open outlives any one caller; each caller stops waiting when
// its own ctx is done.
func (c *Cache) Get(ctx context.Context, locator string) (Source, error) {
	if src, ok := c.lookup(locator); ok {
		return src, nil
	}

	ch := c.group.DoChan(locator, func() (interface{}, error) {
		if src, ok := c.lookup(locator); ok {
			return src, nil
		}
		src, err := c.open(context.WithoutCancel(ctx), locator)
		if err != nil {
			var ae *AssetError
			if errors.As(err, &ae) {
				return nil, err
			}
			return nil, &AssetError{Locator: locator, Err: err}
		}
		c.mu.Lock()
		c.docs[locator] = src
		c.mu.Unlock()
		return src, nil
	})
	select {
	case <-ctx.Done():
		return nil, &AssetError{Locator: locator, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Source), nil
	}
}

func (c *Cache) lookup(locator string) (Source, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	src, ok := c.docs[locator]
	return src, ok
}

// Close closes every cached document and empties the cache.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var errs []error
	for locator, src := range c.docs {
		if err := src.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(c.docs, locator)
	}
	return errors.Join(errs...)
}
