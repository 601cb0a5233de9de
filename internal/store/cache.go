package store

import (
	"context"
	"errors"

	lru "github.com/hashicorp/golang-lru"
)

// Cached is a read-through, write-through LRU in front of another KV.
type Cached struct {
	next  KV
	cache *lru.Cache
}

// NewCached wraps next with an LRU of size entries.
func NewCached(next KV, size int) (*Cached, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Cached{next: next, cache: cache}, nil
}

func (c *Cached) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := c.cache.Get(key); ok {
		return append([]byte(nil), v.([]byte)...), nil
	}
	v, err := c.next.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, append([]byte(nil), v...))
	return v, nil
}

func (c *Cached) Put(ctx context.Context, key string, value []byte) error {
	if err := c.next.Put(ctx, key, value); err != nil {
		c.cache.Remove(key)
		return err
	}
	c.cache.Add(key, append([]byte(nil), value...))
	return nil
}

func (c *Cached) Delete(ctx context.Context, key string) error {
	c.cache.Remove(key)
	if err := c.next.Delete(ctx, key); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

func (c *Cached) Close() error {
	c.cache.Purge()
	return c.next.Close()
}
