package cache

import "time"

// LayeredCache reads through a fast front layer to a persistent back layer
type LayeredCache struct {
	front Cache
	back  Cache
}

// NewLayeredCache creates a layered cache, typically memory in front of disk or SQLite
func NewLayeredCache(front, back Cache) *LayeredCache {
	return &LayeredCache{front: front, back: back}
}

// Get checks the front layer first and promotes back-layer hits
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, found := c.front.Get(key); found {
		return val, true
	}

	if val, found := c.back.Get(key); found {
		_ = c.front.Set(key, val, 0)
		return val, true
	}

	return nil, false
}

// Set writes both layers
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := c.front.Set(key, value, ttl); err != nil {
		return err
	}
	return c.back.Set(key, value, ttl)
}

func (c *LayeredCache) Delete(key string) error {
	_ = c.front.Delete(key)
	return c.back.Delete(key)
}

func (c *LayeredCache) Clear() error {
	_ = c.front.Clear()
	return c.back.Clear()
}
