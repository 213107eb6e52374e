package layout

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	defaultCacheSize = 64
	defaultCacheTTL  = 30 * time.Minute
)

// Cache memoizes compiled layouts by template. Compile errors are not cached.
type Cache struct {
	lru *expirable.LRU[string, *Layout]
}

// NewCache creates a cache holding up to size templates for ttl each.
// Zero values select defaults.
func NewCache(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = defaultCacheSize
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{lru: expirable.NewLRU[string, *Layout](size, nil, ttl)}
}

// Get returns the compiled layout for template, compiling it on a miss.
func (c *Cache) Get(template string) (*Layout, error) {
	if l, ok := c.lru.Get(template); ok {
		return l, nil
	}
	l, err := Compile(template)
	if err != nil {
		return nil, err
	}
	c.lru.Add(template, l)
	return l, nil
}

// Len returns the number of cached layouts.
func (c *Cache) Len() int { return c.lru.Len() }
