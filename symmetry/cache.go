package symmetry

import (
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"dahu/internal/errors"
)

// DefaultCacheSize is the number of localities kept by NewCache(0).
const DefaultCacheSize = 4

// Cache memoizes Tables by locality. Concurrent requests for the same
// locality share one build.
type Cache struct {
	lru *lru.Cache[int, *Tables]
	sf  singleflight.Group
}

// NewCache returns a cache holding the tables of at most size localities.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[int, *Tables](size)
	if err != nil {
		return nil, errors.Wrap(err, "symmetry cache")
	}
	return &Cache{lru: c}, nil
}

// Get returns the tables of locality l, building them on first use.
func (c *Cache) Get(l int) (*Tables, error) {
	if t, ok := c.lru.Get(l); ok {
		return t, nil
	}
	v, err, _ := c.sf.Do(strconv.Itoa(l), func() (interface{}, error) {
		if t, ok := c.lru.Get(l); ok {
			return t, nil
		}
		t, err := New(l)
		if err != nil {
			return nil, err
		}
		c.lru.Add(l, t)
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Tables), nil
}

// Len returns the number of cached localities.
func (c *Cache) Len() int { return c.lru.Len() }
