// Package cache keeps a recency-ordered set of node locations.
//
// The cache holds locations only, never node content: whoever owns it has to
// resolve a location through its store to see the node. Lookups never promote,
// the owner decides which accesses count as a use and calls Add for them.
package cache

import (
	"container/list"
	"fmt"
)

// LRU is not safe for concurrent use.
type LRU struct {
	order    *list.List // front = most recently used
	index    map[int64]*list.Element
	capacity int
}

func New(capacity int) (*LRU, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("cache capacity must be positive, got %d", capacity)
	}
	return &LRU{
		order:    list.New(),
		index:    make(map[int64]*list.Element, capacity),
		capacity: capacity,
	}, nil
}

// Get reports whether loc is cached. It does not change the order.
func (c *LRU) Get(loc int64) (int64, bool) {
	if _, ok := c.index[loc]; !ok {
		return 0, false
	}
	return loc, true
}

// Add moves loc to the most recently used position, inserting it if absent.
// If that pushes the cache over capacity the least recently used location is
// dropped and returned.
func (c *LRU) Add(loc int64) (evicted int64, ok bool) {
	c.Remove(loc)
	c.index[loc] = c.order.PushFront(loc)
	if c.order.Len() <= c.capacity {
		return 0, false
	}
	tail := c.order.Back()
	c.order.Remove(tail)
	evicted = tail.Value.(int64)
	delete(c.index, evicted)
	return evicted, true
}

// Remove detaches loc wherever it sits in the order.
func (c *LRU) Remove(loc int64) (int64, bool) {
	e, ok := c.index[loc]
	if !ok {
		return 0, false
	}
	c.order.Remove(e)
	delete(c.index, loc)
	return loc, true
}

func (c *LRU) IsFull() bool { return c.order.Len() >= c.capacity }

func (c *LRU) Len() int { return c.order.Len() }

func (c *LRU) Cap() int { return c.capacity }

// Keys returns a snapshot of the cached locations, most recently used first.
func (c *LRU) Keys() []int64 {
	keys := make([]int64, 0, c.order.Len())
	for e := c.order.Front(); e != nil; e = e.Next() {
		keys = append(keys, e.Value.(int64))
	}
	return keys
}

func (c *LRU) Clear() {
	c.order.Init()
	clear(c.index)
}
