package hue

import (
	"sync"
	"time"

	"github.com/amimof/huego"
)

// LightCache holds a snapshot of all lights on the bridge. It is a pure
// cache: callers fetch from the network and load it. Reads past the TTL
// report stale so callers know to re-fetch.
type LightCache struct {
	mu        sync.RWMutex
	lights    []huego.Light
	byID      map[int]int // light ID -> index into lights
	fetchedAt time.Time
	ttl       time.Duration
}

// NewLightCache creates an empty cache. ttl 0 means entries never go stale
// on their own; only Invalidate clears them.
func NewLightCache(ttl time.Duration) *LightCache {
	return &LightCache{
		byID: make(map[int]int),
		ttl:  ttl,
	}
}

// Load replaces the snapshot.
func (c *LightCache) Load(lights []huego.Light) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lights = lights
	c.byID = make(map[int]int, len(lights))
	for i := range lights {
		c.byID[lights[i].ID] = i
	}
	c.fetchedAt = time.Now()
}

// All returns the cached snapshot and whether it is usable (loaded and
// within TTL). The returned slice is a copy.
func (c *LightCache) All() ([]huego.Light, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.staleLocked() {
		return nil, false
	}
	out := make([]huego.Light, len(c.lights))
	copy(out, c.lights)
	return out, true
}

// Get returns the cached light with the given ID. ok is false when the
// cache is stale or the ID is unknown.
func (c *LightCache) Get(id int) (*huego.Light, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.staleLocked() {
		return nil, false
	}
	idx, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	light := c.lights[idx]
	return &light, true
}

// Has reports whether the ID is present, ignoring TTL. Used for existence
// checks right after an explicit refresh.
func (c *LightCache) Has(id int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.byID[id]
	return ok
}

// Stale reports whether the snapshot is missing or older than the TTL.
func (c *LightCache) Stale() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.staleLocked()
}

func (c *LightCache) staleLocked() bool {
	if c.fetchedAt.IsZero() {
		return true
	}
	return c.ttl > 0 && time.Since(c.fetchedAt) > c.ttl
}

// Count returns the number of cached lights.
func (c *LightCache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lights)
}

// Invalidate clears the snapshot.
func (c *LightCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lights = nil
	c.byID = make(map[int]int)
	c.fetchedAt = time.Time{}
}
