// Package shadercache caches parsed+emitted shader programs keyed by their
// bytecode hash, so a shader already seen this process never pays for
// shader.Parse or mslemit.Emit* again.
//
// Grounded on gogpu-gg's scene.LayerCache: the same container/list LRU plus
// sync.RWMutex plus atomic hit/miss/eviction-counter shape, generalized from
// a memory-budget-bounded pixmap cache to an entry-count-bounded shader
// cache (compiled shader counts are small and bounded by the game's own
// shader set, unlike painted layer pixmaps, so a byte-size budget would be
// the wrong knob here).
package shadercache

import (
	"container/list"
	"sync"
	"sync/atomic"

	"github.com/dx9mt/dx9mt/mslemit"
	"github.com/dx9mt/dx9mt/shader"
)

// DefaultMaxEntries is the default number of distinct shaders kept resident.
const DefaultMaxEntries = 512

// Entry is one cached shader's parsed IR and emitted MSL.
type Entry struct {
	BytecodeHash uint32
	Program      *shader.Program
	MSL          mslemit.Result
}

type cacheEntry struct {
	entry   Entry
	element *list.Element
}

// Stats reports cache hit/miss/eviction counters for diagnostics.
type Stats struct {
	Entries   int
	MaxEntries int
	Hits      uint64
	Misses    uint64
	Evictions uint64
	HitRate   float64
}

// Cache is a thread-safe LRU cache of parsed/emitted shader programs.
type Cache struct {
	mu      sync.RWMutex
	entries map[uint32]*cacheEntry
	lru     *list.List
	maxSize int

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// New returns an empty Cache holding up to maxEntries shaders. A non-
// positive maxEntries falls back to DefaultMaxEntries.
func New(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Cache{
		entries: make(map[uint32]*cacheEntry),
		lru:     list.New(),
		maxSize: maxEntries,
	}
}

// Get returns the cached entry for hash, if present, moving it to the front
// of the LRU order.
func (c *Cache) Get(hash uint32) (Entry, bool) {
	c.mu.RLock()
	_, ok := c.entries[hash]
	c.mu.RUnlock()
	if !ok {
		c.misses.Add(1)
		return Entry{}, false
	}

	c.mu.Lock()
	ce, ok := c.entries[hash]
	if !ok {
		c.mu.Unlock()
		c.misses.Add(1)
		return Entry{}, false
	}
	c.lru.MoveToFront(ce.element)
	entry := ce.entry
	c.mu.Unlock()

	c.hits.Add(1)
	return entry, true
}

// Put stores entry, evicting the least recently used shader if the cache is
// at capacity. Re-putting an existing hash refreshes its LRU position.
func (c *Cache) Put(entry Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[entry.BytecodeHash]; ok {
		c.lru.Remove(existing.element)
		delete(c.entries, entry.BytecodeHash)
	}

	for len(c.entries) >= c.maxSize {
		back := c.lru.Back()
		if back == nil {
			break
		}
		evicted := back.Value.(*cacheEntry)
		c.lru.Remove(back)
		delete(c.entries, evicted.entry.BytecodeHash)
		c.evictions.Add(1)
	}

	ce := &cacheEntry{entry: entry}
	ce.element = c.lru.PushFront(ce)
	c.entries[entry.BytecodeHash] = ce
}

// Invalidate removes a single shader from the cache.
func (c *Cache) Invalidate(hash uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ce, ok := c.entries[hash]; ok {
		c.lru.Remove(ce.element)
		delete(c.entries, hash)
		c.evictions.Add(1)
	}
}

// InvalidateAll clears the cache.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	evicted := uint64(len(c.entries))
	c.entries = make(map[uint32]*cacheEntry)
	c.lru.Init()
	if evicted > 0 {
		c.evictions.Add(evicted)
	}
}

// Stats returns current hit/miss/eviction counters and occupancy.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	entries := len(c.entries)
	maxSize := c.maxSize
	c.mu.RUnlock()

	hits := c.hits.Load()
	misses := c.misses.Load()
	evictions := c.evictions.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Entries:    entries,
		MaxEntries: maxSize,
		Hits:       hits,
		Misses:     misses,
		Evictions:  evictions,
		HitRate:    hitRate,
	}
}

// EntryCount returns the number of shaders currently cached.
func (c *Cache) EntryCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
