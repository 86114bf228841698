package shadercache

import (
	"testing"

	"github.com/dx9mt/dx9mt/mslemit"
	"github.com/dx9mt/dx9mt/shader"
)

func entryFor(hash uint32) Entry {
	return Entry{
		BytecodeHash: hash,
		Program:      &shader.Program{},
		MSL:          mslemit.Result{EntryName: "vs_x"},
	}
}

func TestPutAndGet(t *testing.T) {
	c := New(4)
	c.Put(entryFor(1))
	got, ok := c.Get(1)
	if !ok || got.BytecodeHash != 1 {
		t.Fatalf("Get(1) = %+v, %v", got, ok)
	}
	if _, ok := c.Get(2); ok {
		t.Fatal("expected miss for uncached hash")
	}
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c := New(2)
	c.Put(entryFor(1))
	c.Put(entryFor(2))
	c.Get(1) // 1 now most recent
	c.Put(entryFor(3))

	if _, ok := c.Get(2); ok {
		t.Fatal("expected hash 2 to be evicted")
	}
	if _, ok := c.Get(1); !ok {
		t.Fatal("expected hash 1 to survive (recently used)")
	}
	if _, ok := c.Get(3); !ok {
		t.Fatal("expected hash 3 to be present")
	}
}

func TestInvalidate(t *testing.T) {
	c := New(4)
	c.Put(entryFor(1))
	c.Invalidate(1)
	if _, ok := c.Get(1); ok {
		t.Fatal("expected hash 1 to be invalidated")
	}
}

func TestInvalidateAll(t *testing.T) {
	c := New(4)
	c.Put(entryFor(1))
	c.Put(entryFor(2))
	c.InvalidateAll()
	if c.EntryCount() != 0 {
		t.Fatalf("EntryCount after InvalidateAll = %d, want 0", c.EntryCount())
	}
}

func TestStatsHitRate(t *testing.T) {
	c := New(4)
	c.Put(entryFor(1))
	c.Get(1)
	c.Get(1)
	c.Get(99)

	stats := c.Stats()
	if stats.Hits != 2 || stats.Misses != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.HitRate < 0.66 || stats.HitRate > 0.67 {
		t.Fatalf("hit rate = %f, want ~0.667", stats.HitRate)
	}
}

func TestPutRefreshesExistingEntry(t *testing.T) {
	c := New(1)
	c.Put(entryFor(1))
	c.Put(entryFor(1))
	if c.EntryCount() != 1 {
		t.Fatalf("EntryCount = %d, want 1", c.EntryCount())
	}
}
