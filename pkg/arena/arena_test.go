//go:build unix || darwin || linux || freebsd || openbsd || netbsd

package arena

import (
	"testing"

	"slabtree/pkg/cache"
)

func TestArena_NewChunkTracksBudget(t *testing.T) {
	budget := cache.NewMemoryBudget(1024 * 1024)
	a := New(budget, "slabtree")

	c, err := a.NewChunk(4096)
	if err != nil {
		t.Fatalf("NewChunk: %v", err)
	}
	if got := len(c.Bytes()); got != 4096 {
		t.Fatalf("len(Bytes()) = %d, want 4096", got)
	}
	if got := budget.ComponentUsage("slabtree"); got != 4096 {
		t.Fatalf("ComponentUsage = %d, want 4096", got)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := budget.ComponentUsage("slabtree"); got != 0 {
		t.Fatalf("ComponentUsage after Close = %d, want 0", got)
	}
}

func TestArena_ChunkBytesAreWritable(t *testing.T) {
	budget := cache.NewMemoryBudget(0)
	a := New(budget, "slabtree")
	c, err := a.NewChunk(4096)
	if err != nil {
		t.Fatalf("NewChunk: %v", err)
	}
	defer c.Close()
	buf := c.Bytes()
	for i := range buf {
		buf[i] = byte(i)
	}
	for i := range buf {
		if buf[i] != byte(i) {
			t.Fatalf("byte %d = %d, want %d", i, buf[i], byte(i))
		}
	}
}

func TestArena_CloseAllReleasesEveryChunk(t *testing.T) {
	budget := cache.NewMemoryBudget(0)
	a := New(budget, "slabtree")
	for i := 0; i < 3; i++ {
		if _, err := a.NewChunk(4096); err != nil {
			t.Fatalf("NewChunk: %v", err)
		}
	}
	if got := budget.ComponentUsage("slabtree"); got != 3*4096 {
		t.Fatalf("ComponentUsage = %d, want %d", got, 3*4096)
	}
	if err := a.CloseAll(); err != nil {
		t.Fatalf("CloseAll: %v", err)
	}
	if got := budget.ComponentUsage("slabtree"); got != 0 {
		t.Fatalf("ComponentUsage after CloseAll = %d, want 0", got)
	}
}
