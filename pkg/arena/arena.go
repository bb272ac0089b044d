// Package arena sources the raw []byte chunks pkg/slabtree.Tree consumes via
// New/AddChunk. Chunks come from an anonymous memory mapping rather than a
// heap allocation, and their growth is tracked against a cache.MemoryBudget
// the same way page-cache growth is tracked. slabtree uses a chunk's length
// to size its slot allocators; it does not store nodes in the mapped bytes.
package arena

import "slabtree/pkg/cache"

// Arena hands out anonymously-mapped byte chunks and tracks their combined
// size against a budget. It is not itself safe for concurrent use, matching
// pkg/slabtree.Tree's own single-threaded contract.
type Arena struct {
	budget    *cache.MemoryBudget
	component string
	chunks    []*Chunk
}

// Chunk is one anonymously-mapped buffer handed to Tree.AddChunk. Closing it
// unmaps the memory and releases its bytes from the owning Arena's budget.
type Chunk struct {
	arena *Arena
	bytes []byte
}

// Bytes returns the chunk's backing buffer.
func (c *Chunk) Bytes() []byte { return c.bytes }

// Close unmaps the chunk and releases its bytes from the budget. A second
// call does nothing and returns nil.
func (c *Chunk) Close() error {
	if c.bytes == nil {
		return nil
	}
	n := int64(len(c.bytes))
	err := unmapAnon(c.bytes)
	c.bytes = nil
	c.arena.budget.Release(c.arena.component, n)
	return err
}

// New constructs an Arena that tracks its chunk allocations against budget
// under the named component, registering the component if it is new.
func New(budget *cache.MemoryBudget, component string) *Arena {
	budget.RegisterComponent(component)
	return &Arena{budget: budget, component: component}
}

// NewChunk maps a fresh anonymous buffer of size bytes and tracks it against
// the arena's budget. The returned Chunk must eventually be Close'd.
func (a *Arena) NewChunk(size int) (*Chunk, error) {
	data, err := mapAnon(size)
	if err != nil {
		return nil, err
	}
	c := &Chunk{arena: a, bytes: data}
	a.budget.Track(a.component, int64(size))
	a.chunks = append(a.chunks, c)
	return c, nil
}

// CloseAll closes every chunk this arena has handed out, in allocation
// order. It is intended for teardown paths that did not keep track of
// individual Chunk handles themselves.
func (a *Arena) CloseAll() error {
	var firstErr error
	for _, c := range a.chunks {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.chunks = nil
	return firstErr
}
