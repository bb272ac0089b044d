package slabtree

import "cmp"

// descentFrame is one level of the path taken from the root toward a leaf:
// the interior node visited and the child-slot index chosen there.
type descentFrame[K cmp.Ordered, V any] struct {
	node *Node[K, V]
	idx  int
}

// descentStack is the fixed-depth path-recording structure: a small array
// of raw references plus parallel child indices. Pointers obtained from
// slab handles stay valid for the lifetime of a single Insert/Remove call:
// AddChunk is the only operation that can reallocate an allocator's backing
// slice, and it is never called from within a mutation (chunks are added
// only at quiescent points between calls), so a descent stack of raw *Node
// pointers is sound here the same way the Rust source's RefStack of raw
// references is sound under its borrow-checker discipline.
type descentStack[K cmp.Ordered, V any] struct {
	frames [maxDepth]descentFrame[K, V]
	n      int
}

func (s *descentStack[K, V]) push(node *Node[K, V], idx int) {
	s.frames[s.n] = descentFrame[K, V]{node: node, idx: idx}
	s.n++
}

func (s *descentStack[K, V]) pop() descentFrame[K, V] {
	s.n--
	return s.frames[s.n]
}

func (s *descentStack[K, V]) len() int { return s.n }

func (s *descentStack[K, V]) top() *descentFrame[K, V] {
	return &s.frames[s.n-1]
}
