// Package slabtree implements an in-memory ordered map backed by two
// chunked slot allocators (internal/slab), one for interior nodes and one
// for leaves. Construction and growth both take raw []byte chunks, whose
// lengths set how many slots each allocator holds; the slots themselves
// are Go heap slices, not the chunks' bytes.
package slabtree

// B is the branching parameter. Every non-root node holds between B-1 and
// 2B-1 key/value entries; an interior node has one more child than it has
// keys.
const bFactor = 10

const (
	maxKV       = 2*bFactor - 1 // 19
	minKV       = bFactor - 1   // 9
	maxChildren = 2 * bFactor   // 20
)

// maxDepth bounds the descent stack. B^maxDepth already vastly exceeds any
// slot budget reachable from a 64-bit size counter, matching the Rust
// source's RefStack<'a,T,24> capacity.
const maxDepth = 24
