// pkg/tree/interface.go
//
// Package tree defines the abstraction slabtree.Tree satisfies, generalized
// from a []byte-keyed interface abstracting over several competing
// page-based implementations to an arbitrary ordered key type backed by one
// implementation. The interface exists so callers can depend on the
// operation set without importing the concrete slab-backed type.
package tree

import "cmp"

// Tree is the interface for the ordered key-value operations slabtree.Tree
// implements. Iteration, persistence, and snapshotting are explicit
// non-goals of this module and have no place here.
type Tree[K cmp.Ordered, V any] interface {
	// Insert inserts or replaces the value at key, returning the previous
	// (key, value) pair and true if one was replaced.
	Insert(key K, value V) (prevKey K, prevValue V, replaced bool, err error)

	// Get retrieves the value for a key.
	Get(key K) (value V, found bool)

	// Remove deletes a key from the tree, returning its (key, value) pair.
	Remove(key K) (removedKey K, removedValue V, found bool, err error)

	// Len returns the number of entries reachable from the root.
	Len() int
}

// TreeWithStats is an extension for trees that provide a human-readable
// structural dump.
type TreeWithStats[K cmp.Ordered, V any] interface {
	Tree[K, V]
	DebugString() string
}
