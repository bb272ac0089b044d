package slabtree

import (
	"cmp"

	"slabtree/internal/slab"
)

type childKind uint8

const (
	childLeaf childKind = iota
	childNode
)

// childRef is a tagged reference to either a leaf or an interior node. The
// kind is implied by the holding node's depth (children one level above the
// leaves are leaves, everything deeper is an interior node), so an untagged
// union would be sound in a language that could express one: the tag is a
// pure function of depth. Go has no compile-time union to exploit for that,
// so the tag is always carried explicitly here; the slabtree_debug build
// additionally asserts the tag agrees with what the caller's depth
// bookkeeping expects before every dereference.
type childRef[K cmp.Ordered, V any] struct {
	kind childKind
	leaf slab.Handle[Leaf[K, V]]
	node slab.Handle[Node[K, V]]
}

func leafChild[K cmp.Ordered, V any](h slab.Handle[Leaf[K, V]]) childRef[K, V] {
	return childRef[K, V]{kind: childLeaf, leaf: h}
}

func nodeChild[K cmp.Ordered, V any](h slab.Handle[Node[K, V]]) childRef[K, V] {
	return childRef[K, V]{kind: childNode, node: h}
}

func (c *childRef[K, V]) asLeaf() *slab.Handle[Leaf[K, V]] {
	debugAssert(c.kind == childLeaf, "child tag says node, asLeaf called")
	return &c.leaf
}

func (c *childRef[K, V]) asNode() *slab.Handle[Node[K, V]] {
	debugAssert(c.kind == childNode, "child tag says leaf, asNode called")
	return &c.node
}
