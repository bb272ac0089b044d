package slabtree

import "cmp"

// Node is an interior record: up to 2B-1 key/value pairs plus up to 2B
// children. child[i] holds every key less than keys[i]; child[n] holds
// every key greater than keys[n-1].
type Node[K cmp.Ordered, V any] struct {
	keys     [maxKV]K
	vals     [maxKV]V
	children [maxChildren]childRef[K, V]
	n        int8
}

func (nd *Node[K, V]) len() int   { return int(nd.n) }
func (nd *Node[K, V]) full() bool { return int(nd.n) == maxKV }

func (nd *Node[K, V]) linsearch(q K) (idx int, found bool) {
	n := int(nd.n)
	for i := 0; i < n; i++ {
		switch {
		case nd.keys[i] == q:
			return i, true
		case q < nd.keys[i]:
			return i, false
		}
	}
	return n, false
}

func (nd *Node[K, V]) push(k K, v V, rchild childRef[K, V]) {
	nd.keys[nd.n] = k
	nd.vals[nd.n] = v
	nd.n++
	nd.children[nd.n] = rchild
}

func (nd *Node[K, V]) unshift(k K, v V, lchild childRef[K, V]) {
	n := int(nd.n)
	for j := n; j > 0; j-- {
		nd.keys[j] = nd.keys[j-1]
		nd.vals[j] = nd.vals[j-1]
	}
	for j := n + 1; j > 0; j-- {
		nd.children[j] = nd.children[j-1]
	}
	nd.keys[0] = k
	nd.vals[0] = v
	nd.children[0] = lchild
	nd.n++
}

func (nd *Node[K, V]) pop() (K, V, childRef[K, V]) {
	k, v, c := nd.keys[nd.n-1], nd.vals[nd.n-1], nd.children[nd.n]
	nd.n--
	return k, v, c
}

func (nd *Node[K, V]) shift() (K, V, childRef[K, V]) {
	k, v, c := nd.keys[0], nd.vals[0], nd.children[0]
	n := int(nd.n)
	for j := 0; j < n-1; j++ {
		nd.keys[j] = nd.keys[j+1]
		nd.vals[j] = nd.vals[j+1]
	}
	for j := 0; j < n; j++ {
		nd.children[j] = nd.children[j+1]
	}
	nd.n--
	return k, v, c
}

func (nd *Node[K, V]) insert(i int, k K, v V, rchild childRef[K, V]) (overK K, overV V, overChild childRef[K, V], overflowed bool) {
	if int(nd.n) < maxKV {
		nd.insertRoom(i, k, v, rchild)
		return overK, overV, overChild, false
	}
	if i == maxKV {
		return k, v, rchild, true
	}
	overK, overV = nd.keys[maxKV-1], nd.vals[maxKV-1]
	overChild = nd.children[maxKV]
	for j := maxKV - 1; j > i; j-- {
		nd.keys[j] = nd.keys[j-1]
		nd.vals[j] = nd.vals[j-1]
	}
	for j := maxKV; j > i+1; j-- {
		nd.children[j] = nd.children[j-1]
	}
	nd.keys[i] = k
	nd.vals[i] = v
	nd.children[i+1] = rchild
	return overK, overV, overChild, true
}

func (nd *Node[K, V]) insertRoom(i int, k K, v V, rchild childRef[K, V]) {
	n := int(nd.n)
	for j := n; j > i; j-- {
		nd.keys[j] = nd.keys[j-1]
		nd.vals[j] = nd.vals[j-1]
	}
	for j := n + 1; j > i+1; j-- {
		nd.children[j] = nd.children[j-1]
	}
	nd.keys[i] = k
	nd.vals[i] = v
	nd.children[i+1] = rchild
	nd.n++
}

// insertOverflowLeft mirrors Leaf.insertOverflowLeft, additionally carrying
// the displaced leftmost child (or, at i=0, handing back the argument's
// rchild as the node's new leftmost child while the old leftmost child
// travels with the overflow triple to the left sibling).
func (nd *Node[K, V]) insertOverflowLeft(i int, k K, v V, rchild childRef[K, V]) (overK K, overV V, overChild childRef[K, V]) {
	if i == 0 {
		overK, overV, overChild = k, v, nd.children[0]
		nd.children[0] = rchild
		return
	}
	overK, overV = nd.keys[0], nd.vals[0]
	overChild = nd.children[0]
	for j := 0; j < i-1; j++ {
		nd.keys[j] = nd.keys[j+1]
		nd.vals[j] = nd.vals[j+1]
	}
	for j := 0; j < i; j++ {
		nd.children[j] = nd.children[j+1]
	}
	nd.keys[i-1] = k
	nd.vals[i-1] = v
	nd.children[i] = rchild
	return
}

// insertSplit splits a full node around the median after conceptually
// inserting (k,v,rchild) at position i, using the same combined-array
// construction as Leaf.insertSplit (see DESIGN.md): insert into a virtual
// 2B-key/2B+1-child array, then left=[0,B), sep=[B], right=(B,2B].
func (nd *Node[K, V]) insertSplit(i int, k K, v V, rchild childRef[K, V]) (sepK K, sepV V, right *Node[K, V]) {
	var ck [maxKV + 1]K
	var cv [maxKV + 1]V
	var cc [maxChildren + 1]childRef[K, V]

	copy(ck[:i], nd.keys[:i])
	copy(cv[:i], nd.vals[:i])
	ck[i] = k
	cv[i] = v
	copy(ck[i+1:], nd.keys[i:maxKV])
	copy(cv[i+1:], nd.vals[i:maxKV])

	copy(cc[:i+1], nd.children[:i+1])
	cc[i+1] = rchild
	copy(cc[i+2:], nd.children[i+1:maxChildren])

	right = &Node[K, V]{}
	copy(nd.keys[:bFactor], ck[:bFactor])
	copy(nd.vals[:bFactor], cv[:bFactor])
	copy(nd.children[:bFactor+1], cc[:bFactor+1])
	nd.n = bFactor

	sepK, sepV = ck[bFactor], cv[bFactor]

	copy(right.keys[:minKV], ck[bFactor+1:])
	copy(right.vals[:minKV], cv[bFactor+1:])
	copy(right.children[:minKV+1], cc[bFactor+1:])
	right.n = minKV

	return sepK, sepV, right
}

// remove removes the key/value at i and returns the right child of the
// removed separator (the child that becomes orphaned by dropping keys[i]).
func (nd *Node[K, V]) remove(i int) (K, V, childRef[K, V]) {
	k, v := nd.keys[i], nd.vals[i]
	c := nd.children[i+1]
	n := int(nd.n)
	for j := i; j < n-1; j++ {
		nd.keys[j] = nd.keys[j+1]
		nd.vals[j] = nd.vals[j+1]
	}
	for j := i + 1; j < n; j++ {
		nd.children[j] = nd.children[j+1]
	}
	nd.n--
	return k, v, c
}

func (nd *Node[K, V]) mergeWithSeparator(sepK K, sepV V, sepRight childRef[K, V], right *Node[K, V]) {
	nd.push(sepK, sepV, sepRight)
	n := right.len()
	for j := 0; j < n; j++ {
		nd.push(right.keys[j], right.vals[j], right.children[j+1])
	}
}
