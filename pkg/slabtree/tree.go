package slabtree

import (
	"cmp"
	"fmt"
	"strings"
	"unsafe"

	"slabtree/internal/slab"
)

// Tree is an in-memory ordered map over K, V. Every node and leaf lives in
// a slot of one of two internal/slab allocators; the number of slots comes
// from the length of the caller-supplied []byte chunks, while the slots are
// stored in Go heap slices rather than in the chunks' bytes.
type Tree[K cmp.Ordered, V any] struct {
	nodeAlloc *slab.Allocator[Node[K, V]]
	leafAlloc *slab.Allocator[Leaf[K, V]]

	rootLeaf slab.Handle[Leaf[K, V]]
	rootNode slab.Handle[Node[K, V]]

	depth int
	size  int
}

// New constructs an empty tree, partitioning chunk between the interior and
// leaf slab according to each record type's relative byte footprint.
func New[K cmp.Ordered, V any](chunk []byte) (*Tree[K, V], error) {
	nodeSize, leafSize := slotSizes[K, V]()
	t := &Tree[K, V]{
		nodeAlloc: slab.NewAllocator[Node[K, V]](slab.Options{SlotSize: nodeSize}),
		leafAlloc: slab.NewAllocator[Leaf[K, V]](slab.Options{SlotSize: leafSize}),
	}
	if err := t.addChunk(chunk, nodeSize, leafSize); err != nil {
		return nil, err
	}
	return t, nil
}

func slotSizes[K cmp.Ordered, V any]() (nodeSize, leafSize int) {
	var n Node[K, V]
	var l Leaf[K, V]
	return int(unsafe.Sizeof(n)), int(unsafe.Sizeof(l))
}

// AddChunk extends both slab allocators from one more caller-owned buffer,
// safe to call at any point between mutations.
func (t *Tree[K, V]) AddChunk(chunk []byte) error {
	nodeSize, leafSize := slotSizes[K, V]()
	return t.addChunk(chunk, nodeSize, leafSize)
}

func (t *Tree[K, V]) addChunk(chunk []byte, nodeSize, leafSize int) error {
	l := len(chunk)
	nodeBytes := l * nodeSize / (nodeSize + (bFactor-1)*leafSize)
	if err := t.nodeAlloc.AddChunk(chunk[:nodeBytes]); err != nil {
		return ErrChunkTooSmall
	}
	if err := t.leafAlloc.AddChunk(chunk[nodeBytes:]); err != nil {
		return ErrChunkTooSmall
	}
	return nil
}

// NeedsMoreChunks reports whether either slab is running low (fewer than 64
// free slots). The caller must check this after every mutation that
// returned success and supply a new chunk via AddChunk when it reports true.
func (t *Tree[K, V]) NeedsMoreChunks() bool {
	return t.nodeAlloc.NeedsMoreChunks() || t.leafAlloc.NeedsMoreChunks()
}

// Len returns the number of entries reachable from the root.
func (t *Tree[K, V]) Len() int { return t.size }

// Get returns the value associated with key, if present.
func (t *Tree[K, V]) Get(key K) (V, bool) {
	var zero V
	switch {
	case t.depth == 0:
		return zero, false
	case t.depth == 1:
		leaf := t.rootLeaf.Deref()
		i, found := leaf.linsearch(key)
		if !found {
			return zero, false
		}
		return leaf.vals[i], true
	default:
		node := t.rootNode.Deref()
		level := t.depth
		for {
			i, found := node.linsearch(key)
			if found {
				return node.vals[i], true
			}
			if level == 2 {
				leaf := node.children[i].asLeaf().Deref()
				li, lfound := leaf.linsearch(key)
				if !lfound {
					return zero, false
				}
				return leaf.vals[li], true
			}
			node = node.children[i].asNode().Deref()
			level--
		}
	}
}

// GetMut returns a mutable pointer to the value associated with key, if
// present.
func (t *Tree[K, V]) GetMut(key K) (*V, bool) {
	switch {
	case t.depth == 0:
		return nil, false
	case t.depth == 1:
		leaf := t.rootLeaf.DerefMut()
		i, found := leaf.linsearch(key)
		if !found {
			return nil, false
		}
		return &leaf.vals[i], true
	default:
		node := t.rootNode.DerefMut()
		level := t.depth
		for {
			i, found := node.linsearch(key)
			if found {
				return &node.vals[i], true
			}
			if level == 2 {
				leaf := node.children[i].asLeaf().DerefMut()
				li, lfound := leaf.linsearch(key)
				if !lfound {
					return nil, false
				}
				return &leaf.vals[li], true
			}
			node = node.children[i].asNode().DerefMut()
			level--
		}
	}
}

// Insert writes key->value. If key was already present, its previous
// (key,value) pair is returned and size is unchanged; otherwise size grows
// by one.
func (t *Tree[K, V]) Insert(key K, value V) (K, V, bool, error) {
	var zk K
	var zv V
	switch {
	case t.depth == 0:
		h, ok := t.leafAlloc.Emplace(Leaf[K, V]{})
		if !ok {
			return zk, zv, false, ErrSlabExhausted
		}
		h.DerefMut().push(key, value)
		t.rootLeaf = h
		t.depth = 1
		t.size = 1
		return zk, zv, false, nil

	case t.depth == 1:
		leaf := t.rootLeaf.DerefMut()
		i, found := leaf.linsearch(key)
		if found {
			prevK, prevV := leaf.keys[i], leaf.vals[i]
			leaf.keys[i], leaf.vals[i] = key, value
			return prevK, prevV, true, nil
		}
		if !leaf.full() {
			leaf.insertRoom(i, key, value)
			t.size++
			return zk, zv, false, nil
		}
		sepK, sepV, right := leaf.insertSplit(i, key, value)
		rightH, ok := t.leafAlloc.Emplace(*right)
		if !ok {
			return zk, zv, false, ErrSlabExhausted
		}
		newRootH, ok := t.nodeAlloc.Emplace(Node[K, V]{})
		if !ok {
			rightH.ReleaseWithDrop()
			return zk, zv, false, ErrSlabExhausted
		}
		newRoot := newRootH.DerefMut()
		newRoot.keys[0], newRoot.vals[0] = sepK, sepV
		newRoot.n = 1
		newRoot.children[0] = leafChild(t.rootLeaf)
		newRoot.children[1] = leafChild(rightH)
		t.rootNode = newRootH
		t.depth = 2
		t.size++
		return zk, zv, false, nil

	default:
		return t.insertDeep(key, value)
	}
}

func (t *Tree[K, V]) insertDeep(key K, value V) (K, V, bool, error) {
	var zk K
	var zv V
	var stack descentStack[K, V]

	node := t.rootNode.DerefMut()
	level := t.depth
	for {
		i, found := node.linsearch(key)
		if found {
			prevK, prevV := node.keys[i], node.vals[i]
			node.keys[i], node.vals[i] = key, value
			return prevK, prevV, true, nil
		}
		stack.push(node, i)
		if level == 2 {
			break
		}
		node = node.children[i].asNode().DerefMut()
		level--
	}

	top := stack.top()
	parentNode, parentIdx := top.node, top.idx
	leafHandle := parentNode.children[parentIdx].asLeaf()
	leaf := leafHandle.DerefMut()

	i, found := leaf.linsearch(key)
	if found {
		prevK, prevV := leaf.keys[i], leaf.vals[i]
		leaf.keys[i], leaf.vals[i] = key, value
		return prevK, prevV, true, nil
	}
	if !leaf.full() {
		leaf.insertRoom(i, key, value)
		t.size++
		return zk, zv, false, nil
	}
	if parentIdx > 0 {
		left := parentNode.children[parentIdx-1].asLeaf().DerefMut()
		if !left.full() {
			overK, overV := leaf.insertOverflowLeft(i, key, value)
			oldSepK, oldSepV := parentNode.keys[parentIdx-1], parentNode.vals[parentIdx-1]
			parentNode.keys[parentIdx-1], parentNode.vals[parentIdx-1] = overK, overV
			left.push(oldSepK, oldSepV)
			t.size++
			return zk, zv, false, nil
		}
	}
	if parentIdx < parentNode.len() {
		right := parentNode.children[parentIdx+1].asLeaf().DerefMut()
		if !right.full() {
			overK, overV, overflowed := leaf.insert(i, key, value)
			debugAssert(overflowed, "full leaf insert must overflow")
			oldSepK, oldSepV := parentNode.keys[parentIdx], parentNode.vals[parentIdx]
			parentNode.keys[parentIdx], parentNode.vals[parentIdx] = overK, overV
			right.unshift(oldSepK, oldSepV)
			t.size++
			return zk, zv, false, nil
		}
	}
	sepK, sepV, rightLeaf := leaf.insertSplit(i, key, value)
	rightH, ok := t.leafAlloc.Emplace(*rightLeaf)
	if !ok {
		return zk, zv, false, ErrSlabExhausted
	}
	t.size++
	return t.unwindInsert(&stack, sepK, sepV, leafChild(rightH))
}

func (t *Tree[K, V]) unwindInsert(stack *descentStack[K, V], sepK K, sepV V, rightChild childRef[K, V]) (K, V, bool, error) {
	var zk K
	var zv V
	for stack.len() > 0 {
		frame := stack.pop()
		node, idx := frame.node, frame.idx
		if !node.full() {
			node.insertRoom(idx, sepK, sepV, rightChild)
			return zk, zv, false, nil
		}
		if stack.len() > 0 {
			parent := stack.top()
			myIdx := parent.idx
			if myIdx > 0 {
				leftSib := parent.node.children[myIdx-1].asNode().DerefMut()
				if !leftSib.full() {
					overK, overV, overChild := node.insertOverflowLeft(idx, sepK, sepV, rightChild)
					oldSepK, oldSepV := parent.node.keys[myIdx-1], parent.node.vals[myIdx-1]
					parent.node.keys[myIdx-1], parent.node.vals[myIdx-1] = overK, overV
					leftSib.push(oldSepK, oldSepV, overChild)
					return zk, zv, false, nil
				}
			}
			if myIdx < parent.node.len() {
				rightSib := parent.node.children[myIdx+1].asNode().DerefMut()
				if !rightSib.full() {
					overK, overV, overChild, overflowed := node.insert(idx, sepK, sepV, rightChild)
					debugAssert(overflowed, "full interior insert must overflow")
					oldSepK, oldSepV := parent.node.keys[myIdx], parent.node.vals[myIdx]
					parent.node.keys[myIdx], parent.node.vals[myIdx] = overK, overV
					rightSib.unshift(oldSepK, oldSepV, overChild)
					return zk, zv, false, nil
				}
			}
		}
		newSepK, newSepV, right := node.insertSplit(idx, sepK, sepV, rightChild)
		rightH, ok := t.nodeAlloc.Emplace(*right)
		if !ok {
			return zk, zv, false, ErrSlabExhausted
		}
		sepK, sepV, rightChild = newSepK, newSepV, nodeChild(rightH)
	}

	if t.depth+1 > maxDepth {
		return zk, zv, false, ErrDepthOverflow
	}
	newRootH, ok := t.nodeAlloc.Emplace(Node[K, V]{})
	if !ok {
		return zk, zv, false, ErrSlabExhausted
	}
	newRoot := newRootH.DerefMut()
	newRoot.keys[0], newRoot.vals[0] = sepK, sepV
	newRoot.n = 1
	newRoot.children[0] = nodeChild(t.rootNode)
	newRoot.children[1] = rightChild
	t.rootNode = newRootH
	t.depth++
	return zk, zv, false, nil
}

// Remove deletes key if present and returns its (key,value) pair.
func (t *Tree[K, V]) Remove(key K) (K, V, bool, error) {
	var zk K
	var zv V
	switch {
	case t.depth == 0:
		return zk, zv, false, nil
	case t.depth == 1:
		leaf := t.rootLeaf.DerefMut()
		i, found := leaf.linsearch(key)
		if !found {
			return zk, zv, false, nil
		}
		remK, remV := leaf.remove(i)
		t.size--
		if leaf.len() == 0 {
			t.rootLeaf.ReleaseWithDrop()
			t.rootLeaf = slab.Handle[Leaf[K, V]]{}
			t.depth = 0
		}
		return remK, remV, true, nil
	default:
		return t.removeDeep(key)
	}
}

func (t *Tree[K, V]) removeDeep(key K) (K, V, bool, error) {
	var zk K
	var zv V
	var stack descentStack[K, V]

	var targetNode *Node[K, V]
	targetIdx := -1

	node := t.rootNode.DerefMut()
	level := t.depth
	for {
		var i int
		var found bool
		if targetIdx == -1 {
			i, found = node.linsearch(key)
		} else {
			i, found = node.len(), false
		}
		if found {
			targetNode = node
			targetIdx = i
		}
		stack.push(node, i)
		if level == 2 {
			break
		}
		node = node.children[i].asNode().DerefMut()
		level--
	}

	top := stack.top()
	parentNode, parentIdx := top.node, top.idx
	leafHandle := parentNode.children[parentIdx].asLeaf()
	leaf := leafHandle.DerefMut()

	var leafIdx int
	if targetIdx == -1 {
		var found bool
		leafIdx, found = leaf.linsearch(key)
		if !found {
			return zk, zv, false, nil
		}
	} else {
		debugAssert(leaf.len() > 0, "predecessor leaf must be non-empty")
		leafIdx = leaf.len() - 1
	}

	remK, remV := leaf.remove(leafIdx)
	t.size--

	if targetIdx >= 0 {
		origK, origV := targetNode.keys[targetIdx], targetNode.vals[targetIdx]
		targetNode.keys[targetIdx], targetNode.vals[targetIdx] = remK, remV
		remK, remV = origK, origV
	}

	t.unwindRemove(&stack)
	return remK, remV, true, nil
}

func (t *Tree[K, V]) unwindRemove(stack *descentStack[K, V]) {
	frame := stack.pop()
	parent, idx := frame.node, frame.idx
	leafHandle := parent.children[idx].asLeaf()
	leaf := leafHandle.DerefMut()

	if leaf.len() >= minKV {
		return
	}
	if idx > 0 {
		left := parent.children[idx-1].asLeaf().DerefMut()
		if left.len() > minKV {
			lastK, lastV := left.pop()
			oldSepK, oldSepV := parent.keys[idx-1], parent.vals[idx-1]
			parent.keys[idx-1], parent.vals[idx-1] = lastK, lastV
			leaf.unshift(oldSepK, oldSepV)
			return
		}
	}
	if idx < parent.len() {
		right := parent.children[idx+1].asLeaf().DerefMut()
		if right.len() > minKV {
			firstK, firstV := right.shift()
			oldSepK, oldSepV := parent.keys[idx], parent.vals[idx]
			parent.keys[idx], parent.vals[idx] = firstK, firstV
			leaf.push(oldSepK, oldSepV)
			return
		}
	}
	if idx > 0 {
		leftH := parent.children[idx-1].asLeaf()
		left := leftH.DerefMut()
		sepK, sepV := parent.keys[idx-1], parent.vals[idx-1]
		left.mergeWithSeparator(sepK, sepV, leaf)
		leafHandle.ReleaseForget()
		parent.remove(idx - 1)
	} else {
		rightH := parent.children[idx+1].asLeaf()
		right := rightH.DerefMut()
		sepK, sepV := parent.keys[idx], parent.vals[idx]
		leaf.mergeWithSeparator(sepK, sepV, right)
		rightH.ReleaseForget()
		parent.remove(idx)
	}
	t.unwindInteriorFrom(stack, parent)
}

// unwindInteriorFrom propagates underflow caused by a merge one level up at
// a time, using the same rotate-left/rotate-right/merge policy, until a
// node no longer underflows or the root is reached.
func (t *Tree[K, V]) unwindInteriorFrom(stack *descentStack[K, V], node *Node[K, V]) {
	for {
		if stack.len() == 0 {
			if node.len() == 0 {
				t.collapseRootTo(node.children[0])
			}
			return
		}
		if node.len() >= minKV {
			return
		}
		frame := stack.pop()
		parent, idx := frame.node, frame.idx

		if idx > 0 {
			left := parent.children[idx-1].asNode().DerefMut()
			if left.len() > minKV {
				lastK, lastV, lastChild := left.pop()
				oldSepK, oldSepV := parent.keys[idx-1], parent.vals[idx-1]
				parent.keys[idx-1], parent.vals[idx-1] = lastK, lastV
				node.unshift(oldSepK, oldSepV, lastChild)
				return
			}
		}
		if idx < parent.len() {
			right := parent.children[idx+1].asNode().DerefMut()
			if right.len() > minKV {
				firstK, firstV, firstChild := right.shift()
				oldSepK, oldSepV := parent.keys[idx], parent.vals[idx]
				parent.keys[idx], parent.vals[idx] = firstK, firstV
				node.push(oldSepK, oldSepV, firstChild)
				return
			}
		}
		if idx > 0 {
			nodeH := parent.children[idx].asNode()
			left := parent.children[idx-1].asNode().DerefMut()
			sepK, sepV := parent.keys[idx-1], parent.vals[idx-1]
			sepRight := node.children[0]
			left.mergeWithSeparator(sepK, sepV, sepRight, node)
			nodeH.ReleaseForget()
			parent.remove(idx - 1)
		} else {
			rightH := parent.children[idx+1].asNode()
			right := rightH.DerefMut()
			sepK, sepV := parent.keys[idx], parent.vals[idx]
			sepRight := right.children[0]
			node.mergeWithSeparator(sepK, sepV, sepRight, right)
			rightH.ReleaseForget()
			parent.remove(idx)
		}
		node = parent
	}
}

func (t *Tree[K, V]) collapseRootTo(child childRef[K, V]) {
	oldRoot := t.rootNode
	switch child.kind {
	case childLeaf:
		t.rootLeaf = child.leaf
		t.rootNode = slab.Handle[Node[K, V]]{}
	case childNode:
		t.rootNode = child.node
	}
	oldRoot.ReleaseForget()
	t.depth--
}

// Close releases every reachable slot back to its allocator without
// running any destructor on the contained keys/values. After Close the
// tree is empty and its allocators may be reused or discarded.
func (t *Tree[K, V]) Close() {
	switch {
	case t.depth == 0:
		return
	case t.depth == 1:
		t.rootLeaf.ReleaseForget()
		t.rootLeaf = slab.Handle[Leaf[K, V]]{}
	default:
		t.closeNode(&t.rootNode, t.depth)
		t.rootNode = slab.Handle[Node[K, V]]{}
	}
	t.depth = 0
	t.size = 0
}

func (t *Tree[K, V]) closeNode(h *slab.Handle[Node[K, V]], level int) {
	node := h.DerefMut()
	n := node.len()
	if level == 2 {
		for i := 0; i <= n; i++ {
			node.children[i].asLeaf().ReleaseForget()
		}
	} else {
		for i := 0; i <= n; i++ {
			t.closeNode(node.children[i].asNode(), level-1)
		}
	}
	h.ReleaseForget()
}

// DebugString renders the tree's structure, level by level, for tests and
// diagnostics. It is a diagnostic method on the façade, not part of the
// tree's invariant-bearing operation set.
func (t *Tree[K, V]) DebugString() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tree(depth=%d, size=%d)\n", t.depth, t.size)
	switch {
	case t.depth == 0:
		b.WriteString("  <empty>\n")
	case t.depth == 1:
		debugLeaf(&b, t.rootLeaf.Deref(), 1)
	default:
		debugNode(&b, t.rootNode.Deref(), 1, t.depth)
	}
	return b.String()
}

func debugLeaf[K cmp.Ordered, V any](b *strings.Builder, leaf *Leaf[K, V], indent int) {
	fmt.Fprintf(b, "%sleaf%v\n", strings.Repeat("  ", indent), leaf.keys[:leaf.len()])
}

func debugNode[K cmp.Ordered, V any](b *strings.Builder, node *Node[K, V], indent, level int) {
	fmt.Fprintf(b, "%snode%v\n", strings.Repeat("  ", indent), node.keys[:node.len()])
	n := node.len()
	for i := 0; i <= n; i++ {
		if level == 2 {
			debugLeaf(b, node.children[i].asLeaf().Deref(), indent+1)
		} else {
			debugNode(b, node.children[i].asNode().Deref(), indent+1, level-1)
		}
	}
}
