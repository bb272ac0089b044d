package slabtree

import "cmp"

// Leaf is a fixed-capacity record of up to 2B-1 key/value pairs. Leaves are
// the bottom-most records in the tree; all leaves share the same depth.
type Leaf[K cmp.Ordered, V any] struct {
	keys [maxKV]K
	vals [maxKV]V
	n    int8
}

func (l *Leaf[K, V]) len() int   { return int(l.n) }
func (l *Leaf[K, V]) full() bool { return int(l.n) == maxKV }

// linsearch scans the leaf's keys left to right. found reports whether q is
// present; idx is either the position of q (found) or the position of the
// first key greater than q (the gap where q would be inserted).
func (l *Leaf[K, V]) linsearch(q K) (idx int, found bool) {
	n := int(l.n)
	for i := 0; i < n; i++ {
		switch {
		case l.keys[i] == q:
			return i, true
		case q < l.keys[i]:
			return i, false
		}
	}
	return n, false
}

func (l *Leaf[K, V]) push(k K, v V) {
	l.keys[l.n] = k
	l.vals[l.n] = v
	l.n++
}

func (l *Leaf[K, V]) unshift(k K, v V) {
	n := int(l.n)
	for j := n; j > 0; j-- {
		l.keys[j] = l.keys[j-1]
		l.vals[j] = l.vals[j-1]
	}
	l.keys[0] = k
	l.vals[0] = v
	l.n++
}

func (l *Leaf[K, V]) pop() (K, V) {
	l.n--
	return l.keys[l.n], l.vals[l.n]
}

func (l *Leaf[K, V]) shift() (K, V) {
	k, v := l.keys[0], l.vals[0]
	n := int(l.n)
	for j := 0; j < n-1; j++ {
		l.keys[j] = l.keys[j+1]
		l.vals[j] = l.vals[j+1]
	}
	l.n--
	return k, v
}

// insert writes (k,v) at position i. If the leaf has room it is inserted in
// place and overflowed is false. If the leaf is already full, the rightmost
// entry is displaced to make room and returned as the overflow triple; when
// i is past the last entry, (k,v) itself is that rightmost entry and is
// returned unchanged.
func (l *Leaf[K, V]) insert(i int, k K, v V) (overK K, overV V, overflowed bool) {
	if int(l.n) < maxKV {
		l.insertRoom(i, k, v)
		return overK, overV, false
	}
	if i == maxKV {
		return k, v, true
	}
	overK, overV = l.keys[maxKV-1], l.vals[maxKV-1]
	for j := maxKV - 1; j > i; j-- {
		l.keys[j] = l.keys[j-1]
		l.vals[j] = l.vals[j-1]
	}
	l.keys[i] = k
	l.vals[i] = v
	return overK, overV, true
}

func (l *Leaf[K, V]) insertRoom(i int, k K, v V) {
	n := int(l.n)
	for j := n; j > i; j-- {
		l.keys[j] = l.keys[j-1]
		l.vals[j] = l.vals[j-1]
	}
	l.keys[i] = k
	l.vals[i] = v
	l.n++
}

// insertOverflowLeft is the left-sibling-rotation primitive: precondition
// full. It displaces the leftmost entry, shifts the prefix before i left by
// one, and writes (k,v) at i-1. At i=0 nothing shifts: the argument itself
// is handed back unchanged as the value to push onto the left sibling.
func (l *Leaf[K, V]) insertOverflowLeft(i int, k K, v V) (outK K, outV V) {
	if i == 0 {
		return k, v
	}
	outK, outV = l.keys[0], l.vals[0]
	for j := 0; j < i-1; j++ {
		l.keys[j] = l.keys[j+1]
		l.vals[j] = l.vals[j+1]
	}
	l.keys[i-1] = k
	l.vals[i-1] = v
	return outK, outV
}

// insertSplit splits a full leaf around the median after conceptually
// inserting (k,v) at position i. This computes the same three cases spec
// section 4.4 describes (i<B, i==B, i>B) via a single uniform construction:
// inserting into a virtual 2B-slot array and cutting it at the fixed point
// B (left=[0,B), separator=[B], right=the remaining B-1 entries), which is
// algebraically equivalent to the three cases for every i in 0..=2B-1 (see
// DESIGN.md).
func (l *Leaf[K, V]) insertSplit(i int, k K, v V) (sepK K, sepV V, right *Leaf[K, V]) {
	var combinedK [maxKV + 1]K
	var combinedV [maxKV + 1]V
	copy(combinedK[:i], l.keys[:i])
	copy(combinedV[:i], l.vals[:i])
	combinedK[i] = k
	combinedV[i] = v
	copy(combinedK[i+1:], l.keys[i:maxKV])
	copy(combinedV[i+1:], l.vals[i:maxKV])

	right = &Leaf[K, V]{}
	copy(l.keys[:bFactor], combinedK[:bFactor])
	copy(l.vals[:bFactor], combinedV[:bFactor])
	l.n = bFactor
	sepK, sepV = combinedK[bFactor], combinedV[bFactor]
	copy(right.keys[:minKV], combinedK[bFactor+1:])
	copy(right.vals[:minKV], combinedV[bFactor+1:])
	right.n = minKV
	return sepK, sepV, right
}

func (l *Leaf[K, V]) remove(i int) (K, V) {
	k, v := l.keys[i], l.vals[i]
	n := int(l.n)
	for j := i; j < n-1; j++ {
		l.keys[j] = l.keys[j+1]
		l.vals[j] = l.vals[j+1]
	}
	l.n--
	return k, v
}

// mergeWithSeparator folds sepK/sepV in as a real entry (interior separators
// are live key/value pairs in this design, not mere routing keys (see
// DESIGN.md), and appends right's contents. Callers only invoke this when
// l.len()+1+right.len() <= 2B-1.
func (l *Leaf[K, V]) mergeWithSeparator(sepK K, sepV V, right *Leaf[K, V]) {
	l.push(sepK, sepV)
	n := right.len()
	for j := 0; j < n; j++ {
		l.push(right.keys[j], right.vals[j])
	}
}
