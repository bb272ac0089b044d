package slabtree

import "testing"

// tagChild returns a childRef tagged as a leaf child carrying no live handle.
// The tag argument is ignored, so every result is identical; tests here
// check keys and values only, never child placement or dereferencing.
func tagChild(tag int) childRef[int, int] {
	return childRef[int, int]{kind: childLeaf}
}

func fullNode() *Node[int, int] {
	nd := &Node[int, int]{}
	nd.children[0] = tagChild(0)
	for i := 0; i < maxKV; i++ {
		nd.keys[i] = i
		nd.vals[i] = i * 10
		nd.children[i+1] = tagChild(i + 1)
	}
	nd.n = maxKV
	return nd
}

func TestNode_LinsearchFoundAndGap(t *testing.T) {
	nd := &Node[int, int]{}
	nd.push(10, 100, tagChild(1))
	nd.push(20, 200, tagChild(2))
	if idx, found := nd.linsearch(10); !found || idx != 0 {
		t.Fatalf("linsearch(10) = %d, %v, want 0, true", idx, found)
	}
	if idx, found := nd.linsearch(15); found || idx != 1 {
		t.Fatalf("linsearch(15) = %d, %v, want 1, false", idx, found)
	}
}

func TestNode_PushUnshiftPopShift(t *testing.T) {
	nd := &Node[int, int]{}
	nd.children[0] = tagChild(0)
	nd.push(5, 50, tagChild(1))
	nd.unshift(1, 10, tagChild(-1))
	if nd.len() != 2 || nd.keys[0] != 1 || nd.keys[1] != 5 {
		t.Fatalf("keys after push/unshift = %v, want [1 5]", nd.keys[:nd.len()])
	}
	k, v, _ := nd.pop()
	if k != 5 || v != 50 {
		t.Fatalf("pop() = %d, %d, want 5, 50", k, v)
	}
	k, v, _ = nd.shift()
	if k != 1 || v != 10 {
		t.Fatalf("shift() = %d, %d, want 1, 10", k, v)
	}
	if nd.len() != 0 {
		t.Fatalf("len() = %d, want 0", nd.len())
	}
}

func TestNode_InsertOverflowsWhenFull(t *testing.T) {
	nd := fullNode()
	overK, overV, _, overflowed := nd.insert(0, -1, -10, tagChild(999))
	if !overflowed {
		t.Fatal("insert into a full node should overflow")
	}
	if overK != maxKV-1 || overV != (maxKV-1)*10 {
		t.Fatalf("overflow = %d, %d, want %d, %d", overK, overV, maxKV-1, (maxKV-1)*10)
	}
}

func TestNode_InsertSplitAllThreeCases(t *testing.T) {
	cases := []int{0, bFactor, maxKV}
	for _, i := range cases {
		nd := fullNode()
		for j := range nd.keys {
			nd.keys[j] *= 2
		}
		sepK, _, right := nd.insertSplit(i, 2*i-1, 2*i-1, tagChild(777))
		if nd.len() != bFactor {
			t.Fatalf("i=%d: left.len() = %d, want %d", i, nd.len(), bFactor)
		}
		if right.len() != minKV {
			t.Fatalf("i=%d: right.len() = %d, want %d", i, right.len(), minKV)
		}
		if nd.len()+1 != bFactor+1 {
			t.Fatalf("i=%d: left child count wrong", i)
		}
		for j := 1; j < nd.len(); j++ {
			if nd.keys[j-1] >= nd.keys[j] {
				t.Fatalf("i=%d: left keys not ascending: %v", i, nd.keys[:nd.len()])
			}
		}
		if nd.keys[nd.len()-1] >= sepK {
			t.Fatalf("i=%d: left max %d >= separator %d", i, nd.keys[nd.len()-1], sepK)
		}
		if sepK >= right.keys[0] {
			t.Fatalf("i=%d: separator %d >= right min %d", i, sepK, right.keys[0])
		}
	}
}

func TestNode_RemoveDropsKeyAndRightChild(t *testing.T) {
	nd := &Node[int, int]{}
	nd.children[0] = tagChild(0)
	nd.push(1, 10, tagChild(1))
	nd.push(2, 20, tagChild(2))
	nd.push(3, 30, tagChild(3))
	k, v, c := nd.remove(1)
	if k != 2 || v != 20 {
		t.Fatalf("remove(1) = %d, %d, want 2, 20", k, v)
	}
	_ = c
	if nd.len() != 2 || nd.keys[0] != 1 || nd.keys[1] != 3 {
		t.Fatalf("keys after remove = %v, want [1 3]", nd.keys[:nd.len()])
	}
}

func TestNode_MergeWithSeparatorFoldsSeparatorIn(t *testing.T) {
	left := &Node[int, int]{}
	left.children[0] = tagChild(0)
	left.push(1, 10, tagChild(1))

	right := &Node[int, int]{}
	right.children[0] = tagChild(10)
	right.push(4, 40, tagChild(11))

	left.mergeWithSeparator(2, 20, tagChild(99), right)

	want := []int{1, 2, 4}
	if left.len() != len(want) {
		t.Fatalf("len() = %d, want %d", left.len(), len(want))
	}
	for i, w := range want {
		if left.keys[i] != w {
			t.Fatalf("keys[%d] = %d, want %d (separator must be folded in, not dropped)", i, left.keys[i], w)
		}
	}
}
