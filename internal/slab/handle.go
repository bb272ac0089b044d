package slab

// Handle is the owning reference to one slot in an Allocator, the Go
// analogue of the Rust source's SlabBox<T>. A Handle must be consumed
// through exactly one of ReleaseWithDrop, ReleaseForget, or ReleaseMove;
// Deref panics if called on a Handle that is not live, AssumeInit if it is
// not uninit, DerefMut if it is released, and every release method panics
// if called twice. Go has no deterministic destructor to trap a
// silently-discarded live Handle the way the Rust source's impl Drop does
// (see DESIGN.md); this state check catches double release,
// use-after-release, and Deref before AssumeInit made through the same
// Handle value. The state lives in the Handle value itself, so a copy of a
// Handle does not see a release made through another copy.
type Handle[T any] struct {
	alloc *Allocator[T]
	idx   int32
	state slotState
}

// Emplace allocates a slot and writes v into it in one step.
func (a *Allocator[T]) Emplace(v T) (Handle[T], bool) {
	idx, ok := a.allocate()
	if !ok {
		return Handle[T]{}, false
	}
	a.slots[idx].value = v
	a.slots[idx].state = stateLive
	return Handle[T]{alloc: a, idx: idx, state: stateLive}, true
}

// UninitAllocate reserves a slot without writing a value. The returned
// Handle must be written via DerefMut and promoted with AssumeInit before
// any other accessor is valid.
func (a *Allocator[T]) UninitAllocate() (Handle[T], bool) {
	idx, ok := a.allocate()
	if !ok {
		return Handle[T]{}, false
	}
	a.slots[idx].state = stateUninit
	return Handle[T]{alloc: a, idx: idx, state: stateUninit}, true
}

// AssumeInit promotes an uninitialised Handle to live after the caller has
// written its contents through DerefMut.
func (h *Handle[T]) AssumeInit() {
	if h.state != stateUninit {
		panic("slab: AssumeInit on a handle that is not uninit")
	}
	h.state = stateLive
	h.alloc.slots[h.idx].state = stateLive
}

// Deref borrows the slot's contents.
func (h *Handle[T]) Deref() *T {
	if h.state != stateLive {
		panic("slab: Deref on a handle that is not live")
	}
	return &h.alloc.slots[h.idx].value
}

// DerefMut borrows the slot's contents mutably. It is also used, before
// AssumeInit, to write the initial value of an uninit handle.
func (h *Handle[T]) DerefMut() *T {
	if h.state == stateFree {
		panic("slab: DerefMut on a released handle")
	}
	return &h.alloc.slots[h.idx].value
}

// ReleaseWithDrop returns the slot to the allocator's free list and clears
// its contents to T's zero value. Use this when the value itself is being
// discarded (not read out or moved elsewhere).
func (h *Handle[T]) ReleaseWithDrop() {
	h.requireLiveOrUninit("ReleaseWithDrop")
	h.alloc.release(h.idx)
	h.state = stateFree
}

// ReleaseForget returns the slot to the allocator's free list without
// touching its contents. Use this only when the contents have already been
// moved out by some other path (e.g. copied into a sibling record during a
// rotation); releasing with drop afterward would be a double consumption
// of the same value.
func (h *Handle[T]) ReleaseForget() {
	h.requireLiveOrUninit("ReleaseForget")
	h.alloc.slots[h.idx].state = stateFree
	h.alloc.slots[h.idx].next = h.alloc.freeHead
	h.alloc.freeHead = h.idx
	h.alloc.free++
	h.state = stateFree
}

// ReleaseMove reads the slot's contents out, clears the slot, and returns it
// to the free list, handing the caller the value in one step.
func (h *Handle[T]) ReleaseMove() T {
	h.requireLiveOrUninit("ReleaseMove")
	v := h.alloc.slots[h.idx].value
	h.alloc.release(h.idx)
	h.state = stateFree
	return v
}

func (h *Handle[T]) requireLiveOrUninit(op string) {
	if h.state == stateFree {
		panic("slab: " + op + " on an already-released handle")
	}
}
