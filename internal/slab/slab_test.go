package slab

import "testing"

func TestAllocator_AddChunkTooSmall(t *testing.T) {
	a := NewAllocator[int](Options{SlotSize: 64})
	if err := a.AddChunk(make([]byte, 10)); err != ErrChunkTooSmall {
		t.Fatalf("AddChunk(small) = %v, want ErrChunkTooSmall", err)
	}
}

func TestAllocator_AddChunkPartitionsSlots(t *testing.T) {
	a := NewAllocator[int](Options{SlotSize: 32})
	if err := a.AddChunk(make([]byte, 320)); err != nil {
		t.Fatalf("AddChunk: %v", err)
	}
	if got, want := a.Cap(), 10; got != want {
		t.Fatalf("Cap() = %d, want %d", got, want)
	}
	if got, want := a.Live(), 0; got != want {
		t.Fatalf("Live() = %d, want %d", got, want)
	}
}

func TestAllocator_NeedsMoreChunks(t *testing.T) {
	a := NewAllocator[int](Options{SlotSize: 8})
	if !a.NeedsMoreChunks() {
		t.Fatal("empty allocator should need more chunks")
	}
	if err := a.AddChunk(make([]byte, 8*100)); err != nil {
		t.Fatalf("AddChunk: %v", err)
	}
	if a.NeedsMoreChunks() {
		t.Fatal("allocator with 100 free slots should not need more chunks")
	}
	for i := 0; i < 37; i++ {
		if _, ok := a.Emplace(i); !ok {
			t.Fatalf("Emplace %d failed", i)
		}
	}
	if !a.NeedsMoreChunks() {
		t.Fatal("allocator with 63 free slots should need more chunks")
	}
}

func TestHandle_EmplaceAndDeref(t *testing.T) {
	a := NewAllocator[string](Options{SlotSize: 16})
	if err := a.AddChunk(make([]byte, 16*4)); err != nil {
		t.Fatalf("AddChunk: %v", err)
	}
	h, ok := a.Emplace("hello")
	if !ok {
		t.Fatal("Emplace failed")
	}
	if got := *h.Deref(); got != "hello" {
		t.Fatalf("Deref() = %q, want %q", got, "hello")
	}
	*h.DerefMut() = "world"
	if got := *h.Deref(); got != "world" {
		t.Fatalf("Deref() after DerefMut = %q, want %q", got, "world")
	}
	if got := h.ReleaseMove(); got != "world" {
		t.Fatalf("ReleaseMove() = %q, want %q", got, "world")
	}
	if got, want := a.Live(), 0; got != want {
		t.Fatalf("Live() after release = %d, want %d", got, want)
	}
}

func TestHandle_UninitAssumeInit(t *testing.T) {
	a := NewAllocator[int](Options{SlotSize: 8})
	if err := a.AddChunk(make([]byte, 8*4)); err != nil {
		t.Fatalf("AddChunk: %v", err)
	}
	h, ok := a.UninitAllocate()
	if !ok {
		t.Fatal("UninitAllocate failed")
	}
	*h.DerefMut() = 42
	h.AssumeInit()
	if got := *h.Deref(); got != 42 {
		t.Fatalf("Deref() = %d, want 42", got)
	}
	h.ReleaseForget()
}

func TestHandle_DoubleReleasePanics(t *testing.T) {
	a := NewAllocator[int](Options{SlotSize: 8})
	_ = a.AddChunk(make([]byte, 8*4))
	h, _ := a.Emplace(7)
	h.ReleaseWithDrop()
	defer func() {
		if recover() == nil {
			t.Fatal("second release should have panicked")
		}
	}()
	h.ReleaseWithDrop()
}

func TestHandle_DerefAfterReleasePanics(t *testing.T) {
	a := NewAllocator[int](Options{SlotSize: 8})
	_ = a.AddChunk(make([]byte, 8*4))
	h, _ := a.Emplace(7)
	h.ReleaseForget()
	defer func() {
		if recover() == nil {
			t.Fatal("Deref after release should have panicked")
		}
	}()
	h.Deref()
}

func TestAllocator_FreeListReusesSlots(t *testing.T) {
	a := NewAllocator[int](Options{SlotSize: 8})
	_ = a.AddChunk(make([]byte, 8*2))
	h1, _ := a.Emplace(1)
	h2, _ := a.Emplace(2)
	if _, ok := a.Emplace(3); ok {
		t.Fatal("allocator should be exhausted with cap=2 and 2 live slots")
	}
	h1.ReleaseForget()
	h3, ok := a.Emplace(3)
	if !ok {
		t.Fatal("Emplace after release should succeed")
	}
	if got := *h3.Deref(); got != 3 {
		t.Fatalf("Deref() = %d, want 3", got)
	}
	h2.ReleaseForget()
	h3.ReleaseForget()
}
