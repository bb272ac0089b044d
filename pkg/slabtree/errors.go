package slabtree

import "errors"

var (
	// ErrSlabExhausted is returned by Insert when a node or leaf slot is
	// needed but the allocator for that record kind has no free slot. The caller is
	// expected to have polled NeedsMoreChunks after the previous mutation;
	// see DESIGN.md for why this surfaces as an error rather than a process
	// abort.
	ErrSlabExhausted = errors.New("slabtree: slab exhausted, call AddChunk")

	// ErrDepthOverflow is returned if a tree's depth would exceed maxDepth.
	// Reaching it indicates a corrupted tree, not a legitimate workload.
	ErrDepthOverflow = errors.New("slabtree: depth overflow")

	// ErrChunkTooSmall is returned by AddChunk/New when a supplied chunk
	// cannot furnish even one node or leaf slot.
	ErrChunkTooSmall = errors.New("slabtree: chunk too small")
)
