// pkg/cache/memory_budget.go
package cache

import "sync"

// DefaultMemoryLimit is the default memory budget (256MB)
const DefaultMemoryLimit = int64(256 * 1024 * 1024)

// MemoryBudget tracks memory usage across components against a limit; it
// does not refuse usage past the limit, IsExceeded only reports it.
// This is the byte-accounting slice of the teacher's page-cache budget type:
// the priority/eviction/pressure-callback machinery that exists to decide
// what to evict from a page cache has nothing to evict here (pkg/arena
// chunks live until the tree that owns them is closed), so it is not carried.
type MemoryBudget struct {
	mu             sync.RWMutex
	limit          int64
	totalUsage     int64
	componentUsage map[string]int64
}

// NewMemoryBudget creates a new memory budget with the specified limit.
// If limit is 0 or negative, DefaultMemoryLimit is used.
func NewMemoryBudget(limit int64) *MemoryBudget {
	if limit <= 0 {
		limit = DefaultMemoryLimit
	}

	return &MemoryBudget{
		limit:          limit,
		componentUsage: make(map[string]int64),
	}
}

// Limit returns the current memory limit.
func (mb *MemoryBudget) Limit() int64 {
	mb.mu.RLock()
	defer mb.mu.RUnlock()
	return mb.limit
}

// RegisterComponent registers a component for memory tracking.
func (mb *MemoryBudget) RegisterComponent(name string) {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	if _, exists := mb.componentUsage[name]; !exists {
		mb.componentUsage[name] = 0
	}
}

// Track adds memory usage for a component.
func (mb *MemoryBudget) Track(component string, bytes int64) {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	mb.componentUsage[component] += bytes
	mb.totalUsage += bytes
}

// Release removes memory usage for a component.
func (mb *MemoryBudget) Release(component string, bytes int64) {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	usage := mb.componentUsage[component]
	if bytes > usage {
		bytes = usage
	}

	mb.componentUsage[component] -= bytes
	mb.totalUsage -= bytes
	if mb.totalUsage < 0 {
		mb.totalUsage = 0
	}
}

// TotalUsage returns the total memory usage across all components.
func (mb *MemoryBudget) TotalUsage() int64 {
	mb.mu.RLock()
	defer mb.mu.RUnlock()
	return mb.totalUsage
}

// ComponentUsage returns the memory usage for a specific component.
func (mb *MemoryBudget) ComponentUsage(component string) int64 {
	mb.mu.RLock()
	defer mb.mu.RUnlock()
	return mb.componentUsage[component]
}

// IsExceeded returns true if memory usage exceeds the limit.
func (mb *MemoryBudget) IsExceeded() bool {
	mb.mu.RLock()
	defer mb.mu.RUnlock()
	return mb.totalUsage > mb.limit
}
