package backend

import "sync"

// Arena stores resources under stable, non-zero ids. Ids are never reused, so a
// handle to a removed resource can never alias a newer one.
type Arena[T any] struct {
	mu    sync.RWMutex
	next  uint64
	items map[uint64]T
}

// NewArena creates an empty Arena.
//
// Returns:
//   - *Arena[T]: the new arena
func NewArena[T any]() *Arena[T] {
	return &Arena[T]{items: make(map[uint64]T)}
}

// Insert stores v and returns its id.
//
// Parameters:
//   - v: the resource to store
//
// Returns:
//   - uint64: the id of the stored resource, never 0
func (a *Arena[T]) Insert(v T) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.next++
	a.items[a.next] = v
	return a.next
}

// Get returns the resource stored under id.
//
// Parameters:
//   - id: the resource id
//
// Returns:
//   - T: the resource, or the zero value if absent
//   - bool: true if the id is live
func (a *Arena[T]) Get(id uint64) (T, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	v, ok := a.items[id]
	return v, ok
}

// Remove deletes the resource stored under id and returns it.
func (a *Arena[T]) Remove(id uint64) (T, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	v, ok := a.items[id]
	if ok {
		delete(a.items, id)
	}
	return v, ok
}

// Len returns the number of live resources.
func (a *Arena[T]) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.items)
}

// Each calls fn for every live resource. Iteration order is unspecified.
func (a *Arena[T]) Each(fn func(id uint64, v T)) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for id, v := range a.items {
		fn(id, v)
	}
}
