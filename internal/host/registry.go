package host

import (
	"sync"
)

// Handle is the opaque token the FFI layer hands across the boundary.
// The low 32 bits index the slot table, the high 32 bits carry a generation
// counter, so a stale handle from before a Free never aliases a new Core.
type Handle uint64

const nilHandle Handle = 0

type slot struct {
	core       *Core
	generation uint32
}

// Registry maps handles to Core instances. It is safe for concurrent use;
// operations on the Core itself serialize on the Core's own mutex.
type Registry struct {
	mu    sync.Mutex
	slots []slot
	free  []uint32
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	// slot 0 stays unused so the zero handle is never valid
	return &Registry{slots: make([]slot, 1)}
}

// Register stores core and returns its handle.
func (r *Registry) Register(core *Core) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	var idx uint32
	if n := len(r.free); n > 0 {
		idx = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		r.slots = append(r.slots, slot{})
		idx = uint32(len(r.slots) - 1)
	}
	r.slots[idx].core = core
	r.slots[idx].generation++
	return Handle(uint64(r.slots[idx].generation)<<32 | uint64(idx))
}

// Get resolves a handle, or nil for stale and invalid handles.
func (r *Registry) Get(h Handle) *Core {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := uint32(h)
	gen := uint32(h >> 32)
	if idx == 0 || int(idx) >= len(r.slots) {
		return nil
	}
	s := r.slots[idx]
	if s.core == nil || s.generation != gen {
		return nil
	}
	return s.core
}

// Free releases the handle's slot and returns the Core for teardown.
// Freeing a stale or invalid handle returns nil and changes nothing.
func (r *Registry) Free(h Handle) *Core {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := uint32(h)
	gen := uint32(h >> 32)
	if idx == 0 || int(idx) >= len(r.slots) {
		return nil
	}
	s := r.slots[idx]
	if s.core == nil || s.generation != gen {
		return nil
	}
	core := s.core
	r.slots[idx].core = nil
	r.free = append(r.free, idx)
	return core
}
