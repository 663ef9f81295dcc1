package relic

import "github.com/go-relic/core/dv"

// Allocator supplies scratch digit buffers to the arithmetic layers.
// A Context can be backed by either a bump Arena or the plain heap,
// selected at construction time (§5's "arena vs heap" design note).
// It is an alias for dv.Allocator, the interface bn/fp/fb actually
// consume, so a Context's configured allocator can be threaded straight
// down into their scratch-allocating call sites without a conversion.
type Allocator = dv.Allocator

// HeapAllocator allocates every buffer on the Go heap; Mark/Release are
// no-ops, leaving collection to the garbage collector.
type HeapAllocator = dv.HeapAllocator

// Arena is a bump allocator over a single backing slice, handing out
// successive sub-slices and reclaiming them in bulk via Release rather
// than one at a time, the way the teacher reuses scratch buffers across
// a hot loop instead of allocating fresh ones per call.
type Arena struct {
	buf    []uint64
	offset int
}

// NewArena allocates a backing array of the given digit capacity.
func NewArena(capacity int) *Arena {
	return &Arena{buf: make([]uint64, capacity)}
}

// Alloc hands out the next n digits of the arena, falling back to a
// fresh heap allocation when the arena is exhausted (so callers never
// have to size the arena exactly, only choose its performance envelope).
func (a *Arena) Alloc(n int) []uint64 {
	if a.offset+n > len(a.buf) {
		return make([]uint64, n)
	}
	s := a.buf[a.offset : a.offset+n : a.offset+n]
	for i := range s {
		s[i] = 0
	}
	a.offset += n
	return s
}

func (a *Arena) Mark() int { return a.offset }

func (a *Arena) Release(mark int) { a.offset = mark }

// Scope is a defer-based guard that releases everything allocated within
// its lifetime back to its Allocator, mirroring the teacher's pattern of
// scoping scratch state to a single call via deferred cleanup rather than
// requiring callers to track allocations by hand.
type Scope struct {
	alloc Allocator
	mark  int
}

// NewScope marks the allocator's current position; the caller should
// defer scope.Close().
func NewScope(alloc Allocator) *Scope {
	return &Scope{alloc: alloc, mark: alloc.Mark()}
}

// Close releases every allocation made since NewScope.
func (s *Scope) Close() { s.alloc.Release(s.mark) }
