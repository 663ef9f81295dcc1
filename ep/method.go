package ep

import (
	"github.com/go-relic/core/bn"
	"github.com/go-relic/core/dv"
)

// MulMethod selects a scalar-multiplication strategy for Mul (§4.4).
type MulMethod int

const (
	MethodBasic MulMethod = iota
	MethodWNAF
	MethodGLV
)

// DefaultWindowWidth is used by MethodWNAF/MethodGLV when the caller has
// no specific width preference.
const DefaultWindowWidth = 4

// Mul dispatches to the scalar-multiplication variant named by method,
// giving package relic's Context a single entry point instead of one
// call per variant.
func Mul(pt *Point, k *bn.Int, method MulMethod, w uint) (*Point, error) {
	return MulWithAlloc(pt, k, method, w, dv.HeapAllocator{})
}

// MulWithAlloc is Mul's scratch-allocating twin: methods that need scalar
// scratch (currently MethodGLV, via glvSplit's reductions mod N) source it
// from alloc, letting a relic.Context route this arithmetic through its
// configured Allocator instead of always hitting the Go heap.
func MulWithAlloc(pt *Point, k *bn.Int, method MulMethod, w uint, alloc dv.Allocator) (*Point, error) {
	if w == 0 {
		w = DefaultWindowWidth
	}
	switch method {
	case MethodBasic:
		return MulBasic(pt, k), nil
	case MethodWNAF:
		return MulWNAF(pt, k, w), nil
	case MethodGLV:
		return MulGLVWithAlloc(pt, k, w, alloc)
	default:
		return MulBasic(pt, k), nil
	}
}

// SimMethod selects a simultaneous-multiplication strategy for Simul.
type SimMethod int

const (
	SimMethodBasic SimMethod = iota
	SimMethodTrick
	SimMethodInterleave
	SimMethodJoint
)

// Simul dispatches to the simultaneous-multiplication variant named by
// method.
func Simul(p *Point, k *bn.Int, q *Point, l *bn.Int, method SimMethod, w uint) *Point {
	if w == 0 {
		w = DefaultWindowWidth
	}
	switch method {
	case SimMethodTrick:
		return SimTrick(p, k, q, l, w)
	case SimMethodInterleave:
		return SimInterleave(p, k, q, l, w)
	case SimMethodJoint:
		return SimJoint(p, k, q, l)
	default:
		return SimBasic(p, k, q, l)
	}
}
