package eb

import (
	"github.com/go-relic/core/bn"
	"github.com/go-relic/core/dv"
)

// MulMethod selects a scalar-multiplication strategy for Mul (§4.5).
type MulMethod int

const (
	MethodBasic MulMethod = iota
	MethodWNAF
	MethodLODAH
	MethodHalving
)

const DefaultWindowWidth = 4

// Mul dispatches to the scalar-multiplication variant named by method.
// MethodHalving requires params.N to carry the curve's (odd) group order.
func Mul(pt *Point, k *bn.Int, method MulMethod, w uint) (*Point, error) {
	return MulWithAlloc(pt, k, method, w, dv.HeapAllocator{})
}

// MulWithAlloc is Mul's scratch-allocating twin: MethodHalving's scalar
// rescale sources its scratch from alloc, letting a relic.Context route
// this arithmetic through its configured Allocator instead of always
// hitting the Go heap.
func MulWithAlloc(pt *Point, k *bn.Int, method MulMethod, w uint, alloc dv.Allocator) (*Point, error) {
	if w == 0 {
		w = DefaultWindowWidth
	}
	switch method {
	case MethodBasic:
		return MulBasic(pt, k), nil
	case MethodWNAF:
		return MulWNAF(pt, k, w), nil
	case MethodLODAH:
		return MulLODAH(pt, k), nil
	case MethodHalving:
		return MulHalvingWithAlloc(pt, k, alloc)
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
