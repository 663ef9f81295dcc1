// Package dv implements the digit-vector layer: fixed-width machine words
// and the zero/copy/compare primitives every higher layer (bn, fp, fb) is
// built from. It owns no allocation policy of its own — callers pass in the
// backing slice, whether it came from the heap or from an arena.Arena.
package dv

import "math/bits"

// Digit is the native limb width used throughout the core. The teacher this
// port is grounded on (a 5x52/4x64-limb secp256k1 implementation) fixes its
// limb width at compile time the same way; we fix W=64 rather than carry a
// build-time W in {8,16,32,64} (see DESIGN.md).
type Digit = uint64

// DoubleDigit-width products never materialize as a named type in Go; every
// call site uses the two-return-value form of bits.Mul64/Add64 directly,
// matching how math/bits itself models a 2W-bit intermediate.
const Bits = bits.UintSize

// Vec is an ordered sequence of digits. Per the spec's "trailing-zero
// semantics", len(v) is a storage capacity, not a used-length — used-length
// is tracked by callers (bn.Int, fp.Elem, fb.Elem) because what counts as
// "used" differs: bn shrinks, fp/fb never do.
type Vec []Digit

// Zero clears every digit of v.
func Zero(v Vec) {
	for i := range v {
		v[i] = 0
	}
}

// Copy copies src into dst, zero-extending or truncating dst to its own
// length (dst is never resized).
func Copy(dst, src Vec) {
	n := copy(dst, src)
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
}

// IsZero reports whether every digit of v is zero.
func IsZero(v Vec) bool {
	var acc Digit
	for _, d := range v {
		acc |= d
	}
	return acc == 0
}

// Cmp performs an unsigned, non-constant-time comparison of a and b, which
// must have equal length. It returns -1, 0, +1.
func Cmp(a, b Vec) int {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != b[i] {
			if a[i] > b[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

// CmpConst performs the same comparison as Cmp but in constant time with
// respect to the digit values (branching only on loop bounds, which are a
// compile-time property of the fixed-width operands). Used by the §4.6
// constant-time scalar-mult/ladder paths.
func CmpConst(a, b Vec) int {
	var gt, lt Digit
	for i := len(a) - 1; i >= 0; i-- {
		ai, bi := a[i], b[i]
		gtMask := ^gt & ^lt & ctGT(ai, bi)
		ltMask := ^gt & ^lt & ctGT(bi, ai)
		gt |= gtMask
		lt |= ltMask
	}
	switch {
	case gt != 0:
		return 1
	case lt != 0:
		return -1
	default:
		return 0
	}
}

// ctGT returns ^Digit(0) if a>b, else 0, without branching on the values.
func ctGT(a, b Digit) Digit {
	_, borrow := bits.Sub64(a, b, 0)
	// a>b  <=>  NOT( a-b borrows )  AND  a != b
	diff := a ^ b
	nonZero := Digit(0)
	if diff != 0 {
		nonZero = ^Digit(0)
	}
	noBorrow := Digit(0)
	if borrow == 0 {
		noBorrow = ^Digit(0)
	}
	return nonZero & noBorrow
}

// CMov conditionally copies src into dst: dst = src if flag, else dst is
// unchanged. flag must be 0 or 1; the mask it expands to touches every limb
// so the operation's time and memory-access pattern are independent of
// flag's value, the shape required by the spec's §4.6 table-lookup rule.
func CMov(dst, src Vec, flag int) {
	mask := Digit(0) - Digit(uint64(flag)&1)
	for i := range dst {
		dst[i] ^= mask & (dst[i] ^ src[i])
	}
}

// BitLen returns the index of the most-significant set bit plus one, i.e.
// the "used length" in bits. Returns 0 for an all-zero vector.
func BitLen(v Vec) int {
	for i := len(v) - 1; i >= 0; i-- {
		if v[i] != 0 {
			return i*Bits + bits.Len64(v[i])
		}
	}
	return 0
}

// Bit returns bit i of v (0 or 1), treating bits beyond len(v)*Bits as 0.
func Bit(v Vec, i int) int {
	word, off := i/Bits, uint(i%Bits)
	if word >= len(v) {
		return 0
	}
	return int((v[word] >> off) & 1)
}

// Clear overwrites v with zero using a pattern that cannot be elided by the
// compiler, for scratch buffers that held secret material.
func Clear(v Vec) {
	for i := range v {
		v[i] = 0
	}
	// Touch the slice through a data-dependent no-op so a sufficiently
	// aggressive optimizer can't prove the store above is dead.
	if len(v) > 0 && v[0] == ^Digit(0) {
		v[0] = 0
	}
}
