// Package bn implements the multi-precision integer layer: variable-length
// signed magnitudes built on dv.Vec. It is the scalar and modular-reduction
// workhorse the fp and ep layers lean on, grounded on the schoolbook
// algorithms of a hand-rolled arbitrary-precision integer package (the
// bford nat.go reference kept in the retrieval pack) rather than math/big —
// the spec's data model requires an explicit sign-magnitude representation
// ("do not substitute two's-complement semantics because recoding depends
// on magnitude"), which math/big's internal nat type also follows but
// doesn't expose the way the recoders in this package need.
package bn

import (
	"math/bits"

	"github.com/go-relic/core/dv"
)

// Int is a sign-magnitude big integer: magnitude limbs, least-significant
// first, canonically trimmed (no leading zero limb unless the value is
// zero), plus an explicit sign. Sign is always +1 for zero.
type Int struct {
	mag dv.Vec
	neg bool
}

// Zero returns the integer 0.
func Zero() *Int { return &Int{} }

// FromUint64 builds an Int from a small unsigned value.
func FromUint64(v uint64) *Int {
	if v == 0 {
		return &Int{}
	}
	return &Int{mag: dv.Vec{v}}
}

// FromBytesBE builds a non-negative Int from a big-endian byte slice.
func FromBytesBE(b []byte) *Int {
	n := &Int{}
	n.mag = make(dv.Vec, (len(b)+7)/8)
	for i, bi := range b {
		limb := (len(b) - 1 - i) / 8
		shift := uint(((len(b) - 1 - i) % 8) * 8)
		n.mag[limb] |= uint64(bi) << shift
	}
	n.trim()
	return n
}

// BytesBE renders n's magnitude as a big-endian byte slice of the given
// width, left-padding with zero. The sign is discarded (callers needing
// signed serialization handle that above this layer, out of spec scope).
func (n *Int) BytesBE(width int) []byte {
	out := make([]byte, width)
	for i := 0; i < width; i++ {
		limb := i / 8
		shift := uint((i % 8) * 8)
		var v uint64
		if limb < len(n.mag) {
			v = n.mag[limb]
		}
		out[width-1-i] = byte(v >> shift)
	}
	return out
}

func (n *Int) trim() {
	m := n.mag
	l := len(m)
	for l > 0 && m[l-1] == 0 {
		l--
	}
	n.mag = m[:l]
	if l == 0 {
		n.neg = false
	}
}

// Sign returns -1, 0, +1.
func (n *Int) Sign() int {
	if len(n.mag) == 0 {
		return 0
	}
	if n.neg {
		return -1
	}
	return 1
}

// IsZero reports whether n is the additive identity.
func (n *Int) IsZero() bool { return len(n.mag) == 0 }

// IsEven reports whether n's magnitude is even.
func (n *Int) IsEven() bool { return len(n.mag) == 0 || n.mag[0]&1 == 0 }

// BitLen returns the bit length of n's magnitude.
func (n *Int) BitLen() int { return dv.BitLen(n.mag) }

// Bit returns bit i of n's magnitude.
func (n *Int) Bit(i int) int { return dv.Bit(n.mag, i) }

// Clone returns a deep copy of n.
func (n *Int) Clone() *Int {
	m := make(dv.Vec, len(n.mag))
	copy(m, n.mag)
	return &Int{mag: m, neg: n.neg}
}

// Neg returns -n.
func (n *Int) Neg() *Int {
	if n.IsZero() {
		return Zero()
	}
	r := n.Clone()
	r.neg = !r.neg
	return r
}

// CmpAbs compares |a| to |b|: -1, 0, +1.
func CmpAbs(a, b *Int) int {
	la, lb := len(a.mag), len(b.mag)
	if la != lb {
		if la < lb {
			return -1
		}
		return 1
	}
	return dv.Cmp(a.mag, b.mag)
}

// Cmp compares a to b respecting sign.
func Cmp(a, b *Int) int {
	switch {
	case a.Sign() != b.Sign():
		if a.Sign() < b.Sign() {
			return -1
		}
		return 1
	case a.Sign() >= 0:
		return CmpAbs(a, b)
	default:
		return -CmpAbs(a, b)
	}
}

func addMag(x, y dv.Vec) dv.Vec {
	n := len(x)
	if len(y) > n {
		n = len(y)
	}
	z := make(dv.Vec, n+1)
	var carry uint64
	for i := 0; i < n; i++ {
		var xi, yi uint64
		if i < len(x) {
			xi = x[i]
		}
		if i < len(y) {
			yi = y[i]
		}
		z[i], carry = bits.Add64(xi, yi, carry)
	}
	z[n] = carry
	return z
}

// subMag computes x-y assuming x>=y in magnitude.
func subMag(x, y dv.Vec) dv.Vec {
	z := make(dv.Vec, len(x))
	var borrow uint64
	for i := range x {
		var yi uint64
		if i < len(y) {
			yi = y[i]
		}
		z[i], borrow = bits.Sub64(x[i], yi, borrow)
	}
	return z
}

// Add returns a+b.
func Add(a, b *Int) *Int {
	if a.neg == b.neg {
		r := &Int{mag: addMag(a.mag, b.mag), neg: a.neg}
		r.trim()
		return r
	}
	// opposite signs: subtract the smaller magnitude from the larger.
	if CmpAbs(a, b) >= 0 {
		r := &Int{mag: subMag(a.mag, b.mag), neg: a.neg}
		r.trim()
		return r
	}
	r := &Int{mag: subMag(b.mag, a.mag), neg: b.neg}
	r.trim()
	return r
}

// Sub returns a-b.
func Sub(a, b *Int) *Int { return Add(a, b.Neg()) }

// basicMul computes the schoolbook product of two magnitudes.
func basicMul(x, y dv.Vec) dv.Vec {
	if len(x) == 0 || len(y) == 0 {
		return nil
	}
	z := make(dv.Vec, len(x)+len(y))
	for i, xi := range x {
		if xi == 0 {
			continue
		}
		var carry uint64
		for j, yj := range y {
			hi, lo := bits.Mul64(xi, yj)
			var c0, c1 uint64
			lo, c0 = bits.Add64(lo, z[i+j], 0)
			hi, c1 = bits.Add64(hi, 0, c0)
			lo, c0 = bits.Add64(lo, carry, 0)
			hi, _ = bits.Add64(hi, c1, c0)
			z[i+j] = lo
			carry = hi
		}
		z[i+len(y)] += carry
	}
	return z
}

// Mul returns a*b.
func Mul(a, b *Int) *Int {
	r := &Int{mag: basicMul(a.mag, b.mag), neg: a.neg != b.neg}
	r.trim()
	return r
}

// Sqr returns a*a.
func Sqr(a *Int) *Int { return Mul(a, a) }

// shl shifts a magnitude left by s bits (a shift by whole limbs only,
// s%64 == 0, is a plain copy; otherwise whole-limb + sub-limb shift).
func shlMag(x dv.Vec, s uint) dv.Vec {
	if len(x) == 0 {
		return nil
	}
	limbs, bitsh := int(s/64), s%64
	z := make(dv.Vec, len(x)+limbs+1)
	if bitsh == 0 {
		copy(z[limbs:], x)
		return z
	}
	var carry uint64
	for i, xi := range x {
		z[i+limbs] = (xi << bitsh) | carry
		carry = xi >> (64 - bitsh)
	}
	z[len(x)+limbs] = carry
	return z
}

// Lsh returns a<<s.
func Lsh(a *Int, s uint) *Int {
	r := &Int{mag: shlMag(a.mag, s), neg: a.neg}
	r.trim()
	return r
}

// Rsh returns a>>s (arithmetic on the magnitude; sign is preserved, so a
// negative a is rounded toward zero rather than floored).
func Rsh(a *Int, s uint) *Int {
	limbs, bitsh := int(s/64), s%64
	if limbs >= len(a.mag) {
		return Zero()
	}
	src := a.mag[limbs:]
	z := make(dv.Vec, len(src))
	if bitsh == 0 {
		copy(z, src)
	} else {
		for i := range src {
			z[i] = src[i] >> bitsh
			if i+1 < len(src) {
				z[i] |= src[i+1] << (64 - bitsh)
			}
		}
	}
	r := &Int{mag: z, neg: a.neg}
	r.trim()
	return r
}

// DivMod performs truncating division on magnitudes: returns (q, r) with
// a = q*b + r, 0 <= |r| < |b|, sign(r) = sign(a). b must be non-zero.
// Schoolbook long division, grounded on the bit-at-a-time shift-subtract
// method (adequate for the bit widths bn operates on; a Knuth Algorithm D
// variant is not needed at this layer's call sites, which reduce against
// fixed small-ish moduli rather than arbitrary huge divisors).
func DivMod(a, b *Int) (q, r *Int) {
	return DivModWithAlloc(a, b, dv.HeapAllocator{})
}

// DivModWithAlloc is DivMod's scratch-allocating twin: the quotient
// magnitude buffer, the widest scratch value in this routine, comes from
// alloc instead of a bare make(dv.Vec, ...). This lets a relic.Context
// route bn's division scratch through its configured Allocator (heap or
// arena) rather than always hitting the Go heap. DivMod itself is just
// this called with the default dv.HeapAllocator{}.
func DivModWithAlloc(a, b *Int, alloc dv.Allocator) (q, r *Int) {
	if b.IsZero() {
		panic("bn: division by zero")
	}
	if CmpAbs(a, b) < 0 {
		return Zero(), a.Clone()
	}
	qMag := dv.Vec(alloc.Alloc(len(a.mag)))
	rem := &Int{}
	for i := dv.BitLen(a.mag) - 1; i >= 0; i-- {
		rem = Lsh(rem, 1)
		if dv.Bit(a.mag, i) == 1 {
			rem.mag = addMag(rem.mag, dv.Vec{1})
			rem.trim()
		}
		if CmpAbs(rem, &Int{mag: b.mag}) >= 0 {
			rem = &Int{mag: subMag(rem.mag, b.mag)}
			rem.trim()
			qMag[i/64] |= 1 << uint(i%64)
		}
	}
	q = &Int{mag: qMag, neg: a.neg != b.neg}
	q.trim()
	r = &Int{mag: rem.mag, neg: a.neg}
	r.trim()
	return q, r
}

// Mod returns a reduced into [0, m) (Euclidean remainder, always
// non-negative), matching the canonical-residue invariant the fp layer
// relies on when entering Montgomery form.
func Mod(a, m *Int) *Int {
	return ModWithAlloc(a, m, dv.HeapAllocator{})
}

// ModWithAlloc is Mod's scratch-allocating twin, threading alloc through
// to DivModWithAlloc.
func ModWithAlloc(a, m *Int, alloc dv.Allocator) *Int {
	_, r := DivModWithAlloc(a, m, alloc)
	if r.Sign() < 0 {
		r = Add(r, m)
	}
	return r
}

// GCD returns the non-negative greatest common divisor of |a| and |b| via
// the binary (Stein's) algorithm, matching the shift-and-subtract structure
// the fb layer's binary inversion variants use over GF(2)[z] (§4.3.2/.3).
func GCD(a, b *Int) *Int {
	if a.IsZero() {
		return &Int{mag: append(dv.Vec{}, b.mag...)}
	}
	if b.IsZero() {
		return &Int{mag: append(dv.Vec{}, a.mag...)}
	}
	u := &Int{mag: append(dv.Vec{}, a.mag...)}
	v := &Int{mag: append(dv.Vec{}, b.mag...)}
	shift := uint(0)
	for u.IsEven() && v.IsEven() {
		u = Rsh(u, 1)
		v = Rsh(v, 1)
		shift++
	}
	for u.IsEven() {
		u = Rsh(u, 1)
	}
	for !v.IsZero() {
		for v.IsEven() {
			v = Rsh(v, 1)
		}
		if CmpAbs(u, v) > 0 {
			u, v = v, u
		}
		v = Sub(v, u)
	}
	return Lsh(u, shift)
}

// ExpMod computes base^exp mod m via left-to-right square-and-multiply.
// Used by fp's generic Fermat-inverse/exponentiation entry points (§4.2)
// when the modulus is not fixed at compile time, so no literal addition
// chain (the kind `github.com/mmcloughlin/addchain` would generate for a
// single hard-coded prime, see DESIGN.md) applies.
func ExpMod(base, exp, m *Int) *Int {
	result := FromUint64(1)
	b := Mod(base, m)
	for i := exp.BitLen() - 1; i >= 0; i-- {
		result = Mod(Mul(result, result), m)
		if exp.Bit(i) == 1 {
			result = Mod(Mul(result, b), m)
		}
	}
	return result
}
