package eb

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-relic/core/bn"
	"github.com/go-relic/core/fb"
)

// k283Poly returns the NIST K-283 Koblitz curve's reduction pentanomial,
// f(z) = z^283 + z^12 + z^7 + z^5 + 1 (shared with package fb's test
// fixture).
func k283Poly() *fb.Poly { return fb.NewPoly(283, 12, 7, 5) }

// findAffinePoint deterministically searches for an affine point on
// y^2+xy=x^3+a*x^2+b by the standard quadratic-solving substitution
// w=y/x: w^2+w = x+a+b/x^2, solvable by HalfTrace exactly when
// Tr(x+a+b/x^2)=0 (Guide to ECC section 3.3's point-decompression
// method, reused here to generate a test fixture that is correct by
// construction rather than a hand-copied literal).
func findAffinePoint(poly *fb.Poly, a, b *fb.Elem, r *rand.Rand) (*fb.Elem, *fb.Elem) {
	for {
		buf := make([]byte, (poly.M+7)/8)
		r.Read(buf)
		x := fb.FromBytesBE(poly, buf)
		if x.IsZero() {
			continue
		}
		x2 := fb.New(poly).Sqr(x)
		x2inv := fb.New(poly)
		if err := x2inv.Inv(x2); err != nil {
			continue
		}
		bOverX2 := fb.New(poly).Mul(b, x2inv)
		c := fb.New(poly).Add(x, a)
		c = fb.New(poly).Add(c, bOverX2)
		if c.Trace() != 0 {
			continue
		}
		w := fb.New(poly).HalfTrace(c)
		y := fb.New(poly).Mul(w, x)
		return x, y
	}
}

func k283Params(r *rand.Rand) (*Params, *fb.Elem, *fb.Elem) {
	poly := k283Poly()
	a := fb.New(poly)
	b := fb.One(poly)
	gx, gy := findAffinePoint(poly, a, b, r)
	return &Params{Poly: poly, A: a, B: b, Gx: gx, Gy: gy, N: bn.FromUint64(1), Mu: 1}, gx, gy
}

func TestFoundPointIsOnCurve(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	p, gx, gy := k283Params(r)
	g := FromAffine(p, gx, gy)
	require.True(t, g.IsOnCurve())
}

func TestDoubleMatchesAdd(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	p, gx, gy := k283Params(r)
	g := FromAffine(p, gx, gy)
	dbl := g.Dbl()
	add := g.Add(g)
	require.True(t, dbl.Equal(add))
	require.True(t, dbl.IsOnCurve())
}

func TestMulBasicMatchesRepeatedAdd(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	p, gx, gy := k283Params(r)
	g := FromAffine(p, gx, gy)
	for k := 1; k <= 16; k++ {
		got := MulBasic(g, bn.FromUint64(uint64(k)))
		want := Infinity(p)
		for i := 0; i < k; i++ {
			want = want.Add(g)
		}
		require.True(t, got.Equal(want), "k=%d", k)
		require.True(t, got.IsOnCurve())
	}
}

func TestMulWNAFMatchesBasic(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	p, gx, gy := k283Params(r)
	g := FromAffine(p, gx, gy)
	for i := 0; i < 20; i++ {
		kb := make([]byte, 4)
		r.Read(kb)
		k := bn.FromBytesBE(kb)
		basic := MulBasic(g, k)
		wnaf := MulWNAF(g, k, 4)
		require.True(t, basic.Equal(wnaf), "k=%v", k)
	}
}

func TestMulLODAHMatchesBasic(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	p, gx, gy := k283Params(r)
	g := FromAffine(p, gx, gy)
	for i := 0; i < 10; i++ {
		kb := make([]byte, 3)
		r.Read(kb)
		k := bn.FromBytesBE(kb)
		if k.IsZero() {
			continue
		}
		basic := MulBasic(g, k)
		lodah := MulLODAH(g, k)
		require.True(t, basic.Equal(lodah), "k=%v", k)
	}
}

// TestTauNAFReconstructsScalar is a self-verifying check of TauNAF's own
// algebraic invariant: it reconstructs r0 + r1*tau from the produced
// digit sequence via Horner's method using tau(a,b) = (-2b, a+mu*b)
// (derived from tau^2 = mu*tau - 2), rather than comparing against an
// external reference sequence.
func TestTauNAFReconstructsScalar(t *testing.T) {
	var mu int8 = 1
	cases := []struct{ r0, r1 int64 }{
		{5, 0}, {0, 3}, {7, -2}, {-11, 4}, {1, 1}, {100, -50},
	}
	for _, c := range cases {
		digits := TauNAF(c.r0, c.r1, mu, 5)
		// Horner reconstruction: acc starts at 0, and for each digit from
		// most to least significant, acc = tau(acc) + digit.
		var a0, a1 int64
		for i := len(digits) - 1; i >= 0; i-- {
			a0, a1 = tau(a0, a1, mu)
			a0 += int64(digits[i])
		}
		require.Equal(t, c.r0, a0, "r0 mismatch for case %+v", c)
		require.Equal(t, c.r1, a1, "r1 mismatch for case %+v", c)
	}
}

func TestMulTauNAFAgreesWithFrobenius(t *testing.T) {
	r := rand.New(rand.NewSource(6))
	p, gx, gy := k283Params(r)
	g := FromAffine(p, gx, gy)

	// phi(g) must equal g added mu+... actually verify phi is an
	// endomorphism: phi(P+Q) = phi(P)+phi(Q), and phi(g) is again on the
	// curve, which is what MulTauNAF's replacement of doublings by
	// Frobenius applications depends on.
	phi := g.Frobenius()
	require.True(t, phi.IsOnCurve())

	sum := g.Add(g.Dbl())
	phiSum := sum.Frobenius()
	phiG := g.Frobenius()
	phiDbl := g.Dbl().Frobenius()
	require.True(t, phiSum.Equal(phiG.Add(phiDbl)), "frobenius must be an endomorphism")

	// r0=1, r1=0 recodes to a single nonzero digit of value 1, so
	// MulTauNAF should return g unchanged.
	got, err := MulTauNAF(g, 1, 0, 4)
	require.NoError(t, err)
	require.True(t, got.Equal(g))
}

func TestScalarMulBoundaries(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	p, gx, gy := k283Params(r)
	g := FromAffine(p, gx, gy)

	zero := MulBasic(g, bn.Zero())
	require.True(t, zero.IsInfinity())

	one := MulBasic(g, bn.FromUint64(1))
	require.True(t, one.Equal(g))

	require.True(t, Infinity(p).Dbl().IsInfinity())
}

// tinyBinaryCurveParams builds a toy curve over GF(2^5) with the
// irreducible reduction trinomial z^5+z^2+1 (odd degree, as the
// HalfTrace step of findAffinePoint needs; not a hand-copied
// curve-specific constant).
// Its whole group is small enough to search exhaustively, which
// TestScalarMulOrderWraparound uses to discover a point's exact order by
// repeated addition rather than trusting a transcribed ~283-bit group
// order literal for K-283, which this package has no independently
// verified source for (see DESIGN.md).
func tinyBinaryCurveParams(r *rand.Rand) (*Params, *fb.Elem, *fb.Elem) {
	poly := fb.NewPoly(5, 2)
	a := fb.New(poly)
	b := fb.One(poly)
	gx, gy := findAffinePoint(poly, a, b, r)
	return &Params{Poly: poly, A: a, B: b, Mu: 1}, gx, gy
}

// pointOrder brute-forces the least n>=1 with n*g = infinity, by repeated
// addition. Only safe to call on curves small enough that this terminates
// quickly, such as tinyBinaryCurveParams's.
func pointOrder(t *testing.T, g *Point) *bn.Int {
	t.Helper()
	q := g.Clone()
	n := 1
	for !q.IsInfinity() {
		n++
		q = q.Add(g)
		if n > 64 {
			t.Fatalf("point order exceeds brute-force search bound")
		}
	}
	return bn.FromUint64(uint64(n))
}

// TestScalarMulOrderWraparound exercises the k=order and k=order-1
// boundary property (order*G = infinity, (order-1)*G = -G) that the
// K-283-sized TestScalarMulBoundaries cannot check directly without a
// trusted group-order literal: here the order is discovered by brute
// force on a tiny curve instead of assumed from a transcribed constant.
func TestScalarMulOrderWraparound(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	p, gx, gy := tinyBinaryCurveParams(r)
	g := FromAffine(p, gx, gy)

	order := pointOrder(t, g)

	atOrder := MulBasic(g, order)
	require.True(t, atOrder.IsInfinity(), "order*G must be the point at infinity")

	orderMinusOne := bn.Sub(order, bn.FromUint64(1))
	last := MulBasic(g, orderMinusOne)
	require.True(t, last.Equal(g.Negate()), "(order-1)*G must equal -G")
}

func TestAddNegationIsInfinity(t *testing.T) {
	r := rand.New(rand.NewSource(8))
	p, gx, gy := k283Params(r)
	g := FromAffine(p, gx, gy)
	neg := g.Negate()
	require.True(t, neg.IsOnCurve())
	sum := g.Add(neg)
	require.True(t, sum.IsInfinity())
}

func TestNormalizeIdempotent(t *testing.T) {
	r := rand.New(rand.NewSource(9))
	p, gx, gy := k283Params(r)
	g := FromAffine(p, gx, gy)
	q := g.Add(g).Add(g)
	q.Normalize()
	before := q.Clone()
	q.Normalize()
	require.True(t, q.Equal(before))
	require.True(t, q.ZIsOne)
}

// TestHalveInvertsDouble checks Halve as the algebraic inverse of Dbl
// directly, without depending on a trustworthy group order literal.
func TestHalveInvertsDouble(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	p, gx, gy := k283Params(r)
	g := FromAffine(p, gx, gy)

	dbl := g.Dbl()
	halved := dbl.Halve()
	require.True(t, halved.Equal(g), "halve(double(P)) must equal P")

	h := g.Halve()
	require.True(t, h.Dbl().Equal(g), "double(halve(P)) must equal P")
}

func TestSimultaneousVariantsAgree(t *testing.T) {
	r := rand.New(rand.NewSource(12))
	p, gx, gy := k283Params(r)
	g := FromAffine(p, gx, gy)
	q := MulBasic(g, bn.FromUint64(2))
	for i := 0; i < 10; i++ {
		kb, lb := make([]byte, 3), make([]byte, 3)
		r.Read(kb)
		r.Read(lb)
		k := bn.FromBytesBE(kb)
		l := bn.FromBytesBE(lb)

		basic := SimBasic(g, k, q, l)
		trick := SimTrick(g, k, q, l, 4)
		inter := SimInterleave(g, k, q, l, 4)
		joint := SimJoint(g, k, q, l)

		require.True(t, basic.Equal(trick), "trick mismatch k=%v l=%v", k, l)
		require.True(t, basic.Equal(inter), "interleave mismatch k=%v l=%v", k, l)
		require.True(t, basic.Equal(joint), "joint mismatch k=%v l=%v", k, l)
	}
}

func TestMulTauNAFNoEndomorphismFails(t *testing.T) {
	r := rand.New(rand.NewSource(10))
	p, gx, gy := k283Params(r)
	p.Mu = 0
	g := FromAffine(p, gx, gy)
	_, err := MulTauNAF(g, 1, 0, 4)
	require.Error(t, err)
}
