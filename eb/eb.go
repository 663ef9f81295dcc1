// Package eb implements scalar multiplication on binary elliptic curves
// y^2 + xy = x^3 + a*x^2 + b over GF(2^m), points held in López-Dahab
// projective coordinates (X,Y,Z) with affine (x,y) = (X/Z, Y/Z^2) and
// infinity encoded by Z = 0 (§4.5).
//
// The doubling and mixed-addition formulas are the standard López-Dahab
// projective formulas (Hankerson/Menezes/Vanstone, "Guide to Elliptic
// Curve Cryptography", Algorithms 3.25/3.26) rather than anything lifted
// from the teacher (whose group.go only ever implements secp256k1's prime
// field curve) — package ep's Jacobian arithmetic is the structural model
// this package generalizes to López-Dahab form, per SPEC_FULL.md.
package eb

import (
	"github.com/go-relic/core/bn"
	"github.com/go-relic/core/fb"
	"github.com/go-relic/core/relicerr"
)

// Params describes a binary curve y^2+xy=x^3+a*x^2+b over GF(2^m). Mu is
// the Koblitz Frobenius sign (+1 or -1); it is 0 for non-Koblitz curves,
// in which case MulTauNAF is unavailable.
type Params struct {
	Poly *fb.Poly
	A    *fb.Elem
	B    *fb.Elem
	Gx   *fb.Elem
	Gy   *fb.Elem
	N    *bn.Int
	Mu   int8
}

// Point is a binary-curve point in López-Dahab coordinates.
type Point struct {
	X, Y, Z *fb.Elem
	ZIsOne  bool
	params  *Params
}

func Infinity(p *Params) *Point {
	return &Point{X: fb.New(p.Poly), Y: fb.One(p.Poly), Z: fb.New(p.Poly), ZIsOne: false, params: p}
}

func Generator(p *Params) *Point {
	return &Point{X: p.Gx.Clone(), Y: p.Gy.Clone(), Z: fb.One(p.Poly), ZIsOne: true, params: p}
}

func FromAffine(p *Params, x, y *fb.Elem) *Point {
	return &Point{X: x.Clone(), Y: y.Clone(), Z: fb.One(p.Poly), ZIsOne: true, params: p}
}

func (pt *Point) IsInfinity() bool { return pt.Z.IsZero() }

func (pt *Point) Clone() *Point {
	return &Point{X: pt.X.Clone(), Y: pt.Y.Clone(), Z: pt.Z.Clone(), ZIsOne: pt.ZIsOne, params: pt.params}
}

// Normalize converts pt to affine-equivalent LD form (Z=1) in place.
func (pt *Point) Normalize() *Point {
	if pt.IsInfinity() || pt.ZIsOne {
		return pt
	}
	poly := pt.params.Poly
	zInv := fb.New(poly)
	if err := zInv.Inv(pt.Z); err != nil {
		panic(relicerr.Wrapf(relicerr.Internal, err, "eb: normalize of a point with non-invertible Z"))
	}
	zInv2 := fb.New(poly).Sqr(zInv)
	pt.X = fb.New(poly).Mul(pt.X, zInv)
	pt.Y = fb.New(poly).Mul(pt.Y, zInv2)
	pt.Z = fb.One(poly)
	pt.ZIsOne = true
	return pt
}

// IsOnCurve reports whether pt satisfies y^2+xy = x^3+a*x^2+b in affine
// coordinates.
func (pt *Point) IsOnCurve() bool {
	if pt.IsInfinity() {
		return true
	}
	q := pt.Clone().Normalize()
	poly := pt.params.Poly
	lhs := fb.New(poly).Sqr(q.Y)
	xy := fb.New(poly).Mul(q.X, q.Y)
	lhs = fb.New(poly).Add(lhs, xy)

	x2 := fb.New(poly).Sqr(q.X)
	x3 := fb.New(poly).Mul(x2, q.X)
	ax2 := fb.New(poly).Mul(pt.params.A, x2)
	rhs := fb.New(poly).Add(x3, ax2)
	rhs = fb.New(poly).Add(rhs, pt.params.B)
	return lhs.Equal(rhs)
}

func (pt *Point) Equal(o *Point) bool {
	if pt.IsInfinity() && o.IsInfinity() {
		return true
	}
	if pt.IsInfinity() || o.IsInfinity() {
		return false
	}
	a := pt.Clone().Normalize()
	b := o.Clone().Normalize()
	return a.X.Equal(b.X) && a.Y.Equal(b.Y)
}

// Negate returns -pt = (x, x+y) in affine terms; in López-Dahab
// coordinates with shared Z this is (X, X*Z+Y, Z).
func (pt *Point) Negate() *Point {
	if pt.IsInfinity() {
		return pt.Clone()
	}
	poly := pt.params.Poly
	xz := fb.New(poly).Mul(pt.X, pt.Z)
	y := fb.New(poly).Add(xz, pt.Y)
	return &Point{X: pt.X.Clone(), Y: y, Z: pt.Z.Clone(), ZIsOne: pt.ZIsOne, params: pt.params}
}

// Dbl computes 2*pt via the standard López-Dahab projective doubling
// formula: Z3 = X1^2*Z1^2; X3 = X1^4 + b*Z1^4; Y3 = b*Z1^4*Z3 +
// X3*(a*Z3 + Y1^2 + b*Z1^4).
func (pt *Point) Dbl() *Point {
	if pt.IsInfinity() {
		return pt.Clone()
	}
	poly := pt.params.Poly
	x1z1 := fb.New(poly).Mul(pt.X, pt.Z)
	z3 := fb.New(poly).Sqr(x1z1)

	x1sq := fb.New(poly).Sqr(pt.X)
	x1_4 := fb.New(poly).Sqr(x1sq)
	z1sq := fb.New(poly).Sqr(pt.Z)
	z1_4 := fb.New(poly).Sqr(z1sq)
	bz14 := fb.New(poly).Mul(pt.params.B, z1_4)
	x3 := fb.New(poly).Add(x1_4, bz14)

	if x3.IsZero() {
		return Infinity(pt.params)
	}

	y1sq := fb.New(poly).Sqr(pt.Y)
	az3 := fb.New(poly).Mul(pt.params.A, z3)
	inner := fb.New(poly).Add(az3, y1sq)
	inner = fb.New(poly).Add(inner, bz14)
	term := fb.New(poly).Mul(x3, inner)
	bz14z3 := fb.New(poly).Mul(bz14, z3)
	y3 := fb.New(poly).Add(bz14z3, term)

	return &Point{X: x3, Y: y3, Z: z3, ZIsOne: false, params: pt.params}
}

// addMixed computes pt+aff where aff is an affine (Z=1) point, via the
// López-Dahab mixed-coordinate addition formula (Guide to ECC Alg 3.26):
// A = y2*Z1^2+Y1; B = x2*Z1+X1; C = Z1*B; D = B^2*(C+a*Z1^2);
// Z3 = C^2; E = A*C; X3 = A^2+D+E; F = X3+x2*Z3;
// G = (x2+y2)*Z3^2; Y3 = (E+Z3)*F+G.
func (pt *Point) addMixed(aff *Point) *Point {
	poly := pt.params.Poly
	z1sq := fb.New(poly).Sqr(pt.Z)
	a := fb.New(poly).Mul(aff.Y, z1sq)
	a = fb.New(poly).Add(a, pt.Y)
	b := fb.New(poly).Mul(aff.X, pt.Z)
	b = fb.New(poly).Add(b, pt.X)
	c := fb.New(poly).Mul(pt.Z, b)
	az1sq := fb.New(poly).Mul(pt.params.A, z1sq)
	cPlusAz1sq := fb.New(poly).Add(c, az1sq)
	bsq := fb.New(poly).Sqr(b)
	d := fb.New(poly).Mul(bsq, cPlusAz1sq)

	z3 := fb.New(poly).Sqr(c)

	if z3.IsZero() {
		if a.IsZero() {
			return pt.Dbl()
		}
		return Infinity(pt.params)
	}

	e := fb.New(poly).Mul(a, c)
	asq := fb.New(poly).Sqr(a)
	x3 := fb.New(poly).Add(asq, d)
	x3 = fb.New(poly).Add(x3, e)

	f := fb.New(poly).Mul(aff.X, z3)
	f = fb.New(poly).Add(f, x3)

	xPlusY := fb.New(poly).Add(aff.X, aff.Y)
	z3sq := fb.New(poly).Sqr(z3)
	g := fb.New(poly).Mul(xPlusY, z3sq)

	ePlusZ3 := fb.New(poly).Add(e, z3)
	y3 := fb.New(poly).Mul(ePlusZ3, f)
	y3 = fb.New(poly).Add(y3, g)

	return &Point{X: x3, Y: y3, Z: z3, ZIsOne: false, params: pt.params}
}

// Add computes pt+o. General projective addition is reduced to the
// mixed-coordinate formula by normalizing o first, trading the extra
// field inversion Algorithm 3.27's fully projective form would avoid for
// the simpler, better-grounded Algorithm 3.26; see DESIGN.md.
func (pt *Point) Add(o *Point) *Point {
	if pt.IsInfinity() {
		return o.Clone()
	}
	if o.IsInfinity() {
		return pt.Clone()
	}
	aff := o.Clone().Normalize()
	return pt.addMixed(aff)
}

// Frobenius applies the field automorphism phi(x,y) = (x^2, y^2), the
// Koblitz-curve endomorphism satisfying phi^2 + 2 = mu*phi (§4.5).
func (pt *Point) Frobenius() *Point {
	poly := pt.params.Poly
	return &Point{
		X:      fb.New(poly).Sqr(pt.X),
		Y:      fb.New(poly).Sqr(pt.Y),
		Z:      fb.New(poly).Sqr(pt.Z),
		ZIsOne: pt.ZIsOne,
		params: pt.params,
	}
}

// CMov sets pt to o when flag is 1, else leaves pt unchanged, touching
// every limb of every coordinate regardless (§4.6).
func (pt *Point) CMov(o *Point, flag int) {
	pt.X.CMov(o.X, flag)
	pt.Y.CMov(o.Y, flag)
	pt.Z.CMov(o.Z, flag)
	if flag&1 == 1 {
		pt.ZIsOne = o.ZIsOne
	}
}

// Halve computes R such that 2*R = pt, the inverse of Dbl (§4.5). Given
// affine pt=(x4,y4), doubling's lambda2 = x2+y2/x2 satisfies
// x4 = lambda2^2+lambda2+a; Halve solves that quadratic for lambda2 via
// HalfTrace, selects the root with Tr(lambda2)=Tr(a) (the root that
// corresponds to an actual curve point, per Guide to ECC section 3.11's
// halving algorithm), then recovers x2 = sqrt(y4+(lambda2+1)*x4) and
// y2 = x2*lambda2+x2^2.
func (pt *Point) Halve() *Point {
	if pt.IsInfinity() {
		return pt.Clone()
	}
	aff := pt.Clone().Normalize()
	poly := pt.params.Poly
	a := pt.params.A
	x4, y4 := aff.X, aff.Y

	c := fb.New(poly).Add(x4, a)
	lam := fb.New(poly).HalfTrace(c)
	if lam.Trace() != a.Trace() {
		lam = fb.New(poly).Add(lam, fb.One(poly))
	}
	lamPlus1 := fb.New(poly).Add(lam, fb.One(poly))
	t := fb.New(poly).Mul(lamPlus1, x4)
	t = fb.New(poly).Add(t, y4)
	x2 := fb.New(poly).Sqrt(t)

	x2lam := fb.New(poly).Mul(x2, lam)
	x2sq := fb.New(poly).Sqr(x2)
	y2 := fb.New(poly).Add(x2lam, x2sq)

	return FromAffine(pt.params, x2, y2)
}
