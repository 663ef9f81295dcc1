// Package ep implements scalar multiplication on elliptic curves over a
// prime field GF(p): y^2 = x^3 + a*x + b, points represented in Jacobian
// coordinates (X,Y,Z) with affine (x,y) = (X/Z^2, Y/Z^3) and infinity
// encoded by Z = 0 (§4.4).
//
// The point representation and the doubling/addition formulas are adapted
// from the teacher's hardcoded secp256k1 GroupElementJacobian arithmetic
// (group.go's double/addVar, themselves ported from libsecp256k1), widened
// here from the a=0 special case to a general Weierstrass curve parameter a
// (doubling's S/M/T/Z3 four-register form below is the standard a-aware
// variant of the same double-and-add structure the teacher uses for a=0).
package ep

import (
	"github.com/go-relic/core/bn"
	"github.com/go-relic/core/fp"
	"github.com/go-relic/core/relicerr"
)

// Params describes the domain parameters of a curve y^2 = x^3 + a*x + b
// over GF(p), plus its generator and group order. GLV fields are optional:
// when Lambda/Beta are set the curve carries an efficient endomorphism
// (x,y) -> (beta*x, y) of eigenvalue lambda, enabling MulGLV.
type Params struct {
	Mod *fp.Modulus
	A   *fp.Elem
	B   *fp.Elem
	Gx  *fp.Elem
	Gy  *fp.Elem
	N   *bn.Int // group order

	Lambda *bn.Int // GLV: scalar-space eigenvalue of the endomorphism
	Beta   *fp.Elem
}

// Point is a curve point in Jacobian coordinates. ZIsOne records whether Z
// is the field's multiplicative identity, the "normalized" flag of §4.4;
// infinity is Z == 0.
type Point struct {
	X, Y, Z *fp.Elem
	ZIsOne  bool
	params  *Params
}

// Infinity returns the point at infinity for the given parameters.
func Infinity(p *Params) *Point {
	return &Point{
		X:      fp.New(p.Mod),
		Y:      fp.New(p.Mod).SetUint64(p.Mod, 1),
		Z:      fp.New(p.Mod),
		ZIsOne: false,
		params: p,
	}
}

// Generator returns the curve's base point in normalized (Z=1) form.
func Generator(p *Params) *Point {
	return &Point{
		X:      p.Gx.Clone(),
		Y:      p.Gy.Clone(),
		Z:      fp.New(p.Mod).SetUint64(p.Mod, 1),
		ZIsOne: true,
		params: p,
	}
}

// FromAffine builds a normalized point from affine coordinates.
func FromAffine(p *Params, x, y *fp.Elem) *Point {
	return &Point{X: x.Clone(), Y: y.Clone(), Z: fp.New(p.Mod).SetUint64(p.Mod, 1), ZIsOne: true, params: p}
}

func (pt *Point) IsInfinity() bool { return pt.Z.IsZero() }

func (pt *Point) Clone() *Point {
	return &Point{X: pt.X.Clone(), Y: pt.Y.Clone(), Z: pt.Z.Clone(), ZIsOne: pt.ZIsOne, params: pt.params}
}

// Normalize converts pt to affine-equivalent Jacobian form (Z=1) in place.
// The point at infinity is left unchanged.
func (pt *Point) Normalize() *Point {
	if pt.IsInfinity() || pt.ZIsOne {
		return pt
	}
	mod := pt.params.Mod
	zInv := fp.New(mod)
	if err := zInv.Inv(pt.Z); err != nil {
		// pt.Z is guaranteed non-zero by the IsInfinity check above; an
		// error here means the representation invariant was broken
		// upstream.
		panic(relicerr.Wrapf(relicerr.Internal, err, "ep: normalize of a point with non-invertible Z"))
	}
	z2 := fp.New(mod).Sqr(zInv)
	z3 := fp.New(mod).Mul(z2, zInv)
	pt.X = fp.New(mod).Mul(pt.X, z2)
	pt.Y = fp.New(mod).Mul(pt.Y, z3)
	pt.Z = fp.New(mod).SetUint64(mod, 1)
	pt.ZIsOne = true
	return pt
}

// IsOnCurve reports whether pt satisfies y^2 = x^3 + a*x + b after
// normalizing to affine coordinates.
func (pt *Point) IsOnCurve() bool {
	if pt.IsInfinity() {
		return true
	}
	q := pt.Clone().Normalize()
	mod := pt.params.Mod
	lhs := fp.New(mod).Sqr(q.Y)
	x2 := fp.New(mod).Sqr(q.X)
	x3 := fp.New(mod).Mul(x2, q.X)
	ax := fp.New(mod).Mul(pt.params.A, q.X)
	rhs := fp.New(mod).Add(x3, ax)
	rhs = fp.New(mod).Add(rhs, pt.params.B)
	return lhs.Equal(rhs)
}

// Equal compares two points regardless of normalization.
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

// Negate returns -pt (mirror across the x axis).
func (pt *Point) Negate() *Point {
	if pt.IsInfinity() {
		return pt.Clone()
	}
	mod := pt.params.Mod
	neg := fp.New(mod).Neg(pt.Y)
	return &Point{X: pt.X.Clone(), Y: neg, Z: pt.Z.Clone(), ZIsOne: pt.ZIsOne, params: pt.params}
}

// Dbl computes 2*pt via the general-a Jacobian doubling formula
// ("dbl-2007-bl"): XX=X^2, YY=Y^2, YYYY=YY^2, ZZ=Z^2,
// S=2((X+YY)^2-XX-YYYY), M=3*XX+a*ZZ^2, T=M^2-2S,
// X3=T, Y3=M(S-T)-8*YYYY, Z3=(Y+Z)^2-YY-ZZ.
func (pt *Point) Dbl() *Point {
	if pt.IsInfinity() {
		return pt.Clone()
	}
	mod := pt.params.Mod
	xx := fp.New(mod).Sqr(pt.X)
	yy := fp.New(mod).Sqr(pt.Y)
	yyyy := fp.New(mod).Sqr(yy)
	zz := fp.New(mod).Sqr(pt.Z)

	xPlusYY := fp.New(mod).Add(pt.X, yy)
	s := fp.New(mod).Sqr(xPlusYY)
	s = fp.New(mod).Sub(s, xx)
	s = fp.New(mod).Sub(s, yyyy)
	s = fp.New(mod).Dbl(s)

	zz2 := fp.New(mod).Sqr(zz)
	aZZ2 := fp.New(mod).Mul(pt.params.A, zz2)
	m := fp.New(mod).Dbl(xx)
	m = fp.New(mod).Add(m, xx)
	m = fp.New(mod).Add(m, aZZ2)

	t := fp.New(mod).Sqr(m)
	twoS := fp.New(mod).Dbl(s)
	t = fp.New(mod).Sub(t, twoS)

	x3 := t
	sMinusT := fp.New(mod).Sub(s, t)
	y3 := fp.New(mod).Mul(m, sMinusT)
	eightYYYY := fp.New(mod).Dbl(yyyy)
	eightYYYY = fp.New(mod).Dbl(eightYYYY)
	eightYYYY = fp.New(mod).Dbl(eightYYYY)
	y3 = fp.New(mod).Sub(y3, eightYYYY)

	yPlusZ := fp.New(mod).Add(pt.Y, pt.Z)
	z3 := fp.New(mod).Sqr(yPlusZ)
	z3 = fp.New(mod).Sub(z3, yy)
	z3 = fp.New(mod).Sub(z3, zz)

	return &Point{X: x3, Y: y3, Z: z3, ZIsOne: false, params: pt.params}
}

// Add computes pt+o via the general "add-2007-bl" Jacobian formula, falling
// back to Dbl when the two points coincide and to infinity when they are
// mutual negatives (§4.4's tie-break rule).
func (pt *Point) Add(o *Point) *Point {
	if pt.IsInfinity() {
		return o.Clone()
	}
	if o.IsInfinity() {
		return pt.Clone()
	}
	mod := pt.params.Mod
	z1z1 := fp.New(mod).Sqr(pt.Z)
	z2z2 := fp.New(mod).Sqr(o.Z)
	u1 := fp.New(mod).Mul(pt.X, z2z2)
	u2 := fp.New(mod).Mul(o.X, z1z1)
	s1 := fp.New(mod).Mul(pt.Y, o.Z)
	s1 = fp.New(mod).Mul(s1, z2z2)
	s2 := fp.New(mod).Mul(o.Y, pt.Z)
	s2 = fp.New(mod).Mul(s2, z1z1)

	h := fp.New(mod).Sub(u2, u1)
	rr := fp.New(mod).Sub(s2, s1)

	if h.IsZero() {
		if rr.IsZero() {
			return pt.Dbl()
		}
		return Infinity(pt.params)
	}

	i := fp.New(mod).Dbl(h)
	i = fp.New(mod).Sqr(i)
	j := fp.New(mod).Mul(h, i)
	rr = fp.New(mod).Dbl(rr)
	v := fp.New(mod).Mul(u1, i)

	x3 := fp.New(mod).Sqr(rr)
	x3 = fp.New(mod).Sub(x3, j)
	twoV := fp.New(mod).Dbl(v)
	x3 = fp.New(mod).Sub(x3, twoV)

	vMinusX3 := fp.New(mod).Sub(v, x3)
	y3 := fp.New(mod).Mul(rr, vMinusX3)
	s1J := fp.New(mod).Mul(s1, j)
	s1J = fp.New(mod).Dbl(s1J)
	y3 = fp.New(mod).Sub(y3, s1J)

	zSum := fp.New(mod).Add(pt.Z, o.Z)
	z3 := fp.New(mod).Sqr(zSum)
	z3 = fp.New(mod).Sub(z3, z1z1)
	z3 = fp.New(mod).Sub(z3, z2z2)
	z3 = fp.New(mod).Mul(z3, h)

	return &Point{X: x3, Y: y3, Z: z3, ZIsOne: false, params: pt.params}
}

// CMov sets pt to o when flag is 1, else leaves pt unchanged, touching
// every limb of every coordinate regardless (§4.6 constant-time behavior).
func (pt *Point) CMov(o *Point, flag int) {
	pt.X.CMov(o.X, flag)
	pt.Y.CMov(o.Y, flag)
	pt.Z.CMov(o.Z, flag)
	if flag&1 == 1 {
		pt.ZIsOne = o.ZIsOne
	}
}
