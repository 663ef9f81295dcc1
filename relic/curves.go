package relic

import (
	"github.com/go-relic/core/bn"
	"github.com/go-relic/core/eb"
	"github.com/go-relic/core/ep"
	"github.com/go-relic/core/fb"
	"github.com/go-relic/core/fp"
)

// CurveID names one of the curves NewContext knows how to build, the
// runtime stand-in for the original build system's compile-time curve
// selection (§6, see DESIGN.md Open Question).
type CurveID int

const (
	// Secp256k1 is y^2 = x^3 + 7 over the secp256k1 prime field, domain
	// parameters taken from the teacher's own verified constants.
	Secp256k1 CurveID = iota
	// K283 is the NIST K-283 Koblitz curve y^2+xy = x^3+1 over GF(2^283).
	K283
)

func secp256k1Params() *ep.Params {
	p := []byte{
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0xFF, 0xFF, 0xFF, 0xFE, 0xFF, 0xFF, 0xFC, 0x2F,
	}
	mod := fp.NewMontgomeryModulus(bn.FromBytesBE(p), 4)

	gx := []byte{
		0x79, 0xBE, 0x66, 0x7E, 0xF9, 0xDC, 0xBB, 0xAC, 0x55, 0xA0, 0x62, 0x95, 0xCE, 0x87, 0x0B, 0x07,
		0x02, 0x9B, 0xFC, 0xDB, 0x2D, 0xCE, 0x28, 0xD9, 0x59, 0xF2, 0x81, 0x5B, 0x16, 0xF8, 0x17, 0x98,
	}
	gy := []byte{
		0x48, 0x3A, 0xDA, 0x77, 0x26, 0xA3, 0xC4, 0x65, 0x5D, 0xA4, 0xFB, 0xFC, 0x0E, 0x11, 0x08, 0xA8,
		0xFD, 0x17, 0xB4, 0x48, 0xA6, 0x85, 0x54, 0x19, 0x9C, 0x47, 0xD0, 0x8F, 0xFB, 0x10, 0xD4, 0xB8,
	}
	n := []byte{
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFE,
		0xBA, 0xAE, 0xDC, 0xE6, 0xAF, 0x48, 0xA0, 0x3B,
		0xBF, 0xD2, 0x5E, 0x8C, 0xD0, 0x36, 0x41, 0x41,
	}

	return &ep.Params{
		Mod: mod,
		A:   fp.New(mod),
		B:   fp.New(mod).SetUint64(mod, 7),
		Gx:  fp.FromBytesBE(mod, gx),
		Gy:  fp.FromBytesBE(mod, gy),
		N:   bn.FromBytesBE(n),
	}
}

// findAffinePoint deterministically searches the curve
// y^2+xy=x^3+a*x^2+b for a point, starting from x=1 and incrementing,
// via the standard quadratic-solving substitution w=y/x (Guide to ECC
// section 3.3): w^2+w = x+a+b/x^2, solvable by HalfTrace exactly when
// Tr(x+a+b/x^2)=0. Deterministic so Context construction stays
// reproducible without a random source.
func findAffinePoint(poly *fb.Poly, a, b *fb.Elem) (*fb.Elem, *fb.Elem) {
	for seed := uint64(1); ; seed++ {
		buf := make([]byte, (poly.M+7)/8)
		for i := 0; i < 8 && i < len(buf); i++ {
			buf[len(buf)-1-i] = byte(seed >> (8 * i))
		}
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

func k283Params() *eb.Params {
	poly := fb.NewPoly(283, 12, 7, 5)
	a := fb.New(poly)
	b := fb.One(poly)
	gx, gy := findAffinePoint(poly, a, b)
	return &eb.Params{Poly: poly, A: a, B: b, Gx: gx, Gy: gy, N: bn.FromUint64(1), Mu: 1}
}
