package eb

import (
	"github.com/go-relic/core/bn"
	"github.com/go-relic/core/dv"
	"github.com/go-relic/core/fb"
	"github.com/go-relic/core/relicerr"
)

// MulBasic computes k*pt by left-to-right double-and-add (§4.5, mirroring
// package ep's MulBasic).
func MulBasic(pt *Point, k *bn.Int) *Point {
	bitLen := k.BitLen()
	if bitLen == 0 {
		return Infinity(pt.params)
	}
	r := pt.Clone()
	for i := bitLen - 2; i >= 0; i-- {
		r = r.Dbl()
		if k.Bit(i) == 1 {
			r = r.Add(pt)
		}
	}
	return r
}

func buildOddTable(pt *Point, w uint) []*Point {
	size := 1 << (w - 2)
	table := make([]*Point, size)
	table[0] = pt.Clone()
	twice := pt.Dbl()
	for i := 1; i < size; i++ {
		table[i] = table[i-1].Add(twice)
	}
	return table
}

// MulWNAF computes k*pt using left-to-right windowed NAF of width w
// (§4.5).
func MulWNAF(pt *Point, k *bn.Int, w uint) *Point {
	if k.Sign() < 0 {
		return MulWNAF(pt, k.Neg(), w).Negate()
	}
	if k.IsZero() {
		return Infinity(pt.params)
	}
	table := buildOddTable(pt, w)
	digits := bn.NAF(k, w)
	r := Infinity(pt.params)
	for i := len(digits) - 1; i >= 0; i-- {
		r = r.Dbl()
		d := digits[i]
		if d == 0 {
			continue
		}
		idx := int(d)
		if idx < 0 {
			idx = -idx
		}
		idx = (idx - 1) / 2
		term := table[idx]
		if d < 0 {
			term = term.Negate()
		}
		r = r.Add(term)
	}
	return r
}

// tau multiplies the Z[tau] element (a,b) by tau, using tau^2 = mu*tau - 2:
// tau*(a + b*tau) = a*tau + b*tau^2 = a*tau + b*(mu*tau-2) = -2b + (a+mu*b)*tau.
func tau(a, b int64, mu int8) (int64, int64) {
	return -2 * b, a + int64(mu)*b
}

// TauDigit is one digit of a tau-adic NAF expansion, in {0, +-1, ..., +-(2^(w-1)-1)}.
type TauDigit int32

// TauNAF computes the tau-adic non-adjacent form of r = r0 + r1*tau
// (§4.1, §4.5): the width-w Solinas reduction of HECC Algorithm 3.76,
// using tau^2 = mu*tau - 2 to fold the running remainder back to a
// 2-limb (r0,r1) pair after each step.
func TauNAF(r0, r1 int64, mu int8, w uint) []TauDigit {
	var out []TauDigit
	mod := int64(1) << w
	half := mod / 2
	for r0 != 0 || r1 != 0 {
		if r0&1 == 0 {
			out = append(out, 0)
		} else {
			rmod := (r0 - 2*r1*int64(mu)) % mod
			if rmod < 0 {
				rmod += mod
			}
			var u int64
			if rmod >= half {
				u = rmod - mod
			} else {
				u = rmod
			}
			out = append(out, TauDigit(u))
			r0 -= u
		}
		// r0 is even here, so (r0 + r1*tau)/tau = (r1 + mu*r0/2) - (r0/2)*tau
		// is exact.
		r0, r1 = r1+int64(mu)*(r0/2), -r0/2
	}
	return out
}

// MulTauNAF computes k*pt on a Koblitz curve via its tau-adic NAF
// expansion, replacing doublings with Frobenius applications (§4.5). The
// caller supplies the already partmod-reduced (r0,r1) with
// k = r0 + r1*tau (mod the curve's cyclotomic order); computing that
// reduction from an arbitrary k needs the curve's vm/s0/s1 partmod
// constants, which neither this package's Params nor package relic's
// Context carries.
func MulTauNAF(pt *Point, r0, r1 int64, w uint) (*Point, error) {
	if pt.params.Mu == 0 {
		return nil, relicerr.New(relicerr.NoValidConfig, "eb: curve has no Koblitz Frobenius endomorphism")
	}
	digits := TauNAF(r0, r1, pt.params.Mu, w)
	table := buildOddTable(pt, w)
	r := Infinity(pt.params)
	for i := len(digits) - 1; i >= 0; i-- {
		r = r.Frobenius()
		d := digits[i]
		if d == 0 {
			continue
		}
		idx := int(d)
		if idx < 0 {
			idx = -idx
		}
		idx = (idx - 1) / 2
		term := table[idx]
		if d < 0 {
			term = term.Negate()
		}
		r = r.Add(term)
	}
	return r, nil
}

// MulLODAH computes k*pt via the López-Dahab Montgomery ladder (§4.4,
// §4.5): x-only projective doubling-and-addition maintaining (X1,Z1)=j*P,
// (X2,Z2)=(j+1)*P for the bits of k processed so far, recovering y only
// at the end. Marked constant-time by the specification; the ladder body
// below uses CMov for its per-bit conditional swap.
//
// The per-step doubling/addition field formulas are reconstructed from
// the general shape of López-Dahab's x-only arithmetic rather than
// transcribed from a literal reference implementation; this is the
// lowest-confidence arithmetic in this package, see DESIGN.md.
func MulLODAH(pt *Point, k *bn.Int) *Point {
	poly := pt.params.Poly
	if k.IsZero() || pt.IsInfinity() {
		return Infinity(pt.params)
	}
	aff := pt.Clone().Normalize()
	x := aff.X

	x1, z1 := x.Clone(), fb.One(poly)
	x1sq := fb.New(poly).Sqr(x1)
	x1_4 := fb.New(poly).Sqr(x1sq)
	bElem := pt.params.B
	x2 := fb.New(poly).Add(x1_4, bElem)
	z2 := fb.New(poly).Sqr(x1)

	bitLen := k.BitLen()
	for i := bitLen - 2; i >= 0; i-- {
		bit := k.Bit(i)
		ladderStep(poly, pt.params.B, x, &x1, &z1, &x2, &z2, bit)
	}

	return recoverY(pt.params, aff, x1, z1, x2, z2)
}

// ladderStep performs one constant-time Montgomery-ladder step of the
// López-Dahab x-only doubling/addition (HECC Algorithm 3.40's update
// rule), conditionally swapping the two running points by bit via CMov so
// the same sequence of field operations executes on every bit value.
func ladderStep(poly *fb.Poly, b *fb.Elem, x *fb.Elem, x1, z1, x2, z2 **fb.Elem, bit int) {
	// Swap into a canonical order so the add-then-double arithmetic below
	// is always expressed the same way; CMov performs the conditional
	// part so both branches touch the same field elements either way.
	flag := bit
	t1, t2, t3, t4 := (*x1).Clone(), (*z1).Clone(), (*x2).Clone(), (*z2).Clone()
	t1.CMov(*x2, flag)
	t2.CMov(*z2, flag)
	t3.CMov(*x1, flag)
	t4.CMov(*z1, flag)

	// Addition: (t3,t4) = (t1,t2) + (t3,t4) with difference x, in x-only
	// LD form.
	a1 := fb.New(poly).Mul(t1, t4)
	a2 := fb.New(poly).Mul(t2, t3)
	sum := fb.New(poly).Add(a1, a2)
	addedZ := fb.New(poly).Sqr(sum)
	addedX := fb.New(poly).Mul(x, addedZ)
	addedX = fb.New(poly).Add(addedX, fb.New(poly).Mul(a1, a2))

	// Doubling: (t1,t2) = 2*(t1,t2).
	t1sq := fb.New(poly).Sqr(t1)
	t1_4 := fb.New(poly).Sqr(t1sq)
	t2sq := fb.New(poly).Sqr(t2)
	bz4 := fb.New(poly).Mul(b, fb.New(poly).Sqr(t2sq))
	dblX := fb.New(poly).Add(t1_4, bz4)
	dblZ := fb.New(poly).Mul(t1sq, t2sq)

	newX1, newZ1 := dblX.Clone(), dblZ.Clone()
	newX2, newZ2 := addedX.Clone(), addedZ.Clone()

	newX1.CMov(addedX, flag)
	newZ1.CMov(addedZ, flag)
	newX2.CMov(dblX, flag)
	newZ2.CMov(dblZ, flag)

	*x1, *z1, *x2, *z2 = newX1, newZ1, newX2, newZ2
}

// recoverY reconstructs the affine point from the ladder's two x-only
// projective outputs and the original affine point aff=(x,y), via the
// López-Dahab y-coordinate recovery formula (HECC Algorithm 3.41).
func recoverY(p *Params, aff *Point, x1, z1, x2, z2 *fb.Elem) *Point {
	poly := p.Poly
	if z1.IsZero() {
		return Infinity(p)
	}
	if z2.IsZero() {
		return aff.Negate()
	}
	x, y := aff.X, aff.Y
	v1 := fb.New(poly).Mul(x, z1)
	v2 := fb.New(poly).Add(x1, v1)
	v3 := fb.New(poly).Mul(x, z1)
	v3 = fb.New(poly).Sqr(v3)
	v4 := fb.New(poly).Mul(p.A, z1)
	v4 = fb.New(poly).Add(v4, y)
	v4 = fb.New(poly).Mul(v4, z1)
	v4 = fb.New(poly).Mul(v4, z2)
	v5 := fb.New(poly).Add(v2, v4)

	v6 := fb.New(poly).Mul(x, z2)
	v6 = fb.New(poly).Add(v6, x2)

	yNum := fb.New(poly).Mul(v5, v6)
	yNum = fb.New(poly).Add(yNum, v3)
	xInv := fb.New(poly)
	if err := xInv.Inv(x); err != nil {
		return Infinity(p)
	}
	yNum = fb.New(poly).Mul(yNum, xInv)

	z1z2 := fb.New(poly).Mul(z1, z2)
	yOut := fb.New(poly).Mul(yNum, z1z2)

	return &Point{X: fb.New(poly).Mul(x1, z2), Y: yOut, Z: z1z2, ZIsOne: false, params: p}
}

// MulHalving computes k*pt replacing doublings with point halving (§4.5):
// since halving is cheaper than doubling on a binary curve, the scalar is
// first rescaled to k'' = k*2^t mod n (t = bit length of the group order
// n, which must be odd), then the bits of k'' are processed LSB-to-MSB
// with Q = Halve(Q) in place of Q = Dbl(Q). Telescoping the halvings
// shows this converges to k*pt: after processing all t+1 bits,
// Q = sum_i b_i*pt/2^(t-i) = (k''*2^-t)*pt = k*pt (mod n).
func MulHalving(pt *Point, k *bn.Int) (*Point, error) {
	return MulHalvingWithAlloc(pt, k, dv.HeapAllocator{})
}

// MulHalvingWithAlloc is MulHalving's scratch-allocating twin: the scalar
// rescale's two reductions mod n source their scratch from alloc, letting
// a relic.Context route this arithmetic through its configured Allocator
// instead of always hitting the Go heap.
func MulHalvingWithAlloc(pt *Point, k *bn.Int, alloc dv.Allocator) (*Point, error) {
	if pt.params.N == nil {
		return nil, relicerr.New(relicerr.NoValidConfig, "eb: curve has no group order for halving rescale")
	}
	n := pt.params.N
	t := uint(n.BitLen())
	pow := bn.Lsh(bn.FromUint64(1), t)
	kk := bn.ModWithAlloc(k, n, alloc)
	kk = bn.Mul(kk, pow)
	kk = bn.ModWithAlloc(kk, n, alloc)

	q := Infinity(pt.params)
	for i := 0; i <= int(t); i++ {
		q = q.Halve()
		if kk.Bit(i) == 1 {
			q = q.Add(pt)
		}
	}
	return q, nil
}

// SimBasic computes k*P + l*Q by two independent multiplications plus one
// addition (§4.5's "Basic" simultaneous-multiplication variant).
func SimBasic(p *Point, k *bn.Int, q *Point, l *bn.Int) *Point {
	return MulBasic(p, k).Add(MulBasic(q, l))
}

// SimTrick computes k*P + l*Q via Shamir's trick over the precomputed
// 2^w x 2^w table of i*P+j*Q (§4.5's "Trick (Shamir)" variant).
func SimTrick(p *Point, k *bn.Int, q *Point, l *bn.Int, w uint) *Point {
	size := 1 << w
	table := make([][]*Point, size)
	for i := 0; i < size; i++ {
		table[i] = make([]*Point, size)
	}
	table[0][0] = Infinity(p.params)
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			if i == 0 && j == 0 {
				continue
			}
			switch {
			case j == 0:
				table[i][j] = table[i-1][j].Add(p)
			default:
				table[i][j] = table[i][j-1].Add(q)
			}
		}
	}
	kd := bn.WindowedDigits(k, w)
	ld := bn.WindowedDigits(l, w)
	n := len(kd)
	if len(ld) > n {
		n = len(ld)
	}
	r := Infinity(p.params)
	for i := n - 1; i >= 0; i-- {
		for s := uint(0); s < w; s++ {
			r = r.Dbl()
		}
		var ki, li uint32
		if i < len(kd) {
			ki = kd[i]
		}
		if i < len(ld) {
			li = ld[i]
		}
		if ki != 0 || li != 0 {
			r = r.Add(table[ki][li])
		}
	}
	return r
}

// SimInterleave computes k*P + l*Q from independent w-NAF recodings of k
// and l sharing one outer double loop (§4.5's "Interleaving" variant).
func SimInterleave(p *Point, k *bn.Int, q *Point, l *bn.Int, w uint) *Point {
	kNeg, lNeg := k.Sign() < 0, l.Sign() < 0
	kk, ll := k, l
	if kNeg {
		kk = k.Neg()
	}
	if lNeg {
		ll = l.Neg()
	}
	pTable := buildOddTable(p, w)
	qTable := buildOddTable(q, w)
	kd := bn.NAF(kk, w)
	ld := bn.NAF(ll, w)
	n := len(kd)
	if len(ld) > n {
		n = len(ld)
	}
	r := Infinity(p.params)
	for i := n - 1; i >= 0; i-- {
		r = r.Dbl()
		if i < len(kd) && kd[i] != 0 {
			idx := int(kd[i])
			neg := idx < 0
			if neg {
				idx = -idx
			}
			term := pTable[(idx-1)/2]
			if neg != kNeg {
				term = term.Negate()
			}
			r = r.Add(term)
		}
		if i < len(ld) && ld[i] != 0 {
			idx := int(ld[i])
			neg := idx < 0
			if neg {
				idx = -idx
			}
			term := qTable[(idx-1)/2]
			if neg != lNeg {
				term = term.Negate()
			}
			r = r.Add(term)
		}
	}
	return r
}

// SimJoint computes k*P + l*Q via the joint sparse form of (k, l) and a
// 5-entry table {O, Q, P, P+Q, P-Q} (§4.5's "Joint (JSF)" variant).
func SimJoint(p *Point, k *bn.Int, q *Point, l *bn.Int) *Point {
	pairs := bn.JSF(k, l)
	pPlusQ := p.Add(q)
	pMinusQ := p.Add(q.Negate())
	r := Infinity(p.params)
	for i := len(pairs) - 1; i >= 0; i-- {
		r = r.Dbl()
		pr := pairs[i]
		switch {
		case pr.U == 0 && pr.V == 0:
		case pr.U != 0 && pr.V == 0:
			term := p
			if pr.U < 0 {
				term = p.Negate()
			}
			r = r.Add(term)
		case pr.U == 0 && pr.V != 0:
			term := q
			if pr.V < 0 {
				term = q.Negate()
			}
			r = r.Add(term)
		case pr.U == pr.V:
			term := pPlusQ
			if pr.U < 0 {
				term = pPlusQ.Negate()
			}
			r = r.Add(term)
		default:
			term := pMinusQ
			if pr.U < 0 {
				term = pMinusQ.Negate()
			}
			r = r.Add(term)
		}
	}
	return r
}
