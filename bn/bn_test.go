package bn

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func randInt(r *rand.Rand, bits int) *Int {
	b := make([]byte, (bits+7)/8)
	r.Read(b)
	return FromBytesBE(b)
}

func TestAddSubRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		a := randInt(r, 256)
		b := randInt(r, 256)
		sum := Add(a, b)
		back := Sub(sum, b)
		require.Equal(t, 0, Cmp(a, back), "a+b-b should equal a")
	}
}

func TestMulCommutesAndAssociates(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 100; i++ {
		a := randInt(r, 128)
		b := randInt(r, 128)
		c := randInt(r, 128)
		require.Equal(t, 0, Cmp(Mul(a, b), Mul(b, a)))
		require.Equal(t, 0, Cmp(Mul(Mul(a, b), c), Mul(a, Mul(b, c))))
	}
}

func TestDivModReconstructs(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		a := randInt(r, 192)
		b := randInt(r, 64)
		if b.IsZero() {
			continue
		}
		q, rem := DivMod(a, b)
		got := Add(Mul(q, b), rem)
		require.Equal(t, 0, Cmp(a, got))
		require.True(t, CmpAbs(rem, b) < 0)
	}
}

func TestGCDDividesBoth(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	for i := 0; i < 100; i++ {
		a := randInt(r, 96)
		b := randInt(r, 96)
		if a.IsZero() || b.IsZero() {
			continue
		}
		g := GCD(a, b)
		_, ra := DivMod(a, g)
		_, rb := DivMod(b, g)
		require.True(t, ra.IsZero())
		require.True(t, rb.IsZero())
	}
}

func TestExpModFermat(t *testing.T) {
	p := FromUint64(0xFFFFFFFFFFFFFFC5) // a 64-bit prime (2^64 - 59)
	r := rand.New(rand.NewSource(5))
	for i := 0; i < 20; i++ {
		a := Mod(randInt(r, 64), p)
		if a.IsZero() {
			continue
		}
		one := ExpMod(a, Sub(p, FromUint64(1)), p)
		require.Equal(t, uint64(1), mustLimb(one))
	}
}

func mustLimb(n *Int) uint64 {
	if n.IsZero() {
		return 0
	}
	return n.mag[0]
}

func TestBytesBERoundTrip(t *testing.T) {
	b := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	n := FromBytesBE(b)
	got := n.BytesBE(4)
	require.Equal(t, b, got)
}

func TestNAFReconstructsAndIsSparse(t *testing.T) {
	r := rand.New(rand.NewSource(6))
	for w := uint(2); w <= 6; w++ {
		for i := 0; i < 50; i++ {
			k := randInt(r, 64)
			digits := NAF(k, w)
			got := reconstruct(digits)
			require.Equal(t, 0, Cmp(k, got), "NAF must reconstruct the scalar")
			requireNAFWindowProperty(t, digits, w)
		}
	}
}

func reconstruct(digits []Digit) *Int {
	acc := Zero()
	for i, d := range digits {
		if d == 0 {
			continue
		}
		term := Lsh(FromUint64(uint64(abs32(int32(d)))), uint(i))
		if d < 0 {
			acc = Sub(acc, term)
		} else {
			acc = Add(acc, term)
		}
	}
	return acc
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// requireNAFWindowProperty checks that any w consecutive digits contain at
// most one non-zero entry, the defining sparsity property of w-NAF (§4.1).
func requireNAFWindowProperty(t *testing.T, digits []Digit, w uint) {
	t.Helper()
	for i := range digits {
		if digits[i] == 0 {
			continue
		}
		for j := i + 1; j < len(digits) && j < i+int(w); j++ {
			require.Zero(t, int(digits[j]), "w consecutive NAF digits must have at most one non-zero")
		}
	}
}

func TestJSFReconstructsBothScalars(t *testing.T) {
	k := FromUint64(0xD5)
	l := FromUint64(0x87)
	pairs := JSF(k, l)
	gotK, gotL := Zero(), Zero()
	for i, p := range pairs {
		if p.U != 0 {
			term := Lsh(FromUint64(1), uint(i))
			if p.U > 0 {
				gotK = Add(gotK, term)
			} else {
				gotK = Sub(gotK, term)
			}
		}
		if p.V != 0 {
			term := Lsh(FromUint64(1), uint(i))
			if p.V > 0 {
				gotL = Add(gotL, term)
			} else {
				gotL = Sub(gotL, term)
			}
		}
	}
	require.Equal(t, 0, Cmp(k, gotK))
	require.Equal(t, 0, Cmp(l, gotL))
	for _, p := range pairs {
		require.True(t, p.U >= -1 && p.U <= 1)
		require.True(t, p.V >= -1 && p.V <= 1)
	}
}

func TestWindowedDigitsReconstructs(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		k := randInt(r, 80)
		digits := WindowedDigits(k, 4)
		acc := Zero()
		for i, d := range digits {
			acc = Add(acc, Lsh(FromUint64(uint64(d)), uint(i)*4))
		}
		require.Equal(t, 0, Cmp(k, acc))
	}
}
