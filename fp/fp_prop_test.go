package fp

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/go-relic/core/bn"
)

// secp256k1Modulus mirrors the field fixture shared by the rest of this
// package's tests: the teacher's verified secp256k1 prime, rather than a
// spec-named literal transcribed by hand.
func secp256k1Modulus() *Modulus {
	p := []byte{
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0xFF, 0xFF, 0xFF, 0xFE, 0xFF, 0xFF, 0xFC, 0x2F,
	}
	return NewMontgomeryModulus(bn.FromBytesBE(p), 4)
}

func genNonZeroElem(mod *Modulus) gopter.Gen {
	return gen.UInt64Range(1, ^uint64(0)).Map(func(v uint64) *Elem {
		e := New(mod).SetUint64(mod, v)
		if e.IsZero() {
			e = New(mod).SetUint64(mod, 1)
		}
		return e
	})
}

func genElem(mod *Modulus) gopter.Gen {
	return gen.UInt64Range(0, ^uint64(0)).Map(func(v uint64) *Elem {
		return New(mod).SetUint64(mod, v)
	})
}

// TestFieldPropertiesHold runs the quantified invariants of a prime
// field (inverse, additive/multiplicative identity, distributivity)
// against randomly generated elements, the property-based counterpart
// to the table-driven tests in fp_test.go.
func TestFieldPropertiesHold(t *testing.T) {
	mod := secp256k1Modulus()
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("a * inv(a) = 1", prop.ForAll(
		func(a *Elem) bool {
			inv := New(mod)
			if err := inv.Inv(a); err != nil {
				return false
			}
			got := New(mod).Mul(a, inv)
			one := New(mod).SetUint64(mod, 1)
			return got.Equal(one)
		},
		genNonZeroElem(mod),
	))

	properties.Property("addition is commutative", prop.ForAll(
		func(a, b *Elem) bool {
			ab := New(mod).Add(a, b)
			ba := New(mod).Add(b, a)
			return ab.Equal(ba)
		},
		genElem(mod), genElem(mod),
	))

	properties.Property("multiplication distributes over addition", prop.ForAll(
		func(a, b, c *Elem) bool {
			lhs := New(mod).Mul(a, New(mod).Add(b, c))
			rhs := New(mod).Add(New(mod).Mul(a, b), New(mod).Mul(a, c))
			return lhs.Equal(rhs)
		},
		genElem(mod), genElem(mod), genElem(mod),
	))

	properties.Property("squaring matches self-multiplication", prop.ForAll(
		func(a *Elem) bool {
			sq := New(mod).Sqr(a)
			mul := New(mod).Mul(a, a)
			return sq.Equal(mul)
		},
		genElem(mod),
	))

	properties.TestingRun(t)
}
