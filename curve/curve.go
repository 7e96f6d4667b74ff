// Package curve abstracts the bilinear-pairing primitives the PoR core
// needs -- scalar arithmetic in Fr, group operations in G1/G2, and the
// reduced pairing to GT -- behind a capability set, per the redesign note
// in spec.md section 9 ("Polymorphism over pairing curves"). The concrete
// curve is BN-254 (alt_bn128), implemented by github.com/consensys/
// gnark-crypto/ecc/bn254. No field or group arithmetic is reimplemented
// here; this package only adapts gnark-crypto's types to the shapes the
// codec and protocol packages expect.
package curve

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Scalar is an element of Fr, the prime scalar field of BN-254.
type Scalar = fr.Element

// G1 is a point of the first source group, held in Jacobian coordinates so
// that its X, Y, Z fields line up directly with the codec's projective
// encoding (spec.md section 4.1).
type G1 = bn254.G1Jac

// G2 is a point of the second source group, Jacobian, two-limb tower
// coordinates (fptower.E2) per limb.
type G2 = bn254.G2Jac

// GT is an element of the pairing target group.
type GT = bn254.GT

// RandomScalar draws a uniformly random element of Fr using a
// cryptographically secure source. fr.Element.SetRandom reads from
// crypto/rand internally; this wrapper exists so callers never reach for
// math/rand by habit.
func RandomScalar() (Scalar, error) {
	var s Scalar
	if _, err := s.SetRandom(); err != nil {
		return s, err
	}
	return s, nil
}

// ScalarFromUint64 embeds a small non-negative integer (a byte, a block
// index, a challenge weight) into Fr.
func ScalarFromUint64(v uint64) Scalar {
	var s Scalar
	s.SetUint64(v)
	return s
}

// ScalarToUint64 recovers a small non-negative integer previously embedded
// with ScalarFromUint64. Values outside the uint64 range silently lose
// their high bits, as math/big.Int.Uint64 does.
func ScalarToUint64(s Scalar) uint64 {
	var bi big.Int
	s.BigInt(&bi)
	return bi.Uint64()
}

// G1Generator returns g1, the fixed generator of G1.
func G1Generator() G1 {
	g1, _, _, _ := bn254.Generators()
	return g1
}

// G2Generator returns g2, the fixed generator of G2.
func G2Generator() G2 {
	_, g2, _, _ := bn254.Generators()
	return g2
}

// G1Identity returns the identity element of G1, 0_G1. gnark-crypto's
// zero-value G1Jac already is the point at infinity, but spec.md section 9
// (Open Question 2) mandates explicit initialization, so callers use this
// constructor instead of relying on a bare "var p G1" reading as intended.
func G1Identity() G1 {
	var p G1
	return p
}

// G1ScalarMul returns s*p.
func G1ScalarMul(p G1, s *Scalar) G1 {
	var r G1
	var sBig big.Int
	s.BigInt(&sBig)
	r.ScalarMultiplication(&p, &sBig)
	return r
}

// G1Add returns a+b.
func G1Add(a, b G1) G1 {
	r := a
	r.AddAssign(&b)
	return r
}

// G2ScalarMul returns s*p.
func G2ScalarMul(p G2, s *Scalar) G2 {
	var r G2
	var sBig big.Int
	s.BigInt(&sBig)
	r.ScalarMultiplication(&p, &sBig)
	return r
}

// G2Add returns a+b.
func G2Add(a, b G2) G2 {
	r := a
	r.AddAssign(&b)
	return r
}

// RandomReader is an exported handle on crypto/rand.Reader. RandomScalar
// does not read from it (fr.Element.SetRandom draws from crypto/rand
// itself), so replacing it does not make scalar sampling deterministic.
var RandomReader io.Reader = rand.Reader
