package curve

import "github.com/consensys/gnark-crypto/ecc/bn254"

// VerifyPairingEquality checks e(a1,b1) == e(a2,b2) by folding it into the
// single multi-pairing product e(a1,b1) * e(-a2,b2) == 1, the same shape
// the teacher's KZGVerifyProof (crypto/kzg.go) uses for its pairing check:
// negate one side, run one multi-pairing call, and compare against the GT
// identity instead of computing two reduced pairings and comparing them.
func VerifyPairingEquality(a1 G1, b1 G2, a2 G1, b2 G2) (bool, error) {
	var negA2 G1
	negA2.Neg(&a2)

	var a1Aff, negA2Aff bn254.G1Affine
	a1Aff.FromJacobian(&a1)
	negA2Aff.FromJacobian(&negA2)

	var b1Aff, b2Aff bn254.G2Affine
	b1Aff.FromJacobian(&b1)
	b2Aff.FromJacobian(&b2)

	product, err := bn254.Pair(
		[]bn254.G1Affine{a1Aff, negA2Aff},
		[]bn254.G2Affine{b1Aff, b2Aff},
	)
	if err != nil {
		return false, err
	}

	var identity GT
	identity.SetOne()
	return product.Equal(&identity), nil
}
