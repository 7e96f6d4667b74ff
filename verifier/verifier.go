// Package verifier implements Verify from spec.md section 4.7: recomputing
// both sides of the pairing identity and comparing them in GT. Verify is
// stateless per call; any I/O or decode error is fatal and returned
// separately from the boolean result, which is never an error itself --
// "proof rejected" is a normal false return (spec.md section 7).
package verifier

import (
	"github.com/retrieveproofs/por/challenge"
	"github.com/retrieveproofs/por/curve"
	"github.com/retrieveproofs/por/log"
	"github.com/retrieveproofs/por/porerr"
)

var logger = log.Default().Module("verifier")

// Verify checks the pairing identity
//
//	e(sigma, g2) == e( sum_k nu_k*H(name,i_k) + sum_j mu_j*u_j, pk )
//
// following the teacher's own pairing-check idiom (crypto/kzg.go's
// KZGVerifyProof): fold both sides into one multi-pairing product against
// the GT identity rather than computing two reduced pairings and
// comparing them directly.
func Verify(pk curve.G2, name curve.Scalar, u []curve.G1, q challenge.Set, sigma curve.G1, mu []uint32) (bool, error) {
	if len(u) != len(mu) {
		return false, porerr.New(porerr.KindParameter, "verifier: len(u)=%d does not match len(mu)=%d", len(u), len(mu))
	}

	g1 := curve.G1Generator()
	g2 := curve.G2Generator()

	// R_u = sum_j mu_j * u_j
	Ru := curve.G1Identity()
	for j, uj := range u {
		mj := curve.ScalarFromUint64(uint64(mu[j]))
		Ru = curve.G1Add(Ru, curve.G1ScalarMul(uj, &mj))
	}

	// R_h = sum_k nu_k * (i_k * name) * g1
	Rh := curve.G1Identity()
	for _, pair := range q {
		iScalar := curve.ScalarFromUint64(pair.Index)
		exponent := iScalar
		exponent.Mul(&exponent, &name)
		Hk := curve.G1ScalarMul(g1, &exponent)

		nu := curve.ScalarFromUint64(uint64(pair.Weight))
		Rh = curve.G1Add(Rh, curve.G1ScalarMul(Hk, &nu))
	}

	rhs := curve.G1Add(Rh, Ru)

	ok, err := curve.VerifyPairingEquality(sigma, g2, rhs, pk)
	if err != nil {
		return false, porerr.Wrap(porerr.KindDecode, err, "verifier: pairing check")
	}

	logger.Info("verification complete", "result", ok, "challenges", len(q))
	return ok, nil
}
