// Package keygen implements Setup from spec.md section 4.3: sampling the
// secret key, public key, file name, and generator vector u once per
// file. Setup is a pure function over its parameter s; file-system
// persistence of the resulting records is the store package's concern.
package keygen

import (
	"github.com/retrieveproofs/por/curve"
	"github.com/retrieveproofs/por/log"
	"github.com/retrieveproofs/por/porerr"
)

var logger = log.Default().Module("keygen")

// Params holds everything Setup produces for a file: the secret key, the
// corresponding public key, a random per-file name, and the length-s
// generator vector u.
type Params struct {
	SK   curve.Scalar
	PK   curve.G2
	Name curve.Scalar
	U    []curve.G1
}

// Setup samples a fresh (sk, pk, name, u) tuple for a file whose blocks
// will each carry s sub-blocks. s must be positive; any CSPRNG failure
// from the curve library is surfaced as a fatal porerr.KindIO error (the
// randomness source is a process-scoped resource, per spec.md section 5).
func Setup(s int) (Params, error) {
	if s <= 0 {
		return Params{}, porerr.New(porerr.KindParameter, "keygen: s must be positive, got %d", s)
	}

	sk, err := curve.RandomScalar()
	if err != nil {
		return Params{}, porerr.Wrap(porerr.KindIO, err, "keygen: sampling secret key")
	}
	name, err := curve.RandomScalar()
	if err != nil {
		return Params{}, porerr.Wrap(porerr.KindIO, err, "keygen: sampling file name")
	}

	pk := curve.G2ScalarMul(curve.G2Generator(), &sk)

	g1 := curve.G1Generator()
	u := make([]curve.G1, s)
	for j := 0; j < s; j++ {
		r, err := curve.RandomScalar()
		if err != nil {
			return Params{}, porerr.Wrap(porerr.KindIO, err, "keygen: sampling generator r_%d", j)
		}
		u[j] = curve.G1ScalarMul(g1, &r)
	}

	logger.Info("setup complete", "s", s)
	return Params{SK: sk, PK: pk, Name: name, U: u}, nil
}
