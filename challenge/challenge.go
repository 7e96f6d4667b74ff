// Package challenge implements the Challenger from spec.md section 4.5:
// producing a list of c independent (index, weight) pairs. The randomness
// source here is security-relevant -- spec.md is explicit that a
// clock-seeded non-cryptographic generator is a documented weakness, not
// a behavior to preserve -- so this package only ever draws from
// crypto/rand, never math/rand.
package challenge

import (
	"crypto/rand"
	"math/big"

	"github.com/retrieveproofs/por/log"
	"github.com/retrieveproofs/por/porerr"
)

var logger = log.Default().Module("challenge")

// NuMax is the legacy bound on challenge weights, preserved for bit-exact
// compatibility with the 32-bit mu encoding (spec.md section 9, Open
// Question 3). Pair.Weight is drawn uniformly from [0, NuMax).
const NuMax = 500

// Pair is a single challenge (i_k, nu_k): block index and weight.
type Pair struct {
	Index  uint64
	Weight uint32
}

// Set is an ordered list of challenge pairs. Order matters for how the
// Prover accumulates sigma (spec.md section 4.6) even though it does not
// affect mu.
type Set []Pair

// Generate draws c challenge pairs uniformly and independently: each
// index from [0, n) and each weight from [0, NuMax). c == 0 is allowed
// and yields an empty set (spec.md section 8, Empty-challenge scenario).
// n must be positive whenever c > 0.
func Generate(n int, c int) (Set, error) {
	if c < 0 {
		return nil, porerr.New(porerr.KindParameter, "challenge: c must be non-negative, got %d", c)
	}
	if c > 0 && n <= 0 {
		return nil, porerr.New(porerr.KindParameter, "challenge: n must be positive when c>0, got %d", n)
	}

	out := make(Set, c)
	nBig := big.NewInt(int64(n))
	nuBig := big.NewInt(NuMax)
	for k := 0; k < c; k++ {
		i, err := rand.Int(rand.Reader, nBig)
		if err != nil {
			return nil, porerr.Wrap(porerr.KindIO, err, "challenge: drawing index %d", k)
		}
		nu, err := rand.Int(rand.Reader, nuBig)
		if err != nil {
			return nil, porerr.Wrap(porerr.KindIO, err, "challenge: drawing weight %d", k)
		}
		out[k] = Pair{Index: i.Uint64(), Weight: uint32(nu.Uint64())}
	}

	logger.Info("challenge generated", "n", n, "c", c)
	return out, nil
}
