// Package prover implements Prove from spec.md section 4.6: aggregating
// challenged tags into a single G1 element sigma and folding the
// challenged sub-blocks into the response vector mu.
package prover

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/retrieveproofs/por/challenge"
	"github.com/retrieveproofs/por/chunker"
	"github.com/retrieveproofs/por/curve"
	"github.com/retrieveproofs/por/log"
	"github.com/retrieveproofs/por/porerr"
)

var logger = log.Default().Module("prover")

// Proof is the server's response: one G1 point plus s small non-negative
// integers, independent in size of c beyond a log factor.
type Proof struct {
	Sigma curve.G1
	Mu    []uint32
}

// TagAt resolves the tag for block index i, typically a random-access
// seek into signature.bin (spec.md section 4.1's O(1)-seek tag stride
// invariant).
type TagAt func(i uint64) (curve.G1, error)

// Prove computes (sigma, mu) for challenge set q against the given tag
// stream and file source. Q is iterated in its recorded order for sigma,
// as required by spec.md section 4.6; mu does not depend on order because
// it is a commutative sum (tested by the mu-idempotence-under-reordering
// property in spec.md section 8).
//
// mu_j is accumulated as a uint64 and narrowed to uint32 on return; the
// caller is responsible for choosing c, NuMax and s such that
// c*NuMax*255 does not exceed 2^32-1, per spec.md section 4.6.
func Prove(q challenge.Set, tagAt TagAt, src chunker.Source, s int) (Proof, error) {
	if s <= 0 {
		return Proof{}, porerr.New(porerr.KindParameter, "prover: s must be positive, got %d", s)
	}

	sigma := curve.G1Identity()
	for k, pair := range q {
		sig, err := tagAt(pair.Index)
		if err != nil {
			return Proof{}, porerr.Wrap(porerr.KindIO, err, "prover: fetching tag for challenge %d (index %d)", k, pair.Index)
		}
		nu := curve.ScalarFromUint64(uint64(pair.Weight))
		term := curve.G1ScalarMul(sig, &nu)
		sigma = curve.G1Add(sigma, term)
	}

	mu := make([]uint64, s)
	for _, pair := range q {
		for j := 0; j < s; j++ {
			b, err := chunker.Byte(src, s, int(pair.Index), j)
			if err != nil {
				return Proof{}, porerr.Wrap(porerr.KindIO, err, "prover: reading sub-block (%d,%d)", pair.Index, j)
			}
			mu[j] += uint64(pair.Weight) * uint64(b)
		}
	}

	muOut := make([]uint32, s)
	for j, v := range mu {
		muOut[j] = uint32(v)
	}

	logger.Info("proof computed", "challenges", len(q), "s", s)
	return Proof{Sigma: sigma, Mu: muOut}, nil
}

// ProveConcurrent computes the same (sigma, mu) as Prove, but fans the c
// per-challenge terms out across a bounded worker pool (semaphore +
// sync.WaitGroup, the same shape as the teacher's beacon_sync.go slot
// downloader) before folding them back in challenge-set order. Sigma's
// running sum and each mu_j accumulator are commutative and associative
// (spec.md section 4.6's linearity invariant), so per-worker partial sums
// may be combined in any order without changing the result -- this is
// exactly the parallelism spec.md section 5 allows.
//
// workers <= 0 defaults to runtime.GOMAXPROCS(0).
func ProveConcurrent(q challenge.Set, tagAt TagAt, src chunker.Source, s int, workers int) (Proof, error) {
	if s <= 0 {
		return Proof{}, porerr.New(porerr.KindParameter, "prover: s must be positive, got %d", s)
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if len(q) == 0 {
		return Proof{Sigma: curve.G1Identity(), Mu: make([]uint32, s)}, nil
	}

	type partial struct {
		sigma curve.G1
		mu    []uint64
	}

	results := make([]partial, len(q))
	errs := make([]error, len(q))

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for k, pair := range q {
		sem <- struct{}{}
		wg.Add(1)
		go func(k int, pair challenge.Pair) {
			defer wg.Done()
			defer func() { <-sem }()

			sig, err := tagAt(pair.Index)
			if err != nil {
				errs[k] = fmt.Errorf("fetching tag for challenge %d (index %d): %w", k, pair.Index, err)
				return
			}
			nu := curve.ScalarFromUint64(uint64(pair.Weight))
			term := curve.G1ScalarMul(sig, &nu)

			mu := make([]uint64, s)
			for j := 0; j < s; j++ {
				b, err := chunker.Byte(src, s, int(pair.Index), j)
				if err != nil {
					errs[k] = fmt.Errorf("reading sub-block (%d,%d): %w", pair.Index, j, err)
					return
				}
				mu[j] = uint64(pair.Weight) * uint64(b)
			}
			results[k] = partial{sigma: term, mu: mu}
		}(k, pair)
	}

	wg.Wait()

	for k, err := range errs {
		if err != nil {
			return Proof{}, porerr.Wrap(porerr.KindIO, err, "prover: concurrent challenge %d", k)
		}
	}

	sigma := curve.G1Identity()
	mu := make([]uint64, s)
	for _, r := range results {
		sigma = curve.G1Add(sigma, r.sigma)
		for j := 0; j < s; j++ {
			mu[j] += r.mu[j]
		}
	}

	muOut := make([]uint32, s)
	for j, v := range mu {
		muOut[j] = uint32(v)
	}

	logger.Info("proof computed (concurrent)", "challenges", len(q), "s", s, "workers", workers)
	return Proof{Sigma: sigma, Mu: muOut}, nil
}
