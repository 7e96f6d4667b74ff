// Package signer implements Sign from spec.md section 4.4: one G1 tag per
// block, computed sequentially over the file. Per the section 9 redesign
// note ("byte-wise streaming with seeks"), u is loaded once by the caller
// (it is small -- |u| = s) and the file is streamed sequentially; Sign
// never re-opens or re-seeks u for each sub-block.
package signer

import (
	"bufio"
	"io"

	"github.com/retrieveproofs/por/curve"
	"github.com/retrieveproofs/por/log"
	"github.com/retrieveproofs/por/porerr"
)

var logger = log.Default().Module("signer")

// Sign reads blocks of s bytes sequentially from r and emits one tag per
// complete block via emit. Indices are contiguous starting at 0; the first
// short read (fewer than s bytes remaining) stops iteration without
// emitting a tag for the partial block, per spec.md section 4.4 step 1.
//
// emit is called once per block, in index order, so callers can stream
// the tag stream straight to its destination file instead of buffering
// the whole thing in memory.
func Sign(r io.Reader, s int, sk curve.Scalar, name curve.Scalar, u []curve.G1, emit func(i int, sigma curve.G1) error) (int, error) {
	if s <= 0 {
		return 0, porerr.New(porerr.KindParameter, "signer: s must be positive, got %d", s)
	}
	if len(u) != s {
		return 0, porerr.New(porerr.KindParameter, "signer: len(u)=%d does not match s=%d", len(u), s)
	}

	br := bufio.NewReaderSize(r, 1<<20)
	block := make([]byte, s)
	g1 := curve.G1Generator()

	n := 0
	for i := 0; ; i++ {
		read, err := io.ReadFull(br, block)
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			if read > 0 {
				logger.Debug("dropping trailing partial block", "index", i, "bytes", read)
			}
			break
		}
		if err != nil {
			return n, porerr.Wrap(porerr.KindIO, err, "signer: reading block %d", i)
		}

		// U_i = sum_j m_{i,j} * u_j
		Ui := curve.G1Identity()
		for j := 0; j < s; j++ {
			mij := curve.ScalarFromUint64(uint64(block[j]))
			term := curve.G1ScalarMul(u[j], &mij)
			Ui = curve.G1Add(Ui, term)
		}

		// H_i = (i * name) * g1, the linear hash-to-G1 surrogate (spec.md
		// section 9, Open Question 1: preserved for bit-exact
		// compatibility, not a true random oracle).
		iScalar := curve.ScalarFromUint64(uint64(i))
		exponent := iScalar
		exponent.Mul(&exponent, &name)
		Hi := curve.G1ScalarMul(g1, &exponent)

		sigma := curve.G1Add(Hi, Ui)
		sigma = curve.G1ScalarMul(sigma, &sk)

		if err := emit(i, sigma); err != nil {
			return n, porerr.Wrap(porerr.KindIO, err, "signer: emitting tag %d", i)
		}
		n++
	}

	logger.Info("signing complete", "blocks", n, "s", s)
	return n, nil
}
