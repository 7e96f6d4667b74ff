// Package chunker implements the deterministic partition of a file into n
// blocks of s sub-blocks described in spec.md section 4.2. It owns no
// cryptography; it is a pure view over a byte source.
package chunker

import (
	"io"

	"github.com/pkg/errors"
)

// BlockCount returns n = floor(L/s), the number of complete blocks in a
// file of length L with block size s. Any trailing L mod s bytes are
// silently ignored, per spec.md section 4.2 and section 9 (Open Question
// 4): the dropped tail is deliberate, not an oversight.
func BlockCount(fileSize int64, s int) int {
	if s <= 0 {
		return 0
	}
	return int(fileSize / int64(s))
}

// Source is a random-access byte source over a file: a block(i, j) lookup
// that the Prover uses for arbitrary challenge indices, and BlockCount for
// validating indices against.
type Source interface {
	// ReadAt reads len(p) bytes starting at absolute offset off, as
	// io.ReaderAt does.
	ReadAt(p []byte, off int64) (int, error)
	// Size returns the total byte length of the underlying file.
	Size() int64
}

// readerAtSource adapts an io.ReaderAt plus a known size to Source.
type readerAtSource struct {
	r    io.ReaderAt
	size int64
}

// NewSource wraps an io.ReaderAt (typically an *os.File) of the given
// size as a chunker Source.
func NewSource(r io.ReaderAt, size int64) Source {
	return &readerAtSource{r: r, size: size}
}

func (s *readerAtSource) ReadAt(p []byte, off int64) (int, error) { return s.r.ReadAt(p, off) }
func (s *readerAtSource) Size() int64                             { return s.size }

// Byte returns the sub-block m_{i,j}: the single byte at file offset
// i*s + j. It is the random-access counterpart to the Signer's sequential
// scan, used by the Prover when it recomputes mu_j for an arbitrary
// challenge index i_k.
func Byte(src Source, s, i, j int) (byte, error) {
	off := int64(i)*int64(s) + int64(j)
	if off < 0 || off >= src.Size() {
		return 0, errors.Errorf("chunker: offset %d (block %d, sub-block %d, s=%d) out of range for file of size %d", off, i, j, s, src.Size())
	}
	var buf [1]byte
	if _, err := src.ReadAt(buf[:], off); err != nil {
		return 0, errors.Wrapf(err, "chunker: reading block %d sub-block %d", i, j)
	}
	return buf[0], nil
}
