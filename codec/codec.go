// Package codec implements the bit-exact, host-independent binary
// encoding for every artifact the PoR core produces: keys, the generator
// vector, tag streams, challenges, and proofs. Every record is a fixed,
// declared width with no header and no framing byte -- the eight files on
// disk (sk.bin, pk.bin, name.bin, u.bin, signature.bin, challenge.bin,
// sigma.bin, mu.bin) are exactly concatenations of these records.
//
// All point and scalar encoding is delegated to the curve package; codec
// only composes those fixed-width fields into the named record shapes and
// enforces length-exact decoding.
package codec

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/retrieveproofs/por/curve"
)

// Field widths for the fixed-integer parts of the challenge and mu
// records, per spec.md section 4.1.
const (
	IndexSize  = 8 // u64 little-endian block index i_k
	WeightSize = 4 // u32 little-endian challenge weight nu_k
	MuWordSize = 4 // u32 little-endian legacy mu_j
)

// ErrLengthMismatch is returned (wrapped) by DecodeU, DecodeTagAt,
// DecodeChallengePairs, DecodeMuLegacy and DecodeMuWide when the input does
// not match the record's declared size. DecodeSK, DecodePK, DecodeName and
// DecodeSigma also reject a wrong length, but with the curve package's
// error, which does not wrap ErrLengthMismatch.
var ErrLengthMismatch = errors.New("codec: record length mismatch")

// EncodeSK serializes a secret key (a single Fr scalar).
func EncodeSK(sk curve.Scalar) []byte { return curve.EncodeScalar(&sk) }

// DecodeSK parses a secret-key record.
func DecodeSK(data []byte) (curve.Scalar, error) {
	s, err := curve.DecodeScalar(data)
	return s, wrapLen(err, "sk")
}

// EncodePK serializes a public key (a G2 point).
func EncodePK(pk curve.G2) []byte { return curve.EncodeG2(&pk) }

// DecodePK parses a public-key record.
func DecodePK(data []byte) (curve.G2, error) {
	p, err := curve.DecodeG2(data)
	return p, wrapLen(err, "pk")
}

// EncodeName serializes the per-file name scalar.
func EncodeName(name curve.Scalar) []byte { return curve.EncodeScalar(&name) }

// DecodeName parses a name record.
func DecodeName(data []byte) (curve.Scalar, error) {
	s, err := curve.DecodeScalar(data)
	return s, wrapLen(err, "name")
}

// EncodeU serializes the generator vector u_0..u_{s-1} as s concatenated
// fixed-stride G1 records.
func EncodeU(u []curve.G1) []byte {
	out := make([]byte, 0, len(u)*curve.G1Size)
	for i := range u {
		out = append(out, curve.EncodeG1(&u[i])...)
	}
	return out
}

// DecodeU parses a u-record of the given length s. The record's total
// length must equal s*G1Size exactly.
func DecodeU(data []byte, s int) ([]curve.G1, error) {
	if len(data) != s*curve.G1Size {
		return nil, errors.Wrapf(ErrLengthMismatch, "u-record: want %d bytes for s=%d, got %d", s*curve.G1Size, s, len(data))
	}
	out := make([]curve.G1, s)
	for j := 0; j < s; j++ {
		off := j * curve.G1Size
		p, err := curve.DecodeG1(data[off : off+curve.G1Size])
		if err != nil {
			return nil, errors.Wrapf(err, "u-record: point %d", j)
		}
		out[j] = p
	}
	return out, nil
}

// EncodeTag serializes a single per-block tag sigma_i.
func EncodeTag(sigma curve.G1) []byte { return curve.EncodeG1(&sigma) }

// DecodeTagAt parses the tag at block index i out of a full tag-stream
// buffer, honoring the O(1)-seek invariant: offset == i*G1Size.
func DecodeTagAt(stream []byte, i int) (curve.G1, error) {
	off := i * curve.G1Size
	if off+curve.G1Size > len(stream) {
		return curve.G1{}, errors.Wrapf(ErrLengthMismatch, "tag stream: index %d out of range (stream has %d bytes)", i, len(stream))
	}
	return curve.DecodeG1(stream[off : off+curve.G1Size])
}

// TagCount returns the number of complete G1 records in a tag-stream
// buffer of the given length.
func TagCount(streamLen int) int { return streamLen / curve.G1Size }

// EncodeSigma serializes the aggregated proof element sigma.
func EncodeSigma(sigma curve.G1) []byte { return curve.EncodeG1(&sigma) }

// DecodeSigma parses a sigma-record.
func DecodeSigma(data []byte) (curve.G1, error) {
	p, err := curve.DecodeG1(data)
	return p, wrapLen(err, "sigma")
}

// EncodeChallengePair appends one (i, nu) challenge pair in the declared
// little-endian widths.
func EncodeChallengePair(dst []byte, i uint64, nu uint32) []byte {
	var buf [IndexSize + WeightSize]byte
	binary.LittleEndian.PutUint64(buf[0:IndexSize], i)
	binary.LittleEndian.PutUint32(buf[IndexSize:], nu)
	return append(dst, buf[:]...)
}

// DecodeChallengePairs parses a challenge-record of c concatenated
// (i, nu) pairs.
func DecodeChallengePairs(data []byte, c int) ([]uint64, []uint32, error) {
	stride := IndexSize + WeightSize
	if len(data) != c*stride {
		return nil, nil, errors.Wrapf(ErrLengthMismatch, "challenge-record: want %d bytes for c=%d, got %d", c*stride, c, len(data))
	}
	idx := make([]uint64, c)
	nu := make([]uint32, c)
	for k := 0; k < c; k++ {
		off := k * stride
		idx[k] = binary.LittleEndian.Uint64(data[off : off+IndexSize])
		nu[k] = binary.LittleEndian.Uint32(data[off+IndexSize : off+stride])
	}
	return idx, nu, nil
}

// MuEncoding selects between the legacy 32-bit-word mu representation and
// the wide Fr representation (spec.md section 9, Open Question 3).
type MuEncoding int

const (
	// MuLegacy stores each mu_j as a little-endian u32, matching the
	// reference implementation bit-for-bit. Overflows if c*NU_MAX*255
	// exceeds 2^32-1; avoiding that is the caller's responsibility
	// (spec.md section 4.6).
	MuLegacy MuEncoding = iota
	// MuWide stores each mu_j as a full 32-byte Fr element, removing the
	// overflow precondition entirely.
	MuWide
)

// EncodeMuLegacy serializes s u32 mu components.
func EncodeMuLegacy(mu []uint32) []byte {
	out := make([]byte, len(mu)*MuWordSize)
	for j, v := range mu {
		binary.LittleEndian.PutUint32(out[j*MuWordSize:], v)
	}
	return out
}

// DecodeMuLegacy parses an s-word legacy mu-record.
func DecodeMuLegacy(data []byte, s int) ([]uint32, error) {
	if len(data) != s*MuWordSize {
		return nil, errors.Wrapf(ErrLengthMismatch, "mu-record: want %d bytes for s=%d, got %d", s*MuWordSize, s, len(data))
	}
	out := make([]uint32, s)
	for j := range out {
		out[j] = binary.LittleEndian.Uint32(data[j*MuWordSize:])
	}
	return out, nil
}

// EncodeMuWide serializes s Fr-valued mu components.
func EncodeMuWide(mu []curve.Scalar) []byte {
	out := make([]byte, 0, len(mu)*curve.ScalarSize)
	for i := range mu {
		out = append(out, curve.EncodeScalar(&mu[i])...)
	}
	return out
}

// DecodeMuWide parses an s-element wide mu-record.
func DecodeMuWide(data []byte, s int) ([]curve.Scalar, error) {
	if len(data) != s*curve.ScalarSize {
		return nil, errors.Wrapf(ErrLengthMismatch, "mu-record (wide): want %d bytes for s=%d, got %d", s*curve.ScalarSize, s, len(data))
	}
	out := make([]curve.Scalar, s)
	for j := range out {
		v, err := curve.DecodeScalar(data[j*curve.ScalarSize : (j+1)*curve.ScalarSize])
		if err != nil {
			return nil, errors.Wrapf(err, "mu-record (wide): component %d", j)
		}
		out[j] = v
	}
	return out, nil
}

func wrapLen(err error, record string) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, "codec: decoding %s-record", record)
}
