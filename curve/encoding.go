package curve

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Fixed-width, little... no: big-endian per-limb encoding. gnark-crypto's
// fp.Element.Bytes and fr.Element.Bytes both already produce the canonical
// 32-byte big-endian representation; this package just concatenates limbs
// in the declared field order (X, Y, Z) and never reinterprets endianness.
const (
	// ScalarSize is the encoded width of an Fr element.
	ScalarSize = fr.Bytes
	// G1Size is the encoded width of a Jacobian G1 point: X || Y || Z.
	G1Size = 3 * fp.Bytes
	// G2Size is the encoded width of a Jacobian G2 point: X || Y || Z,
	// each an Fp2 element (two Fp limbs).
	G2Size = 3 * 2 * fp.Bytes
)

// EncodeScalar serializes s to its canonical 32-byte big-endian form.
func EncodeScalar(s *Scalar) []byte {
	b := s.Bytes()
	return b[:]
}

// DecodeScalar parses a canonical 32-byte big-endian Fr element. It rejects
// any input whose length is not exactly ScalarSize.
func DecodeScalar(data []byte) (Scalar, error) {
	var s Scalar
	if len(data) != ScalarSize {
		return s, fmt.Errorf("curve: scalar record must be %d bytes, got %d", ScalarSize, len(data))
	}
	s.SetBytes(data)
	return s, nil
}

// EncodeG1 serializes a Jacobian G1 point as X || Y || Z, 32 bytes each.
func EncodeG1(p *G1) []byte {
	out := make([]byte, 0, G1Size)
	xb := p.X.Bytes()
	yb := p.Y.Bytes()
	zb := p.Z.Bytes()
	out = append(out, xb[:]...)
	out = append(out, yb[:]...)
	out = append(out, zb[:]...)
	return out
}

// DecodeG1 parses a 96-byte Jacobian G1 record. The point is validated to
// lie on the curve in its affine form, per spec.md section 4.1's optional
// on-curve rejection; the all-zero Z encoding (the identity) is accepted
// without an on-curve check since it carries no affine representative.
func DecodeG1(data []byte) (G1, error) {
	var p G1
	if len(data) != G1Size {
		return p, fmt.Errorf("curve: G1 record must be %d bytes, got %d", G1Size, len(data))
	}
	p.X.SetBytes(data[0:fp.Bytes])
	p.Y.SetBytes(data[fp.Bytes : 2*fp.Bytes])
	p.Z.SetBytes(data[2*fp.Bytes : 3*fp.Bytes])

	if p.Z.IsZero() {
		return p, nil
	}
	var aff bn254.G1Affine
	aff.FromJacobian(&p)
	if !aff.IsOnCurve() {
		return p, fmt.Errorf("curve: decoded G1 point is not on the curve")
	}
	return p, nil
}

// EncodeG2 serializes a Jacobian G2 point as X || Y || Z, each an Fp2
// element encoded as A0 || A1 (32 bytes each), 192 bytes total.
func EncodeG2(p *G2) []byte {
	out := make([]byte, 0, G2Size)
	for _, limb := range []bn254.E2{p.X, p.Y, p.Z} {
		a0 := limb.A0.Bytes()
		a1 := limb.A1.Bytes()
		out = append(out, a0[:]...)
		out = append(out, a1[:]...)
	}
	return out
}

// DecodeG2 parses a 192-byte Jacobian G2 record, on-curve checked the same
// way as DecodeG1.
func DecodeG2(data []byte) (G2, error) {
	var p G2
	if len(data) != G2Size {
		return p, fmt.Errorf("curve: G2 record must be %d bytes, got %d", G2Size, len(data))
	}
	limbs := [3]*bn254.E2{&p.X, &p.Y, &p.Z}
	for i, limb := range limbs {
		off := i * 2 * fp.Bytes
		limb.A0.SetBytes(data[off : off+fp.Bytes])
		limb.A1.SetBytes(data[off+fp.Bytes : off+2*fp.Bytes])
	}

	if p.Z.IsZero() {
		return p, nil
	}
	var aff bn254.G2Affine
	aff.FromJacobian(&p)
	if !aff.IsOnCurve() {
		return p, fmt.Errorf("curve: decoded G2 point is not on the curve")
	}
	return p, nil
}
