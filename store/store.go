// Package store is the only package that knows the working-directory
// layout from spec.md section 6: sk.bin, pk.bin, name.bin, u.bin,
// signature.bin, challenge.bin, sigma.bin, mu.bin, each holding exactly
// one record type with no header or framing byte. Every other package
// (keygen, signer, challenge, prover, verifier) works over typed values
// and io.Reader/io.Writer; store is the serialization boundary, per
// spec.md section 9's "implicit files-as-state" redesign note.
package store

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/retrieveproofs/por/challenge"
	"github.com/retrieveproofs/por/codec"
	"github.com/retrieveproofs/por/curve"
	"github.com/retrieveproofs/por/keygen"
	"github.com/retrieveproofs/por/porerr"
	"github.com/retrieveproofs/por/prover"
)

// Filenames for the fixed working-directory layout.
const (
	SKFile        = "sk.bin"
	PKFile        = "pk.bin"
	NameFile      = "name.bin"
	UFile         = "u.bin"
	SignatureFile = "signature.bin"
	ChallengeFile = "challenge.bin"
	SigmaFile     = "sigma.bin"
	MuFile        = "mu.bin"
)

// Dir is a working directory holding the eight PoR artifact files.
type Dir struct {
	Path string
}

// Open returns a Dir rooted at path, creating the directory if it does
// not already exist.
func Open(path string) (Dir, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return Dir{}, porerr.Wrap(porerr.KindIO, err, "store: creating working directory %s", path)
	}
	return Dir{Path: path}, nil
}

func (d Dir) path(name string) string { return filepath.Join(d.Path, name) }

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return porerr.Wrap(porerr.KindIO, err, "store: writing %s", path)
	}
	return nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, porerr.Wrap(porerr.KindIO, err, "store: reading %s", path)
	}
	return data, nil
}

// WriteParams persists the KeyGen output.
func (d Dir) WriteParams(p keygen.Params) error {
	if err := writeFile(d.path(SKFile), codec.EncodeSK(p.SK)); err != nil {
		return err
	}
	if err := writeFile(d.path(PKFile), codec.EncodePK(p.PK)); err != nil {
		return err
	}
	if err := writeFile(d.path(NameFile), codec.EncodeName(p.Name)); err != nil {
		return err
	}
	return writeFile(d.path(UFile), codec.EncodeU(p.U))
}

// ReadSK reads the secret key record.
func (d Dir) ReadSK() (curve.Scalar, error) {
	data, err := readFile(d.path(SKFile))
	if err != nil {
		return curve.Scalar{}, err
	}
	sk, err := codec.DecodeSK(data)
	if err != nil {
		return curve.Scalar{}, porerr.Wrap(porerr.KindDecode, err, "store: decoding %s", SKFile)
	}
	return sk, nil
}

// ReadPK reads the public key record.
func (d Dir) ReadPK() (curve.G2, error) {
	data, err := readFile(d.path(PKFile))
	if err != nil {
		return curve.G2{}, err
	}
	pk, err := codec.DecodePK(data)
	if err != nil {
		return curve.G2{}, porerr.Wrap(porerr.KindDecode, err, "store: decoding %s", PKFile)
	}
	return pk, nil
}

// ReadName reads the file-name scalar record.
func (d Dir) ReadName() (curve.Scalar, error) {
	data, err := readFile(d.path(NameFile))
	if err != nil {
		return curve.Scalar{}, err
	}
	name, err := codec.DecodeName(data)
	if err != nil {
		return curve.Scalar{}, porerr.Wrap(porerr.KindDecode, err, "store: decoding %s", NameFile)
	}
	return name, nil
}

// ReadU reads the length-s generator vector.
func (d Dir) ReadU(s int) ([]curve.G1, error) {
	data, err := readFile(d.path(UFile))
	if err != nil {
		return nil, err
	}
	u, err := codec.DecodeU(data, s)
	if err != nil {
		return nil, porerr.Wrap(porerr.KindDecode, err, "store: decoding %s", UFile)
	}
	return u, nil
}

// CreateSignatureWriter opens signature.bin for sequential tag emission,
// truncating any existing file.
func (d Dir) CreateSignatureWriter() (*os.File, error) {
	f, err := os.Create(d.path(SignatureFile))
	if err != nil {
		return nil, porerr.Wrap(porerr.KindIO, err, "store: creating %s", SignatureFile)
	}
	return f, nil
}

// TagAt returns a prover.TagAt closure that seeks into signature.bin by
// computed offset i*G1Size, the O(1) random-access pattern spec.md section
// 4.1 requires.
func (d Dir) TagAt() (prover.TagAt, func() error, error) {
	f, err := os.Open(d.path(SignatureFile))
	if err != nil {
		return nil, nil, porerr.Wrap(porerr.KindIO, err, "store: opening %s", SignatureFile)
	}
	buf := make([]byte, curve.G1Size)
	fn := func(i uint64) (curve.G1, error) {
		off := int64(i) * int64(curve.G1Size)
		if _, err := f.ReadAt(buf, off); err != nil {
			return curve.G1{}, errors.Wrapf(err, "reading tag at index %d", i)
		}
		return curve.DecodeG1(buf)
	}
	return fn, f.Close, nil
}

// SignatureLen returns the byte length of signature.bin, used by callers
// that want TagCount without decoding every record.
func (d Dir) SignatureLen() (int64, error) {
	info, err := os.Stat(d.path(SignatureFile))
	if err != nil {
		return 0, porerr.Wrap(porerr.KindIO, err, "store: stat %s", SignatureFile)
	}
	return info.Size(), nil
}

// WriteChallenge persists a challenge set in generation order.
func (d Dir) WriteChallenge(q challenge.Set) error {
	buf := make([]byte, 0, len(q)*(codec.IndexSize+codec.WeightSize))
	for _, pair := range q {
		buf = codec.EncodeChallengePair(buf, pair.Index, pair.Weight)
	}
	return writeFile(d.path(ChallengeFile), buf)
}

// ReadChallenge reads back a challenge set of the given cardinality.
func (d Dir) ReadChallenge(c int) (challenge.Set, error) {
	data, err := readFile(d.path(ChallengeFile))
	if err != nil {
		return nil, err
	}
	idx, nu, err := codec.DecodeChallengePairs(data, c)
	if err != nil {
		return nil, porerr.Wrap(porerr.KindDecode, err, "store: decoding %s", ChallengeFile)
	}
	out := make(challenge.Set, c)
	for k := range out {
		out[k] = challenge.Pair{Index: idx[k], Weight: nu[k]}
	}
	return out, nil
}

// WriteProof persists sigma.bin and mu.bin (legacy 32-bit encoding).
func (d Dir) WriteProof(p prover.Proof) error {
	if err := writeFile(d.path(SigmaFile), codec.EncodeSigma(p.Sigma)); err != nil {
		return err
	}
	return writeFile(d.path(MuFile), codec.EncodeMuLegacy(p.Mu))
}

// ReadProof reads back sigma.bin and mu.bin (legacy encoding) for an
// s-dimensional response vector.
func (d Dir) ReadProof(s int) (prover.Proof, error) {
	sigmaData, err := readFile(d.path(SigmaFile))
	if err != nil {
		return prover.Proof{}, err
	}
	sigma, err := codec.DecodeSigma(sigmaData)
	if err != nil {
		return prover.Proof{}, porerr.Wrap(porerr.KindDecode, err, "store: decoding %s", SigmaFile)
	}

	muData, err := readFile(d.path(MuFile))
	if err != nil {
		return prover.Proof{}, err
	}
	mu, err := codec.DecodeMuLegacy(muData, s)
	if err != nil {
		return prover.Proof{}, porerr.Wrap(porerr.KindDecode, err, "store: decoding %s", MuFile)
	}

	return prover.Proof{Sigma: sigma, Mu: mu}, nil
}

// WriteProofWide persists sigma.bin and mu.bin using the wide-Fr mu
// encoding: each mu_j is stored as a full 32-byte Fr element instead of a
// packed uint32. The stored values are the uint32 values of p.Mu, so the
// record carries no wider range than the legacy encoding and the
// c*NuMax*255 <= 2^32-1 precondition on Prove still applies.
func (d Dir) WriteProofWide(p prover.Proof) error {
	if err := writeFile(d.path(SigmaFile), codec.EncodeSigma(p.Sigma)); err != nil {
		return err
	}
	wide := make([]curve.Scalar, len(p.Mu))
	for j, v := range p.Mu {
		wide[j] = curve.ScalarFromUint64(uint64(v))
	}
	return writeFile(d.path(MuFile), codec.EncodeMuWide(wide))
}

// ReadProofWide reads back sigma.bin and a wide-encoded mu.bin for an
// s-dimensional response vector.
func (d Dir) ReadProofWide(s int) (prover.Proof, error) {
	sigmaData, err := readFile(d.path(SigmaFile))
	if err != nil {
		return prover.Proof{}, err
	}
	sigma, err := codec.DecodeSigma(sigmaData)
	if err != nil {
		return prover.Proof{}, porerr.Wrap(porerr.KindDecode, err, "store: decoding %s", SigmaFile)
	}

	muData, err := readFile(d.path(MuFile))
	if err != nil {
		return prover.Proof{}, err
	}
	wide, err := codec.DecodeMuWide(muData, s)
	if err != nil {
		return prover.Proof{}, porerr.Wrap(porerr.KindDecode, err, "store: decoding %s", MuFile)
	}
	mu := make([]uint32, len(wide))
	for j, sc := range wide {
		mu[j] = uint32(curve.ScalarToUint64(sc))
	}
	return prover.Proof{Sigma: sigma, Mu: mu}, nil
}
