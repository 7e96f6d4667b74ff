// Package porerr defines the error kinds from spec.md section 7: IOError,
// DecodeError, and ParameterError are all fatal and distinguishable from
// ProofRejected, which is never an error -- it is Verify returning
// (false, nil). Wrapping uses github.com/pkg/errors so callers retain a
// path/operation-annotated message chain while still being able to test
// the underlying Kind with errors.Is against the sentinel values below.
package porerr

import "github.com/pkg/errors"

// Kind classifies a fatal core error.
type Kind int

const (
	// KindIO covers file-missing, short-read/write, seek-past-end, and
	// permission failures.
	KindIO Kind = iota
	// KindDecode covers record-length mismatches and off-curve points.
	KindDecode
	// KindParameter covers s <= 0, s > filesize, c < 0, and n == 0,
	// surfaced before any cryptographic work is attempted.
	KindParameter
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindDecode:
		return "decode"
	case KindParameter:
		return "parameter"
	default:
		return "unknown"
	}
}

// Sentinels usable with errors.Is after Wrap.
var (
	ErrIO        = errors.New("porerr: I/O error")
	ErrDecode    = errors.New("porerr: decode error")
	ErrParameter = errors.New("porerr: parameter error")
)

func sentinelFor(k Kind) error {
	switch k {
	case KindIO:
		return ErrIO
	case KindDecode:
		return ErrDecode
	case KindParameter:
		return ErrParameter
	default:
		return errors.New("porerr: unknown error")
	}
}

// Wrap annotates err with the given kind and a formatted message, in the
// same style as the teacher's perkeep-derived idiom (errors.Wrapf layering
// context onto an underlying error) while still letting callers recover
// the Kind via Is.
func Wrap(k Kind, err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	wrapped := errors.Wrapf(err, format, args...)
	return &kindError{kind: k, err: wrapped}
}

// New creates a fresh error of the given kind with no underlying cause,
// for ParameterError checks that run before any I/O or decoding.
func New(k Kind, format string, args ...interface{}) error {
	return &kindError{kind: k, err: errors.Errorf(format, args...)}
}

type kindError struct {
	kind Kind
	err  error
}

func (e *kindError) Error() string { return e.err.Error() }
func (e *kindError) Unwrap() error { return e.err }

// Is reports whether target is the sentinel for this error's Kind, so
// callers can write errors.Is(err, porerr.ErrParameter).
func (e *kindError) Is(target error) bool { return target == sentinelFor(e.kind) }

// KindOf extracts the Kind from err, if err (or something it wraps) was
// produced by Wrap or New. The second return is false for plain errors
// (e.g. a ProofRejected boolean never reaches this path at all).
func KindOf(err error) (Kind, bool) {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.kind, true
	}
	return 0, false
}
