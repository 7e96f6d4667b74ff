// Package config holds the resolved parameters for a PoR run: the file
// under audit, the block size range to try, the challenge cardinality,
// and the working directory holding the eight artifact files. It mirrors
// the node package's Config/DefaultConfig/Validate layering.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/retrieveproofs/por/challenge"
)

// Config holds all configuration for a por run.
type Config struct {
	// DataDir is the working directory for sk.bin, pk.bin, name.bin, u.bin,
	// signature.bin, challenge.bin, sigma.bin, mu.bin.
	DataDir string

	// TargetFile is the path to the file being proved retrievable.
	TargetFile string

	// BlockSize is the sub-block size s in bytes, shared by KeyGen, Sign,
	// and Prove.
	BlockSize int

	// ChallengeCount is c, the number of independent (index, weight) pairs
	// drawn per challenge.
	ChallengeCount int

	// Workers bounds concurrent per-challenge tag/sub-block work in Prove.
	// 1 runs the sequential path; 0 or negative defaults to GOMAXPROCS.
	Workers int

	// LogLevel controls log verbosity (debug, info, warn, error).
	LogLevel string

	// Metrics enables the Prometheus /metrics HTTP endpoint.
	Metrics bool

	// MetricsAddr is the listen address for the metrics endpoint, used
	// only when Metrics is true.
	MetricsAddr string

	// SMin, SMax, Interval define the block-size range a run/bench sweep
	// iterates over (s = SMin, SMin+Interval, ..., <= SMax). The
	// single-stage commands (setup/sign/challenge/prove/verify) ignore
	// these and use BlockSize directly.
	SMin, SMax, Interval int

	// Verbosity is a 0-5 logging verbosity knob for sweep runs,
	// independent of the finer-grained LogLevel string used by the
	// single-stage commands.
	Verbosity int

	// MuWide selects the wide-Fr mu encoding (codec.MuWide) over the
	// legacy packed-uint32 encoding (codec.MuLegacy) when writing and
	// reading sigma.bin/mu.bin.
	MuWide bool
}

// defaultDataDir mirrors the teacher's defaultDataDir: a dotted directory
// under the user's home, falling back to a relative path if the home
// directory cannot be resolved.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".por"
	}
	return filepath.Join(home, ".por")
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DataDir:        defaultDataDir(),
		BlockSize:      4096,
		ChallengeCount: 20,
		LogLevel:       "info",
		Metrics:        false,
		MetricsAddr:    ":9404",
		SMin:           4096,
		SMax:           4096,
		Interval:       1,
		Verbosity:      3,
	}
}

// ValidateSweep checks the s_min/s_max/interval/c parameters used by a
// run/bench sweep, independent of any particular target file's size
// (spec.md section 7's ParameterError-before-crypto-work requirement).
func (c *Config) ValidateSweep() error {
	if c.TargetFile == "" {
		return fmt.Errorf("config: target file must not be empty")
	}
	if c.SMin <= 0 || c.SMax <= 0 {
		return fmt.Errorf("config: s_min and s_max must be positive, got %d and %d", c.SMin, c.SMax)
	}
	if c.SMax < c.SMin {
		return fmt.Errorf("config: s_max (%d) must be >= s_min (%d)", c.SMax, c.SMin)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("config: interval must be positive, got %d", c.Interval)
	}
	if c.ChallengeCount <= 0 {
		return fmt.Errorf("config: challenge count must be positive, got %d", c.ChallengeCount)
	}
	return nil
}

// Validate checks configuration values for correctness, in the teacher's
// Validate style: field-by-field, plain errors.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("config: datadir must not be empty")
	}
	if c.TargetFile == "" {
		return fmt.Errorf("config: target file must not be empty")
	}
	if c.BlockSize <= 0 {
		return fmt.Errorf("config: block size must be positive, got %d", c.BlockSize)
	}
	if c.ChallengeCount < 0 {
		return fmt.Errorf("config: challenge count must be non-negative, got %d", c.ChallengeCount)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
	return nil
}

// BlockCount returns the number of complete s-byte blocks in TargetFile,
// or an error if the file cannot be stat'd.
func (c *Config) BlockCount() (int, error) {
	info, err := os.Stat(c.TargetFile)
	if err != nil {
		return 0, fmt.Errorf("config: stat target file: %w", err)
	}
	return int(info.Size() / int64(c.BlockSize)), nil
}

// InitDataDir creates the working directory if it does not already exist.
func (c *Config) InitDataDir() error {
	if c.DataDir == "" {
		return fmt.Errorf("config: datadir must not be empty")
	}
	return os.MkdirAll(c.DataDir, 0o755)
}

// ResolvePath joins a relative artifact name onto DataDir.
func (c *Config) ResolvePath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// NuMax re-exports the challenge package's legacy weight bound so callers
// configuring a run do not need to import challenge directly just to
// reference the bound in help text.
const NuMax = challenge.NuMax
