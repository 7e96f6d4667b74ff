// Command por drives the five-stage Proof of Retrievability protocol --
// setup, sign, challenge, prove, verify -- against a single target file,
// persisting the Shacham-Waters artifacts to a working directory.
//
// Usage:
//
//	por setup     --file F --s N [--datadir D]
//	por sign      --file F --s N [--datadir D]
//	por challenge --file F --s N --c N [--datadir D]
//	por prove     --file F --s N [--datadir D]
//	por verify    --s N [--datadir D]
//	por run       F s_min s_max interval c [--workdir D] [--verbosity V]
//	por bench     F s_min s_max interval c --out results.csv
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"

	"github.com/retrieveproofs/por/challenge"
	"github.com/retrieveproofs/por/chunker"
	"github.com/retrieveproofs/por/codec"
	"github.com/retrieveproofs/por/config"
	"github.com/retrieveproofs/por/curve"
	"github.com/retrieveproofs/por/keygen"
	"github.com/retrieveproofs/por/log"
	"github.com/retrieveproofs/por/metrics"
	"github.com/retrieveproofs/por/porerr"
	"github.com/retrieveproofs/por/prover"
	"github.com/retrieveproofs/por/signer"
	"github.com/retrieveproofs/por/store"
	"github.com/retrieveproofs/por/verifier"
)

// Build-time version info, overridable with ldflags:
//
//	go build -ldflags "-X main.version=v0.2.0 -X main.commit=abc1234"
var (
	version = "v0.1.0-dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	cfg := config.DefaultConfig()

	app := &cli.App{
		Name:    "por",
		Usage:   "publicly-verifiable proof of retrievability",
		Version: fmt.Sprintf("%s (commit %s)", version, commit),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "datadir", Value: cfg.DataDir, Usage: "working directory for protocol artifacts", Destination: &cfg.DataDir},
			&cli.StringFlag{Name: "loglevel", Value: cfg.LogLevel, Usage: "log level (debug, info, warn, error)", Destination: &cfg.LogLevel},
			&cli.BoolFlag{Name: "metrics", Value: cfg.Metrics, Usage: "serve a Prometheus /metrics endpoint", Destination: &cfg.Metrics},
			&cli.StringFlag{Name: "metrics.addr", Value: cfg.MetricsAddr, Usage: "listen address for the metrics endpoint", Destination: &cfg.MetricsAddr},
			&cli.BoolFlag{Name: "mu-wide", Value: cfg.MuWide, Usage: "store mu as wide Fr elements instead of packed uint32", Destination: &cfg.MuWide},
		},
		Before: func(c *cli.Context) error {
			log.SetDefault(log.New(slogLevel(cfg.LogLevel)))
			if cfg.Metrics {
				startMetricsServer(cfg.MetricsAddr)
			}
			return nil
		},
		Commands: []*cli.Command{
			setupCommand(&cfg),
			signCommand(&cfg),
			challengeCommand(&cfg),
			proveCommand(&cfg),
			verifyCommand(&cfg),
			runCommand(&cfg),
			benchCommand(&cfg),
		},
	}

	if err := app.Run(args); err != nil {
		fmt.Fprintf(os.Stderr, "por: %v\n", err)
		return 1
	}
	return 0
}

func fileAndBlockFlags(cfg *config.Config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "file", Usage: "path to the target file", Destination: &cfg.TargetFile},
		&cli.IntFlag{Name: "s", Value: cfg.BlockSize, Usage: "sub-block size in bytes", Destination: &cfg.BlockSize},
	}
}

func setupCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "run KeyGen: sample sk, pk, name, and the u generator vector",
		Flags: fileAndBlockFlags(cfg),
		Action: func(c *cli.Context) error {
			return doSetup(cfg)
		},
	}
}

func signCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "sign",
		Usage: "run Sign: tag every complete s-byte block of the target file",
		Flags: fileAndBlockFlags(cfg),
		Action: func(c *cli.Context) error {
			return doSign(cfg)
		},
	}
}

func challengeCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "challenge",
		Usage: "run Challenge: draw c independent (index, weight) pairs",
		Flags: append(fileAndBlockFlags(cfg),
			&cli.IntFlag{Name: "c", Value: cfg.ChallengeCount, Usage: "number of challenge pairs", Destination: &cfg.ChallengeCount},
		),
		Action: func(c *cli.Context) error {
			return doChallenge(cfg)
		},
	}
}

func proveCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "prove",
		Usage: "run Prove: aggregate the challenged tags and sub-blocks",
		Flags: append(fileAndBlockFlags(cfg), workersFlag(cfg)),
		Action: func(c *cli.Context) error {
			return doProve(cfg)
		},
	}
}

func workersFlag(cfg *config.Config) cli.Flag {
	return &cli.IntFlag{
		Name:        "workers",
		Value:       cfg.Workers,
		Usage:       "worker pool size for Prove (0 = GOMAXPROCS, 1 = sequential)",
		Destination: &cfg.Workers,
	}
}

func verifyCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "run Verify: check the pairing identity against sigma and mu",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "s", Value: cfg.BlockSize, Usage: "sub-block size in bytes", Destination: &cfg.BlockSize},
		},
		Action: func(c *cli.Context) error {
			ok, err := doVerify(cfg)
			if err != nil {
				return err
			}
			printVerdict(ok)
			if !ok {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

// sweepFlags are the options shared by the run and bench sweep commands,
// layered on top of the positional <file> <s_min> <s_max> <interval> <c>
// arguments.
func sweepFlags(cfg *config.Config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "workdir", Value: cfg.DataDir, Usage: "base working directory; a fresh s-<n> subdirectory is created under it per iteration", Destination: &cfg.DataDir},
		&cli.IntFlag{Name: "verbosity", Value: cfg.Verbosity, Usage: "log verbosity 0-5, mirroring the teacher's cmd convention", Destination: &cfg.Verbosity},
		workersFlag(cfg),
	}
}

// parseSweepArgs reads the five positional sweep arguments into cfg and
// validates them independent of the target file's size.
func parseSweepArgs(c *cli.Context, cfg *config.Config) error {
	if c.Args().Len() != 5 {
		return cli.Exit("usage: por run|bench <file> <s_min> <s_max> <interval> <c>", 1)
	}
	cfg.TargetFile = c.Args().Get(0)
	fields := [4]*int{&cfg.SMin, &cfg.SMax, &cfg.Interval, &cfg.ChallengeCount}
	names := [4]string{"s_min", "s_max", "interval", "c"}
	for i, dst := range fields {
		v, err := strconv.Atoi(c.Args().Get(1 + i))
		if err != nil {
			return cli.Exit(fmt.Sprintf("%s: %v", names[i], err), 1)
		}
		*dst = v
	}
	if err := cfg.ValidateSweep(); err != nil {
		return err
	}
	return nil
}

// sweepResult is one row of a run/bench sweep: the block size tried, the
// challenge cardinality and block count it ran against, per-stage timings,
// and whether Verify accepted the proof.
type sweepResult struct {
	S, C, N                   int
	SignMS, ProveMS, VerifyMS float64
	Pass                      bool
}

// runSweep iterates s from cfg.SMin to cfg.SMax in steps of cfg.Interval,
// running the full five-stage pipeline against a fresh s-<n> subdirectory
// of cfg.DataDir for each s, per the teacher's convention of giving each
// distinct parameterization its own working directory.
func runSweep(cfg *config.Config) ([]sweepResult, error) {
	log.SetDefault(log.New(verbosityToSlogLevel(cfg.Verbosity)))
	logger := log.Default().Module("run")
	baseDir := cfg.DataDir

	var results []sweepResult
	for s := cfg.SMin; s <= cfg.SMax; s += cfg.Interval {
		iter := *cfg
		iter.BlockSize = s
		iter.DataDir = filepath.Join(baseDir, fmt.Sprintf("s-%d", s))

		n, err := iter.BlockCount()
		if err != nil {
			return results, err
		}
		if n == 0 {
			return results, porerr.New(porerr.KindParameter, "run: s=%d exceeds target file size, zero complete blocks", s)
		}

		if err := doSetup(&iter); err != nil {
			return results, err
		}

		signStart := time.Now()
		if err := doSign(&iter); err != nil {
			return results, err
		}
		signMS := float64(time.Since(signStart).Milliseconds())

		if err := doChallenge(&iter); err != nil {
			return results, err
		}

		proveStart := time.Now()
		if err := doProve(&iter); err != nil {
			return results, err
		}
		proveMS := float64(time.Since(proveStart).Milliseconds())

		verifyStart := time.Now()
		ok, err := doVerify(&iter)
		if err != nil {
			return results, err
		}
		verifyMS := float64(time.Since(verifyStart).Milliseconds())

		printVerdict(ok)
		logger.Info("sweep iteration complete", "s", s, "n", n, "pass", ok)
		results = append(results, sweepResult{S: s, C: iter.ChallengeCount, N: n, SignMS: signMS, ProveMS: proveMS, VerifyMS: verifyMS, Pass: ok})
	}

	passed := 0
	for _, r := range results {
		if r.Pass {
			passed++
		}
	}
	logger.Info("sweep complete", "iterations", len(results), "passed", passed)
	return results, nil
}

// writeBenchCSV writes one (s, c, n, sign_ms, prove_ms, verify_ms, pass)
// row per sweep iteration, the benchmark/CSV writer spec.md names as an
// external collaborator.
func writeBenchCSV(path string, results []sweepResult) error {
	f, err := os.Create(path)
	if err != nil {
		return porerr.Wrap(porerr.KindIO, err, "bench: creating %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"s", "c", "n", "sign_ms", "prove_ms", "verify_ms", "pass"}); err != nil {
		return porerr.Wrap(porerr.KindIO, err, "bench: writing header")
	}
	for _, r := range results {
		row := []string{
			strconv.Itoa(r.S),
			strconv.Itoa(r.C),
			strconv.Itoa(r.N),
			strconv.FormatFloat(r.SignMS, 'f', 3, 64),
			strconv.FormatFloat(r.ProveMS, 'f', 3, 64),
			strconv.FormatFloat(r.VerifyMS, 'f', 3, 64),
			strconv.FormatBool(r.Pass),
		}
		if err := w.Write(row); err != nil {
			return porerr.Wrap(porerr.KindIO, err, "bench: writing row for s=%d", r.S)
		}
	}
	if err := w.Error(); err != nil {
		return porerr.Wrap(porerr.KindIO, err, "bench: flushing %s", path)
	}
	return nil
}

// verbosityToSlogLevel maps the teacher's 0-5 verbosity convention onto
// slog's four levels.
func verbosityToSlogLevel(v int) slog.Level {
	switch {
	case v <= 1:
		return slog.LevelError
	case v == 2:
		return slog.LevelWarn
	case v == 3:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

func runCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "sweep setup/sign/challenge/prove/verify across a range of block sizes",
		ArgsUsage: "<file> <s_min> <s_max> <interval> <c>",
		Flags:     sweepFlags(cfg),
		Action: func(c *cli.Context) error {
			if err := parseSweepArgs(c, cfg); err != nil {
				return err
			}
			results, err := runSweep(cfg)
			if err != nil {
				return err
			}
			failures := 0
			for _, r := range results {
				if !r.Pass {
					failures++
				}
			}
			if failures > 0 {
				return cli.Exit(fmt.Sprintf("%d/%d sweep iterations failed", failures, len(results)), 1)
			}
			return nil
		},
	}
}

func benchCommand(cfg *config.Config) *cli.Command {
	var outPath string
	flags := append(sweepFlags(cfg), &cli.StringFlag{Name: "out", Value: "bench.csv", Usage: "CSV output path", Destination: &outPath})
	return &cli.Command{
		Name:      "bench",
		Usage:     "sweep setup/sign/challenge/prove/verify and write per-iteration timings as CSV",
		ArgsUsage: "<file> <s_min> <s_max> <interval> <c>",
		Flags:     flags,
		Action: func(c *cli.Context) error {
			if err := parseSweepArgs(c, cfg); err != nil {
				return err
			}
			results, err := runSweep(cfg)
			if err != nil {
				return err
			}
			return writeBenchCSV(outPath, results)
		},
	}
}

func doSetup(cfg *config.Config) error {
	if err := cfg.InitDataDir(); err != nil {
		return err
	}
	params, err := keygen.Setup(cfg.BlockSize)
	if err != nil {
		return err
	}
	dir, err := store.Open(cfg.DataDir)
	if err != nil {
		return err
	}
	metrics.SetupsRun.Inc()
	return dir.WriteParams(params)
}

func doSign(cfg *config.Config) error {
	dir, err := store.Open(cfg.DataDir)
	if err != nil {
		return err
	}
	sk, err := dir.ReadSK()
	if err != nil {
		return err
	}
	name, err := dir.ReadName()
	if err != nil {
		return err
	}
	u, err := dir.ReadU(cfg.BlockSize)
	if err != nil {
		return err
	}

	f, err := os.Open(cfg.TargetFile)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := dir.CreateSignatureWriter()
	if err != nil {
		return err
	}
	defer w.Close()

	timer := metrics.NewTimer(metrics.SignDuration)
	n, err := signer.Sign(f, cfg.BlockSize, sk, name, u, func(i int, sigma curve.G1) error {
		tag := codec.EncodeTag(sigma)
		if _, werr := w.Write(tag); werr != nil {
			return werr
		}
		metrics.ArtifactBytesWritten.Add(int64(len(tag)))
		return nil
	})
	timer.Stop()
	if err != nil {
		return err
	}
	metrics.SignBlocksTagged.Add(int64(n))
	return nil
}

func doChallenge(cfg *config.Config) error {
	n, err := cfg.BlockCount()
	if err != nil {
		return err
	}
	q, err := challenge.Generate(n, cfg.ChallengeCount)
	if err != nil {
		return err
	}
	metrics.ChallengeRounds.Inc()
	metrics.ChallengesIssued.Add(int64(len(q)))
	dir, err := store.Open(cfg.DataDir)
	if err != nil {
		return err
	}
	return dir.WriteChallenge(q)
}

func doProve(cfg *config.Config) error {
	dir, err := store.Open(cfg.DataDir)
	if err != nil {
		return err
	}
	q, err := dir.ReadChallenge(cfg.ChallengeCount)
	if err != nil {
		return err
	}
	rawTagAt, closeFn, err := dir.TagAt()
	if err != nil {
		return err
	}
	defer closeFn()
	tagAt := func(i uint64) (curve.G1, error) {
		g, err := rawTagAt(i)
		if err == nil {
			metrics.ArtifactBytesRead.Add(int64(curve.G1Size))
		}
		return g, err
	}

	f, err := os.Open(cfg.TargetFile)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}
	src := chunker.NewSource(f, info.Size())

	timer := metrics.NewTimer(metrics.ProveDuration)
	var proof prover.Proof
	if cfg.Workers == 1 {
		proof, err = prover.Prove(q, tagAt, src, cfg.BlockSize)
	} else {
		metrics.ProveActiveWorkers.Set(int64(cfg.Workers))
		proof, err = prover.ProveConcurrent(q, tagAt, src, cfg.BlockSize, cfg.Workers)
		metrics.ProveActiveWorkers.Set(0)
	}
	timer.Stop()
	if err != nil {
		return err
	}
	metrics.ProofsComputed.Inc()
	if cfg.MuWide {
		return dir.WriteProofWide(proof)
	}
	return dir.WriteProof(proof)
}

func doVerify(cfg *config.Config) (bool, error) {
	dir, err := store.Open(cfg.DataDir)
	if err != nil {
		return false, err
	}
	pk, err := dir.ReadPK()
	if err != nil {
		return false, err
	}
	name, err := dir.ReadName()
	if err != nil {
		return false, err
	}
	u, err := dir.ReadU(cfg.BlockSize)
	if err != nil {
		return false, err
	}
	q, err := dir.ReadChallenge(cfg.ChallengeCount)
	if err != nil {
		return false, err
	}
	var proof prover.Proof
	if cfg.MuWide {
		proof, err = dir.ReadProofWide(cfg.BlockSize)
	} else {
		proof, err = dir.ReadProof(cfg.BlockSize)
	}
	if err != nil {
		return false, err
	}

	timer := metrics.NewTimer(metrics.VerifyDuration)
	ok, err := verifier.Verify(pk, name, u, q, proof.Sigma, proof.Mu)
	timer.Stop()
	metrics.VerificationsRun.Inc()
	if ok {
		metrics.VerificationsAccepted.Inc()
	} else {
		metrics.VerificationsRejected.Inc()
	}
	return ok, err
}

func printVerdict(ok bool) {
	formatter := &log.ColorFormatter{}
	entry := log.LogEntry{Timestamp: time.Now()}
	if ok {
		entry.Level, entry.Message = log.INFO, "PASS: proof of retrievability verified"
	} else {
		entry.Level, entry.Message = log.ERROR, "FAIL: proof rejected"
	}
	fmt.Println(formatter.Format(entry))
}

func slogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// startMetricsServer registers the default metrics.Registry with a real
// prometheus.Registry and serves it via promhttp, in the background, for
// the lifetime of the process.
func startMetricsServer(addr string) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(metrics.NewClientCollector(metrics.DefaultRegistry, "por"))

	sys := metrics.NewSystemMetrics()
	sys.SetBlocksTaggedFunc(func() uint64 { return uint64(metrics.SignBlocksTagged.Value()) })
	sys.SetActiveWorkersFunc(func() int { return int(metrics.ProveActiveWorkers.Value()) })

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/debug/system", func(w http.ResponseWriter, r *http.Request) {
		data, err := sys.ExportJSON()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})
	mux.HandleFunc("/debug/snapshot", func(w http.ResponseWriter, r *http.Request) {
		data, err := json.Marshal(metrics.DefaultRegistry.Snapshot())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Default().Module("metrics").Error("metrics server stopped", "error", err)
		}
	}()

	log.Default().Module("metrics").Info("metrics server started", "addr", addr)
}
