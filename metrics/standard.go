package metrics

// Pre-defined metrics for the por service. All metrics live in
// DefaultRegistry so they are globally accessible without passing a
// registry around.

var (
	// ---- KeyGen / Sign metrics ----

	// SetupsRun counts KeyGen.Setup invocations.
	SetupsRun = DefaultRegistry.Counter("keygen.setups")
	// SignBlocksTagged counts blocks successfully tagged by Sign.
	SignBlocksTagged = DefaultRegistry.Counter("signer.blocks_tagged")
	// SignDuration records Sign wall-clock duration in milliseconds.
	SignDuration = DefaultRegistry.Histogram("signer.duration_ms")

	// ---- Challenge metrics ----

	// ChallengesIssued counts individual (index, weight) pairs drawn.
	ChallengesIssued = DefaultRegistry.Counter("challenge.pairs_issued")
	// ChallengeRounds counts calls to challenge.Generate.
	ChallengeRounds = DefaultRegistry.Counter("challenge.rounds")

	// ---- Prove / Verify metrics ----

	// ProofsComputed counts completed Prove calls.
	ProofsComputed = DefaultRegistry.Counter("prover.proofs_computed")
	// ProveDuration records Prove wall-clock duration in milliseconds.
	ProveDuration = DefaultRegistry.Histogram("prover.duration_ms")
	// VerificationsRun counts completed Verify calls.
	VerificationsRun = DefaultRegistry.Counter("verifier.verifications_run")
	// VerificationsAccepted counts Verify calls that returned true.
	VerificationsAccepted = DefaultRegistry.Counter("verifier.verifications_accepted")
	// VerificationsRejected counts Verify calls that returned false.
	VerificationsRejected = DefaultRegistry.Counter("verifier.verifications_rejected")
	// VerifyDuration records Verify wall-clock duration in milliseconds.
	VerifyDuration = DefaultRegistry.Histogram("verifier.duration_ms")

	// ---- Store metrics ----

	// ArtifactBytesWritten counts total bytes written across all store
	// artifact files.
	ArtifactBytesWritten = DefaultRegistry.Counter("store.bytes_written")
	// ArtifactBytesRead counts total bytes read across all store artifact
	// files.
	ArtifactBytesRead = DefaultRegistry.Counter("store.bytes_read")

	// ProveActiveWorkers reports the worker-pool size ProveConcurrent is
	// currently running with (0 outside of a Prove call).
	ProveActiveWorkers = DefaultRegistry.Gauge("prover.active_workers")
)
