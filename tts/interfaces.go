package tts

import "context"

// TokenClient generates symbolic audio tokens for a synthesis request by
// calling an upstream language model. Implementations hold no per-request
// state and are safe for concurrent use.
type TokenClient interface {
	// GenerateTokens performs a single bounded call to the upstream model
	// and returns the decoded token stream. It never retries.
	GenerateTokens(ctx context.Context, req SynthesisRequest) ([]int, error)

	// Health checks whether the upstream endpoint is reachable.
	Health(ctx context.Context) error
}

// Synthesizer converts a token stream into a PCM audio buffer. Synthesis is
// synchronous, deterministic, and free of side effects.
type Synthesizer interface {
	Synthesize(tokens []int, req SynthesisRequest) (*AudioBuffer, error)
}

// AudioCache stores synthesized audio keyed by request fingerprint.
// Implementations own the lifecycle of the files they create and must be
// safe for concurrent use.
type AudioCache interface {
	// Lookup returns the path and size of a cached, unexpired entry.
	Lookup(fingerprint string) (path string, size int64, ok bool)

	// Store writes audio bytes under the fingerprint and returns the path.
	Store(fingerprint string, data []byte) (path string, err error)
}
