package tts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// Engine composes validation, cache lookup, token generation, synthesis,
// and storage into one request/response cycle. Each GenerateSpeech call is
// independent; the cache and the counters are the only shared state, and
// both are internally synchronized. The engine imposes no concurrency
// policy of its own and accepts whatever parallelism the caller dispatches.
type Engine struct {
	client TokenClient
	synth  Synthesizer
	cache  AudioCache
	config Config
	stats  *EngineStats
	logger *log.Logger
}

// NewEngine creates a pipeline engine. The cache may be nil, which disables
// caching entirely. Counters start at zero.
func NewEngine(cfg Config, client TokenClient, synth Synthesizer, cache AudioCache, logger *log.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		client: client,
		synth:  synth,
		cache:  cache,
		config: cfg,
		stats:  NewEngineStats(),
		logger: logger.With("component", "engine"),
	}, nil
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() StatsSnapshot {
	return e.stats.Snapshot()
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.config
}

// GenerateSpeech runs the full pipeline for one request:
// validate, fingerprint, cache lookup, and on a miss token generation,
// synthesis, and cache store. A cache store failure is non-fatal: the
// freshly synthesized audio is still returned, written outside the cache.
func (e *Engine) GenerateSpeech(ctx context.Context, req SynthesisRequest) (*AudioReference, error) {
	e.stats.recordRequest()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	fp := req.Fingerprint()

	if e.cache != nil && e.config.CacheEnabled {
		if path, size, ok := e.cache.Lookup(fp); ok {
			e.stats.recordHit()
			e.logger.Debug("cache hit", "fingerprint", fp, "path", path)
			return &AudioReference{
				Path:        path,
				Fingerprint: fp,
				Size:        size,
				Duration:    e.durationFromFileSize(size),
				Cached:      true,
			}, nil
		}
	}

	tokens, err := e.client.GenerateTokens(ctx, req)
	if err != nil {
		e.stats.recordFailure()
		e.logger.Error("token generation failed", "fingerprint", fp, "error", err)
		return nil, err
	}

	buf, err := e.synth.Synthesize(tokens, req)
	if err != nil {
		e.stats.recordFailure()
		e.logger.Error("synthesis failed", "fingerprint", fp, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrSynthesis, err)
	}

	data := EncodeWAV(buf)
	e.stats.recordMiss()
	e.logger.Debug("audio generated",
		"fingerprint", fp,
		"tokens", len(tokens),
		"bytes", len(data),
		"duration", buf.Duration())

	ref := &AudioReference{
		Fingerprint: fp,
		Size:        int64(len(data)),
		Duration:    buf.Duration(),
	}

	if e.cache != nil && e.config.CacheEnabled {
		path, storeErr := e.cache.Store(fp, data)
		if storeErr == nil {
			ref.Path = path
			return ref, nil
		}
		// Cache failure degrades to "no caching this round"; the caller
		// still gets the synthesized audio.
		e.logger.Warn("cache store failed", "fingerprint", fp, "error", storeErr)
	}

	path, err := e.writeUncached(fp, data)
	if err != nil {
		e.stats.recordFailure()
		return nil, fmt.Errorf("failed to write audio file: %w", err)
	}
	ref.Path = path
	return ref, nil
}

func (e *Engine) writeUncached(fp string, data []byte) (string, error) {
	dir := e.config.ResolveOutputDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fp+"."+string(e.config.Format))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// durationFromFileSize recovers playback duration from WAV file size for
// cache hits, where the buffer is no longer in memory.
func (e *Engine) durationFromFileSize(size int64) time.Duration {
	if size <= wavHeaderSize {
		return 0
	}
	info := WAVInfo{
		SampleRate: e.config.SampleRate,
		Channels:   1,
		BitDepth:   e.config.BitDepth,
		DataSize:   int(size) - wavHeaderSize,
	}
	return info.Duration()
}
