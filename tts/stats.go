package tts

import "sync/atomic"

// EngineStats holds process-lifetime pipeline counters. It is created
// zeroed at engine construction, mutated only by the engine, and safe to
// read concurrently via Snapshot.
type EngineStats struct {
	requests atomic.Int64
	hits     atomic.Int64
	misses   atomic.Int64
	failures atomic.Int64
}

// StatsSnapshot is a point-in-time copy of the engine counters.
type StatsSnapshot struct {
	// TotalRequests counts every GenerateSpeech call.
	TotalRequests int64

	// CacheHits counts requests served from the audio cache.
	CacheHits int64

	// CacheMisses counts requests that generated fresh audio.
	CacheMisses int64

	// TotalFailures counts requests that failed on the synthesis path.
	TotalFailures int64
}

// NewEngineStats returns a zeroed counter set.
func NewEngineStats() *EngineStats {
	return &EngineStats{}
}

// Snapshot returns a consistent-enough copy of the counters for reporting.
func (s *EngineStats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		TotalRequests: s.requests.Load(),
		CacheHits:     s.hits.Load(),
		CacheMisses:   s.misses.Load(),
		TotalFailures: s.failures.Load(),
	}
}

func (s *EngineStats) recordRequest() { s.requests.Add(1) }
func (s *EngineStats) recordHit()     { s.hits.Add(1) }
func (s *EngineStats) recordMiss()    { s.misses.Add(1) }
func (s *EngineStats) recordFailure() { s.failures.Add(1) }
