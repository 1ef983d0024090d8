package metrics

import (
	"sync"
	"time"
)

type providerStats struct {
	calls           int
	errors          int
	rateLimitHits   int
	lastRetryAfter  time.Duration
	lastCallLatency time.Duration
}

type cacheStats struct {
	hits   int
	misses int
}

// Recorder captures lightweight, in-memory metrics about provider calls and
// cache behaviour, mirroring them to OpenTelemetry instruments when configured.
type Recorder struct {
	mu         sync.Mutex
	stats      map[string]*providerStats
	caches     map[string]*cacheStats
	dedupJoins int
	refLoads   map[string]int
	refErrors  map[string]int
	otel       *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats:     make(map[string]*providerStats),
		caches:    make(map[string]*cacheStats),
		refLoads:  make(map[string]int),
		refErrors: make(map[string]int),
		otel:      otel,
	}
}

// RecordProviderAttempt increments counters for a provider call and stores the last observed latency.
func (r *Recorder) RecordProviderAttempt(provider string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStats(provider)
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordProviderAttempt(provider, duration, err)
	}
}

// RecordRateLimit tracks that a provider response hit a rate limit and stores the last Retry-After.
func (r *Recorder) RecordRateLimit(provider string, retryAfter time.Duration) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStats(provider)
	stats.rateLimitHits++
	if retryAfter > 0 {
		stats.lastRetryAfter = retryAfter
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordRateLimit(provider, retryAfter)
	}
}

// RecordCacheLookup counts a hit or miss against the named cache.
func (r *Recorder) RecordCacheLookup(cache string, hit bool) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats, ok := r.caches[cache]
	if !ok {
		stats = &cacheStats{}
		r.caches[cache] = stats
	}
	if hit {
		stats.hits++
	} else {
		stats.misses++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordCacheLookup(cache, hit)
	}
}

// RecordDedupJoin counts a caller that shared another caller's in-flight request.
func (r *Recorder) RecordDedupJoin() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.dedupJoins++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordDedupJoin()
	}
}

// RecordReferenceLoad tracks a reference data load attempt for a kind (teams, leagues, ...).
func (r *Recorder) RecordReferenceLoad(kind, source string, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.refLoads[kind]++
	if err != nil {
		r.refErrors[kind]++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordReferenceLoad(kind, source, err)
	}
}

// ProviderCalls returns the total attempts recorded for a provider.
func (r *Recorder) ProviderCalls(provider string) int {
	return r.Snapshot(provider).Calls
}

// ProviderErrors returns the total failed attempts recorded for a provider.
func (r *Recorder) ProviderErrors(provider string) int {
	return r.Snapshot(provider).Errors
}

// RateLimitHits returns the number of rate limit events seen for a provider.
func (r *Recorder) RateLimitHits(provider string) int {
	return r.Snapshot(provider).RateLimitHits
}

// LastRetryAfter returns the most recent Retry-After recorded for a provider.
func (r *Recorder) LastRetryAfter(provider string) time.Duration {
	return r.Snapshot(provider).LastRetryAfter
}

// LastCallLatency returns the last recorded latency for a provider call.
func (r *Recorder) LastCallLatency(provider string) time.Duration {
	return r.Snapshot(provider).LastCallLatency
}

// CacheHits returns the hits recorded for a cache.
func (r *Recorder) CacheHits(cache string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if stats, ok := r.caches[cache]; ok {
		return stats.hits
	}
	return 0
}

// CacheMisses returns the misses recorded for a cache.
func (r *Recorder) CacheMisses(cache string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if stats, ok := r.caches[cache]; ok {
		return stats.misses
	}
	return 0
}

// DedupJoins returns how many callers joined an in-flight request.
func (r *Recorder) DedupJoins() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dedupJoins
}

// ReferenceLoads returns load attempts and failures for a reference kind.
func (r *Recorder) ReferenceLoads(kind string) (attempts, failures int) {
	if r == nil {
		return 0, 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refLoads[kind], r.refErrors[kind]
}

// Snapshot returns a copy of the current stats for the provider.
type Snapshot struct {
	Calls           int
	Errors          int
	RateLimitHits   int
	LastRetryAfter  time.Duration
	LastCallLatency time.Duration
}

func (r *Recorder) Snapshot(provider string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[provider]
	if !ok || stats == nil {
		return Snapshot{}
	}
	return Snapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		RateLimitHits:   stats.rateLimitHits,
		LastRetryAfter:  stats.lastRetryAfter,
		LastCallLatency: stats.lastCallLatency,
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// RecordWarmCycle tracks cache warmer cycles and errors.
func (r *Recorder) RecordWarmCycle(duration time.Duration, err error) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordWarm(duration, err)
}

// ensureStats must be called with r.mu held.
func (r *Recorder) ensureStats(provider string) *providerStats {
	stats, ok := r.stats[provider]
	if !ok {
		stats = &providerStats{}
		r.stats[provider] = stats
	}
	return stats
}
