// Package staleness detects concurrent out-of-band writes to a target
// between a session's last read and its intended mutation.
//
// This is optimistic locking: there is no lock on the shared target. Each
// session caches the digest it observed at read time, and the authoritative
// comparison happens at the moment of the attempted mutation. A detected
// mismatch forces the caller to re-observe and retry; it never guarantees
// first-writer-wins.
package staleness

import (
	"sync"
	"time"

	"github.com/intentgate/cli/internal/contenthash"
	"github.com/intentgate/cli/internal/scope"
)

// UnknownPathPolicy decides how CheckFresh treats a path with no cached
// observation.
type UnknownPathPolicy string

const (
	// PolicyAllow treats unseen paths as fresh. The inherited fail-open
	// default: absence of a cache entry never blocks.
	PolicyAllow UnknownPathPolicy = "allow"

	// PolicyDeny treats unseen paths as stale, forcing an observation before
	// the first mutation. Stricter, at the cost of an extra read round-trip.
	PolicyDeny UnknownPathPolicy = "deny"
)

// DefaultFreshnessWindow bounds how long a cached observation stays
// authoritative. Entries older than the window no longer block.
const DefaultFreshnessWindow = 15 * time.Minute

// MaxRetainedContent caps how many bytes of observed content are kept for
// the classifier. Digests are always kept regardless of size.
const MaxRetainedContent = 1 << 20 // 1 MiB

// Observation is what the session last saw at a path.
type Observation struct {
	// Digest is the content fingerprint at observation time.
	Digest string

	// ObservedAt is when the content was seen.
	ObservedAt time.Time

	// Content is the observed bytes, retained (up to MaxRetainedContent) so
	// the mutation classifier can diff the next write against them.
	Content []byte
}

// Freshness is the result of a staleness check.
type Freshness struct {
	// Fresh is false when the target changed underneath the session.
	Fresh bool

	// ExpectedDigest is the cached observation digest, when one existed.
	ExpectedDigest string

	// ActualDigest is the digest of the current content, when it was read.
	ActualDigest string
}

// Guard is the per-session observation cache. It is deliberately not shared
// across sessions: it exists to catch cross-session races, and the check
// always compares against what this session last observed.
type Guard struct {
	mu     sync.Mutex
	seen   map[string]Observation
	window time.Duration
	policy UnknownPathPolicy
	now    func() time.Time
}

// Option configures a Guard.
type Option func(*Guard)

// WithFreshnessWindow bounds observation age. Zero means observations never
// expire.
func WithFreshnessWindow(d time.Duration) Option {
	return func(g *Guard) { g.window = d }
}

// WithUnknownPathPolicy sets the unseen-path behavior.
func WithUnknownPathPolicy(p UnknownPathPolicy) Option {
	return func(g *Guard) { g.policy = p }
}

// WithClock overrides time for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Guard) { g.now = now }
}

// NewGuard creates an empty per-session guard.
func NewGuard(opts ...Option) *Guard {
	g := &Guard{
		seen:   make(map[string]Observation),
		window: DefaultFreshnessWindow,
		policy: PolicyAllow,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// RecordObservation stores the digest (and capped content) for a path,
// overwriting any prior entry.
func (g *Guard) RecordObservation(path string, content []byte) {
	key := scope.Normalize(path)
	if key == "" {
		return
	}

	retained := content
	if len(retained) > MaxRetainedContent {
		retained = nil
	} else {
		retained = append([]byte(nil), retained...)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.seen[key] = Observation{
		Digest:     contenthash.Digest(content),
		ObservedAt: g.now(),
		Content:    retained,
	}
}

// RestoreObservation reinstates a previously captured observation, digest
// and timestamp as-is. Used when rebuilding a guard from persisted session
// state; content is not carried across processes.
func (g *Guard) RestoreObservation(path string, obs Observation) {
	key := scope.Normalize(path)
	if key == "" || obs.Digest == "" {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seen[key] = obs
}

// Snapshot returns a copy of every cached observation, keyed by normalized
// path. Retained content is omitted.
func (g *Guard) Snapshot() map[string]Observation {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make(map[string]Observation, len(g.seen))
	for key, obs := range g.seen {
		out[key] = Observation{Digest: obs.Digest, ObservedAt: obs.ObservedAt}
	}
	return out
}

// Lookup returns the cached observation for a path.
func (g *Guard) Lookup(path string) (Observation, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	obs, ok := g.seen[scope.Normalize(path)]
	return obs, ok
}

// CheckFresh answers whether the target still matches this session's last
// observation. The read callback supplies the current content; a read
// failure (target removed) counts as a mismatch.
func (g *Guard) CheckFresh(path string, read func() ([]byte, error)) Freshness {
	obs, ok := g.Lookup(path)
	if !ok {
		// No baseline for this path. PolicyAllow never blocks the unseen;
		// PolicyDeny forces an observation first.
		return Freshness{Fresh: g.policy == PolicyAllow}
	}

	if g.window > 0 && g.now().Sub(obs.ObservedAt) > g.window {
		// Observation aged out of the freshness window: stale-by-age entries
		// do not block.
		return Freshness{Fresh: true, ExpectedDigest: obs.Digest}
	}

	current, err := read()
	if err != nil {
		return Freshness{Fresh: false, ExpectedDigest: obs.Digest}
	}

	actual := contenthash.Digest(current)
	return Freshness{
		Fresh:          actual == obs.Digest,
		ExpectedDigest: obs.Digest,
		ActualDigest:   actual,
	}
}

// Len reports how many paths this session has observed.
func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.seen)
}
