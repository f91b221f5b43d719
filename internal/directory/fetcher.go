package directory

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultTTL     = 5 * time.Minute
	DefaultTimeout = 10 * time.Second
)

const refreshKey = "users"

// Fetcher keeps the last good user collection from a Source and serves it
// while it is younger than the TTL. When a refresh fails the previous
// collection is served instead, so Get never fails.
//
// Slices handed out by Get and Snapshot are shared and must not be modified.
type Fetcher struct {
	mu         sync.RWMutex
	data       []User
	loaded     bool
	updatedAt  time.Time
	generation uint64

	source  Source
	ttl     time.Duration
	timeout time.Duration
	logger  zerolog.Logger
	now     func() time.Time

	sf singleflight.Group
}

type Option func(*Fetcher)

// WithTimeout bounds every upstream refresh. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.timeout = d }
}

func WithLogger(l zerolog.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) { f.now = now }
}

func NewFetcher(source Source, ttl time.Duration, opts ...Option) *Fetcher {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	f := &Fetcher{
		source:  source,
		ttl:     ttl,
		timeout: DefaultTimeout,
		logger:  zerolog.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Fetcher) TTL() time.Duration {
	return f.ttl
}

// Get returns the cached users when they are fresh, otherwise it refreshes
// from the source. Concurrent misses share one upstream call.
func (f *Fetcher) Get(ctx context.Context) Result {
	if res, ok := f.fresh(); ok {
		return res
	}

	v, _, _ := f.sf.Do(refreshKey, func() (any, error) {
		// A flight that finished just before this one may already have refreshed.
		if res, ok := f.fresh(); ok {
			return res, nil
		}
		return f.refresh(ctx), nil
	})
	return v.(Result)
}

// Clear drops the snapshot so the next Get goes to the source. A refresh
// already in flight will not store its result, and callers arriving after
// Clear start their own refresh instead of joining it.
func (f *Fetcher) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.data = nil
	f.loaded = false
	f.updatedAt = time.Time{}
	f.generation++
	f.sf.Forget(refreshKey)
}

// Snapshot returns the current users and their retrieval time without
// touching the source.
func (f *Fetcher) Snapshot() ([]User, time.Time, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.data, f.updatedAt, f.loaded
}

// Age reports how old the snapshot is by the fetcher's clock.
func (f *Fetcher) Age() (time.Duration, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if !f.loaded {
		return 0, false
	}
	return f.now().Sub(f.updatedAt), true
}

func (f *Fetcher) fresh() (Result, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if !f.loaded || f.now().Sub(f.updatedAt) >= f.ttl {
		return Result{}, false
	}
	return Result{Users: f.data, Status: StatusCached, FetchedAt: f.updatedAt}, true
}

func (f *Fetcher) refresh(ctx context.Context) Result {
	f.mu.RLock()
	gen := f.generation
	f.mu.RUnlock()

	// The flight is shared, so one caller going away must not cancel it for
	// the others.
	ctx = context.WithoutCancel(ctx)
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	users, err := f.source.FetchUsers(ctx, 0)
	if err != nil {
		f.mu.RLock()
		data, at, loaded := f.data, f.updatedAt, f.loaded
		f.mu.RUnlock()

		f.logger.Warn().
			Err(err).
			Str("source", f.source.ID()).
			Bool("stale_fallback", loaded).
			Msg("failed to refresh users")

		if loaded {
			return Result{Users: data, Status: StatusStale, FetchedAt: at, Err: err}
		}
		return Result{Users: []User{}, Status: StatusEmpty, Err: err}
	}
	if users == nil {
		users = []User{}
	}

	now := f.now()
	f.mu.Lock()
	if f.generation == gen {
		f.data = users
		f.loaded = true
		f.updatedAt = now
	}
	f.mu.Unlock()

	f.logger.Debug().
		Str("source", f.source.ID()).
		Int("count", len(users)).
		Msg("refreshed users")

	return Result{Users: users, Status: StatusFresh, FetchedAt: now}
}
