package directory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu    sync.Mutex
	users []User
	err   error
	calls atomic.Int32
	// gate, when set, blocks FetchUsers until it is closed.
	gate chan struct{}
}

func (s *fakeSource) ID() string { return "fake" }

func (s *fakeSource) FetchUsers(ctx context.Context, limit int) ([]User, error) {
	s.calls.Add(1)
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.users, nil
}

func (s *fakeSource) fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

var leanne = User{ID: 1, Name: "Leanne Graham", Email: "Sincere@april.biz", Username: "Bret"}

func newTestFetcher(src *fakeSource) (*Fetcher, *fakeClock) {
	clock := newFakeClock()
	return NewFetcher(src, DefaultTTL, WithClock(clock.Now)), clock
}

func TestFetcher_FreshWithinWindow(t *testing.T) {
	src := &fakeSource{users: []User{leanne}}
	f, clock := newTestFetcher(src)
	ctx := context.Background()

	first := f.Get(ctx)
	assert.Equal(t, StatusFresh, first.Status)
	assert.Equal(t, []User{leanne}, first.Users)

	clock.Advance(DefaultTTL - time.Second)
	second := f.Get(ctx)
	assert.Equal(t, StatusCached, second.Status)
	assert.Equal(t, []User{leanne}, second.Users)
	assert.EqualValues(t, 1, src.calls.Load())
}

func TestFetcher_RefreshAfterWindow(t *testing.T) {
	src := &fakeSource{users: []User{leanne}}
	f, clock := newTestFetcher(src)
	ctx := context.Background()

	f.Get(ctx)
	clock.Advance(DefaultTTL)

	res := f.Get(ctx)
	assert.Equal(t, StatusFresh, res.Status)
	assert.EqualValues(t, 2, src.calls.Load())
	assert.Equal(t, clock.Now(), res.FetchedAt)
}

func TestFetcher_StaleFallback(t *testing.T) {
	src := &fakeSource{users: []User{leanne}}
	f, clock := newTestFetcher(src)
	ctx := context.Background()

	f.Get(ctx)
	_, fetchedAt, _ := f.Snapshot()

	clock.Advance(10 * time.Minute)
	src.fail(errors.New("connection refused"))

	res := f.Get(ctx)
	assert.Equal(t, StatusStale, res.Status)
	assert.Equal(t, []User{leanne}, res.Users)
	assert.Error(t, res.Err)
	assert.True(t, res.Available())

	_, after, ok := f.Snapshot()
	require.True(t, ok)
	assert.Equal(t, fetchedAt, after, "timestamp must not move on failure")

	// Still expired, so the next call tries the source again.
	f.Get(ctx)
	assert.EqualValues(t, 3, src.calls.Load())
}

func TestFetcher_EmptyWhenNothingCached(t *testing.T) {
	src := &fakeSource{err: errors.New("unexpected status code: 503")}
	f, _ := newTestFetcher(src)

	res := f.Get(context.Background())
	assert.Equal(t, StatusEmpty, res.Status)
	assert.NotNil(t, res.Users)
	assert.Empty(t, res.Users)
	assert.False(t, res.Available())

	_, _, ok := f.Snapshot()
	assert.False(t, ok)
}

func TestFetcher_ClearForcesRefresh(t *testing.T) {
	src := &fakeSource{users: []User{leanne}}
	f, _ := newTestFetcher(src)
	ctx := context.Background()

	f.Get(ctx)
	f.Clear()
	f.Clear()

	_, _, ok := f.Snapshot()
	assert.False(t, ok)

	res := f.Get(ctx)
	assert.Equal(t, StatusFresh, res.Status)
	assert.EqualValues(t, 2, src.calls.Load())
}

func TestFetcher_ClearThenFailureIsEmpty(t *testing.T) {
	src := &fakeSource{users: []User{leanne}}
	f, _ := newTestFetcher(src)
	ctx := context.Background()

	f.Get(ctx)
	f.Clear()
	src.fail(errors.New("down"))

	res := f.Get(ctx)
	assert.Equal(t, StatusEmpty, res.Status)
}

func TestFetcher_SuccessfulEmptyCollection(t *testing.T) {
	src := &fakeSource{users: nil}
	f, _ := newTestFetcher(src)

	res := f.Get(context.Background())
	assert.Equal(t, StatusFresh, res.Status)
	assert.True(t, res.Available())
	assert.NotNil(t, res.Users)
}

func TestFetcher_ConcurrentMissesShareOneFetch(t *testing.T) {
	src := &fakeSource{users: []User{leanne}, gate: make(chan struct{})}
	f, _ := newTestFetcher(src)

	const callers = 16
	var wg sync.WaitGroup
	results := make([]Result, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx] = f.Get(context.Background())
		}(i)
	}

	require.Eventually(t, func() bool { return src.calls.Load() >= 1 }, time.Second, time.Millisecond)
	// Give the remaining callers time to pile onto the flight.
	time.Sleep(20 * time.Millisecond)
	close(src.gate)
	wg.Wait()

	assert.EqualValues(t, 1, src.calls.Load())
	for _, res := range results {
		assert.Equal(t, []User{leanne}, res.Users)
	}
}

func TestFetcher_ClearDuringRefreshDiscardsResult(t *testing.T) {
	src := &fakeSource{users: []User{leanne}, gate: make(chan struct{})}
	f, _ := newTestFetcher(src)

	done := make(chan Result)
	go func() { done <- f.Get(context.Background()) }()

	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, time.Millisecond)
	f.Clear()
	close(src.gate)

	res := <-done
	assert.Equal(t, StatusFresh, res.Status)
	_, _, ok := f.Snapshot()
	assert.False(t, ok, "refresh started before Clear must not repopulate the cache")
}

func TestFetcher_GetAfterClearDoesNotJoinOldRefresh(t *testing.T) {
	src := &fakeSource{users: []User{leanne}, gate: make(chan struct{})}
	f, _ := newTestFetcher(src)

	first := make(chan Result)
	go func() { first <- f.Get(context.Background()) }()
	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, time.Millisecond)

	f.Clear()

	second := make(chan Result)
	go func() { second <- f.Get(context.Background()) }()
	require.Eventually(t, func() bool { return src.calls.Load() == 2 }, time.Second, time.Millisecond)

	close(src.gate)
	<-first
	res := <-second

	assert.Equal(t, StatusFresh, res.Status)
	assert.EqualValues(t, 2, src.calls.Load())
	_, _, ok := f.Snapshot()
	assert.True(t, ok, "refresh started after Clear must store its result")
}

func TestFetcher_MalformedRefreshKeepsSnapshot(t *testing.T) {
	src := &fakeSource{users: []User{leanne}}
	f, clock := newTestFetcher(src)
	ctx := context.Background()

	f.Get(ctx)
	_, fetchedAt, _ := f.Snapshot()

	clock.Advance(DefaultTTL)
	src.fail(errors.New("malformed users payload: body is not a JSON array"))

	res := f.Get(ctx)
	assert.Equal(t, StatusStale, res.Status)
	assert.Equal(t, []User{leanne}, res.Users)

	users, after, ok := f.Snapshot()
	require.True(t, ok)
	assert.Equal(t, []User{leanne}, users)
	assert.Equal(t, fetchedAt, after)
}

func TestFetcher_Age(t *testing.T) {
	src := &fakeSource{users: []User{leanne}}
	f, clock := newTestFetcher(src)

	_, ok := f.Age()
	assert.False(t, ok)

	f.Get(context.Background())
	clock.Advance(90 * time.Second)

	age, ok := f.Age()
	require.True(t, ok)
	assert.Equal(t, 90*time.Second, age)
}

func TestFetcher_TimeoutIsFailure(t *testing.T) {
	src := &fakeSource{users: []User{leanne}, gate: make(chan struct{})}
	defer close(src.gate)
	f := NewFetcher(src, DefaultTTL, WithTimeout(10*time.Millisecond))

	res := f.Get(context.Background())
	assert.Equal(t, StatusEmpty, res.Status)
	assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
}

func TestFetcher_CallerCancelDoesNotAbortRefresh(t *testing.T) {
	src := &fakeSource{users: []User{leanne}}
	f, _ := newTestFetcher(src)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := f.Get(ctx)
	assert.Equal(t, StatusFresh, res.Status)
}
