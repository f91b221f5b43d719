// Package ticker simulates a bitcoin price feed for the polling demo.
package ticker

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

const (
	StartPrice = 65000.0
	// MaxMovePercent bounds a single tick, in either direction.
	MaxMovePercent = 0.5
	HistorySize    = 20
)

type Point struct {
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

type Tick struct {
	Price         float64
	Previous      float64
	Change        float64
	PercentChange float64
	At            time.Time
}

func (t Tick) Up() bool {
	return t.Change >= 0
}

type Stats struct {
	Current float64 `json:"current"`
	High    float64 `json:"high"`
	Low     float64 `json:"low"`
	Volume  string  `json:"volume"`
}

type Ticker struct {
	mu      sync.Mutex
	current float64
	high    float64
	low     float64
	history []Point
	rnd     *rand.Rand
	now     func() time.Time
}

type Option func(*Ticker)

func WithRand(r *rand.Rand) Option {
	return func(t *Ticker) { t.rnd = r }
}

func WithClock(now func() time.Time) Option {
	return func(t *Ticker) { t.now = now }
}

func New(start float64, opts ...Option) *Ticker {
	t := &Ticker{
		current: start,
		high:    start,
		low:     start,
		rnd:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Next moves the price by a uniform random step in [-0.5%, +0.5%) and
// records it in the rolling history.
func (t *Ticker) Next() Tick {
	t.mu.Lock()
	defer t.mu.Unlock()

	previous := t.current
	movePercent := (t.rnd.Float64() - 0.5) * 2 * MaxMovePercent
	t.current = previous + previous*movePercent/100

	if t.current > t.high {
		t.high = t.current
	}
	if t.current < t.low {
		t.low = t.current
	}

	at := t.now()
	t.history = append(t.history, Point{Price: t.current, Timestamp: at})
	if len(t.history) > HistorySize {
		t.history = t.history[len(t.history)-HistorySize:]
	}

	change := t.current - previous
	return Tick{
		Price:         t.current,
		Previous:      previous,
		Change:        change,
		PercentChange: change / previous * 100,
		At:            at,
	}
}

func (t *Ticker) History() []Point {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Point, len(t.history))
	copy(out, t.history)
	return out
}

// Stats reports the session range. Volume is simulated, in billions.
func (t *Ticker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	return Stats{
		Current: t.current,
		High:    t.high,
		Low:     t.low,
		Volume:  fmt.Sprintf("%.2fB", t.rnd.Float64()*50+20),
	}
}
