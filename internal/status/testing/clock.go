// Package testing provides test doubles for the status package.
package testing

import (
	"sync"
	"time"
)

// ManualClock is a clock whose tickers only fire when Tick is called.
// It satisfies status.Clock.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers map[int]chan time.Time
	nextID  int
	created int
}

// NewManualClock creates a clock frozen at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{
		now:     start,
		tickers: make(map[int]chan time.Time),
	}
}

// Now returns the current fake time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// NewTicker registers a ticker. The interval is ignored; ticks come from Tick.
func (c *ManualClock) NewTicker(d time.Duration) (<-chan time.Time, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.created++
	ch := make(chan time.Time, 1)
	c.tickers[id] = ch

	var once sync.Once
	stop := func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.tickers, id)
		})
	}
	return ch, stop
}

// Advance moves the clock forward without firing tickers.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Tick advances the clock by d and delivers one tick to every live ticker.
// A ticker that has not consumed its previous tick drops this one, like
// time.Ticker does.
func (c *ManualClock) Tick(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	for _, ch := range c.tickers {
		select {
		case ch <- c.now:
		default:
		}
	}
}

// ActiveTickers returns how many tickers have not been stopped.
func (c *ManualClock) ActiveTickers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}

// TickersCreated returns how many tickers were ever created.
func (c *ManualClock) TickersCreated() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.created
}
