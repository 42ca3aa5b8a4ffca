package status

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rileyhilliard/lbdash/internal/logger"
)

// ErrEngineClosed is returned by operations on a closed Engine.
var ErrEngineClosed = errors.New("engine closed")

// Backend is the status API the engine polls.
type Backend interface {
	Fetch(ctx context.Context) (Snapshot, error)
	AddServer(ctx context.Context) error
}

// Options configures an Engine. Zero values select defaults.
type Options struct {
	Interval time.Duration
	Clock    Clock
	Logger   logger.Logger
}

type completionKind int

const (
	fetchCompleted completionKind = iota
	mutationFailed
)

// completion is a finished fetch or a failed mutation on its way to the actor.
type completion struct {
	kind    completionKind
	snap    Snapshot
	err     error
	applied chan struct{}
}

// Engine owns the dashboard state. Fetches run concurrently; a single actor
// goroutine applies their results to the store in completion order.
type Engine struct {
	backend Backend
	clock   Clock
	log     logger.Logger
	store   *Store
	sched   *Scheduler

	ctx    context.Context
	cancel context.CancelFunc

	results   chan completion
	actorDone chan struct{}

	// lifeMu orders Start against Close.
	lifeMu sync.Mutex
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup

	inflight atomic.Int64

	subMu   sync.Mutex
	subs    map[int]chan State
	nextSub int

	closeOnce sync.Once
}

// NewEngine creates an engine in the stopped state. The initial State has
// an empty snapshot and LastUpdated set to the clock's current time.
func NewEngine(backend Backend, opts Options) *Engine {
	clock := opts.Clock
	if clock == nil {
		clock = RealClock()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		backend:   backend,
		clock:     clock,
		log:       log,
		store:     NewStore(clock.Now()),
		ctx:       ctx,
		cancel:    cancel,
		results:   make(chan completion),
		actorDone: make(chan struct{}),
		subs:      make(map[int]chan State),
	}
	e.sched = NewScheduler(opts.Interval, clock, e.launchFetch)

	go e.actor()
	return e
}

// Start begins periodic refreshing with an immediate first fetch.
// Idempotent while running. A closed engine stays stopped.
func (e *Engine) Start() {
	e.lifeMu.Lock()
	defer e.lifeMu.Unlock()
	if e.isClosed() {
		return
	}
	e.sched.Start()
}

// Stop cancels future periodic fetches. In-flight fetches still complete
// and are applied.
func (e *Engine) Stop() {
	e.sched.Stop()
}

// RefreshNow launches one fetch immediately. The periodic schedule is not
// reset.
func (e *Engine) RefreshNow() {
	e.sched.RefreshNow()
}

// Running reports whether periodic refresh is active.
func (e *Engine) Running() bool {
	return e.sched.Running()
}

// Interval returns the periodic refresh cadence.
func (e *Engine) Interval() time.Duration {
	return e.sched.Interval()
}

// State returns the current dashboard state.
func (e *Engine) State() State {
	return e.store.Load()
}

// InFlight returns the number of fetches launched but not yet applied.
func (e *Engine) InFlight() int {
	return int(e.inflight.Load())
}

// AddServer asks the backend to add a server. On success it triggers
// RefreshNow. On failure the error message is recorded in the state before
// the error is returned. It never retries.
func (e *Engine) AddServer(ctx context.Context) error {
	if !e.acquire() {
		return ErrEngineClosed
	}
	defer e.wg.Done()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(e.ctx, cancel)
	defer stop()

	if err := e.backend.AddServer(ctx); err != nil {
		e.log.Warn("add server failed: %v", err)
		applied := make(chan struct{})
		e.results <- completion{kind: mutationFailed, err: err, applied: applied}
		<-applied
		return err
	}

	e.log.Debug("server added, refreshing")
	e.RefreshNow()
	return nil
}

// Subscribe returns a channel that receives the new State after every
// applied completion. Slow readers only see the latest State. The returned
// function unsubscribes and closes the channel.
func (e *Engine) Subscribe() (<-chan State, func()) {
	e.subMu.Lock()
	defer e.subMu.Unlock()

	ch := make(chan State, 1)
	id := e.nextSub
	e.nextSub++
	if e.subs == nil {
		close(ch)
		return ch, func() {}
	}
	e.subs[id] = ch

	return ch, func() {
		e.subMu.Lock()
		defer e.subMu.Unlock()
		if c, ok := e.subs[id]; ok {
			delete(e.subs, id)
			close(c)
		}
	}
}

// Close stops the schedule, cancels in-flight work, waits for it to drain
// and shuts down the actor. Subscriber channels are closed.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		e.lifeMu.Lock()
		e.mu.Lock()
		e.closed = true
		e.mu.Unlock()
		e.lifeMu.Unlock()

		e.sched.Stop()

		e.cancel()
		e.wg.Wait()
		close(e.results)
		<-e.actorDone

		e.subMu.Lock()
		for id, ch := range e.subs {
			delete(e.subs, id)
			close(ch)
		}
		e.subs = nil
		e.subMu.Unlock()
	})
}

func (e *Engine) isClosed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// acquire registers a worker unless the engine is closed.
func (e *Engine) acquire() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false
	}
	e.wg.Add(1)
	return true
}

// launchFetch is the scheduler trigger. It must not block.
func (e *Engine) launchFetch() {
	if !e.acquire() {
		return
	}
	e.inflight.Add(1)

	go func() {
		defer e.wg.Done()
		snap, err := e.backend.Fetch(e.ctx)
		e.results <- completion{kind: fetchCompleted, snap: snap, err: err}
	}()
}

func (e *Engine) actor() {
	defer close(e.actorDone)

	for c := range e.results {
		var next State
		switch c.kind {
		case fetchCompleted:
			if c.err != nil && e.ctx.Err() != nil && errors.Is(c.err, context.Canceled) {
				e.log.Debug("fetch cancelled by shutdown")
				e.inflight.Add(-1)
				continue
			}
			if c.err != nil {
				e.log.Warn("fetch failed: %v", c.err)
			} else {
				e.log.Debug("fetched %d servers", len(c.snap))
			}
			next = e.store.ApplyFetch(c.snap, c.err, e.clock.Now())
		case mutationFailed:
			next = e.store.ApplyMutationFailure()
		}

		e.publish(next)
		if c.applied != nil {
			close(c.applied)
		}
		// InFlight drops only after subscribers have the new state.
		if c.kind == fetchCompleted {
			e.inflight.Add(-1)
		}
	}
}

func (e *Engine) publish(s State) {
	e.subMu.Lock()
	defer e.subMu.Unlock()

	for _, ch := range e.subs {
		select {
		case ch <- s:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s:
			default:
			}
		}
	}
}
