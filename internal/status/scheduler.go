package status

import (
	"sync"
	"time"
)

// DefaultInterval is the refresh cadence when none is configured.
const DefaultInterval = 10 * time.Second

// Scheduler calls trigger immediately on Start and then once per interval
// until Stop. Triggers are never deduplicated; trigger must not block.
type Scheduler struct {
	interval time.Duration
	clock    Clock
	trigger  func()

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(interval time.Duration, clock Clock, trigger func()) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if clock == nil {
		clock = RealClock()
	}
	return &Scheduler{
		interval: interval,
		clock:    clock,
		trigger:  trigger,
	}
}

// Interval returns the periodic cadence.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Start fires one trigger and begins the periodic schedule. Calling Start
// while already running does nothing.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.stop != nil {
		s.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	ticks, stopTicker := s.clock.NewTicker(s.interval)
	s.stop, s.done = stop, done
	s.mu.Unlock()

	go s.loop(ticks, stopTicker, stop, done)
	s.trigger()
}

// Stop cancels future periodic triggers and waits for the loop to exit.
// Work already triggered is not affected. Stop on a stopped scheduler is a
// no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stop == nil {
		s.mu.Unlock()
		return
	}
	close(s.stop)
	done := s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	<-done
}

// RefreshNow fires one trigger without touching the periodic schedule.
func (s *Scheduler) RefreshNow() {
	s.trigger()
}

// Running reports whether the periodic schedule is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop != nil
}

func (s *Scheduler) loop(ticks <-chan time.Time, stopTicker func(), stop, done chan struct{}) {
	defer close(done)
	defer stopTicker()

	for {
		select {
		case <-stop:
			return
		case <-ticks:
			// A tick racing with Stop must not fire.
			select {
			case <-stop:
				return
			default:
			}
			s.trigger()
		}
	}
}
