package engine

import (
	"sync"
	"time"
)

// Scheduler arranges for f to run later on the engine's thread. The returned
// cancel function must guarantee f never runs once it returns.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) (cancel func())
}

type nopScheduler struct{}

func (nopScheduler) AfterFunc(time.Duration, func()) func() { return func() {} }

// LoopScheduler delivers timer callbacks through a channel so that they run
// on the consumer's event loop. Cancel must be called from that loop.
type LoopScheduler struct {
	ch   chan func()
	done chan struct{}
	once sync.Once
}

// NewLoopScheduler returns a scheduler with the given channel buffer.
func NewLoopScheduler(buffer int) *LoopScheduler {
	return &LoopScheduler{ch: make(chan func(), buffer), done: make(chan struct{})}
}

// AfterFunc implements Scheduler.
func (s *LoopScheduler) AfterFunc(d time.Duration, f func()) func() {
	cancelled := false
	t := time.AfterFunc(d, func() {
		select {
		case s.ch <- func() {
			if !cancelled {
				f()
			}
		}:
		case <-s.done:
		}
	})
	return func() {
		cancelled = true
		t.Stop()
	}
}

// C returns the channel of callbacks to run on the loop.
func (s *LoopScheduler) C() <-chan func() {
	return s.ch
}

// Close releases timers blocked on delivery.
func (s *LoopScheduler) Close() {
	s.once.Do(func() { close(s.done) })
}
