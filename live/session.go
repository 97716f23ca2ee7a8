/*
Package live debounces rapid input changes into independent compute passes.

Every Update supersedes whatever came before it: a pending pass is
rescheduled, and the result of a pass still running when a newer Update
arrives is discarded rather than published. Passes never share partial
results. Completed passes are broadcast to all subscribers.
*/
package live

import (
	"context"
	"sync"
	"time"

	"github.com/guiguan/caster"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/njchilds90/gotaylor"
)

// DefaultDelay is the quiet time used when New is given a non-positive delay.
const DefaultDelay = 250 * time.Millisecond

var fallback = gologadapter.New()

func tracer() tracing.Trace {
	if t := gtrace.CoreTracer; t != nil {
		return t
	}
	return fallback
}

// Computer runs one pass. *gotaylor.Engine implements it.
type Computer interface {
	Compute(gotaylor.Request) (gotaylor.Result, error)
}

// Pass is a published compute result.
type Pass struct {
	Generation uint64
	Request    gotaylor.Request
	Result     gotaylor.Result
	Err        error
}

// Session is safe for concurrent use.
type Session struct {
	comp  Computer
	delay time.Duration
	cast  *caster.Caster

	// pubMu orders publication; held across the generation check and Pub.
	pubMu sync.Mutex

	mu      sync.Mutex
	gen     uint64
	pending *gotaylor.Request
	timer   *time.Timer
	closed  bool
}

func New(comp Computer, delay time.Duration) *Session {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Session{
		comp:  comp,
		delay: delay,
		cast:  caster.New(nil),
	}
}

// Update schedules a pass for req after the session delay and returns its
// generation. It returns 0 once the session is closed.
func (s *Session) Update(req gotaylor.Request) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0
	}
	s.gen++
	g := s.gen
	s.pending = &req
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() { s.run(g) })
	return g
}

// Generation is the generation of the latest Update.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// Pending reports whether an update waits for its quiet time to elapse.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Flush runs the pending pass now, in the calling goroutine. It reports
// false if nothing was pending.
func (s *Session) Flush() bool {
	s.mu.Lock()
	if s.pending == nil || s.closed {
		s.mu.Unlock()
		return false
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	g := s.gen
	s.mu.Unlock()
	s.run(g)
	return true
}

func (s *Session) current(g uint64) bool {
	return g == s.gen && !s.closed
}

func (s *Session) run(g uint64) {
	s.mu.Lock()
	if !s.current(g) || s.pending == nil {
		s.mu.Unlock()
		return
	}
	req := *s.pending
	s.pending = nil
	s.mu.Unlock()

	res, err := s.comp.Compute(req)

	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	s.mu.Lock()
	ok := s.current(g)
	s.mu.Unlock()
	if !ok {
		tracer().Debugf("live: pass %d superseded, result discarded", g)
		return
	}
	tracer().Debugf("live: publishing pass %d for %q", g, req.Function)
	s.cast.Pub(Pass{Generation: g, Request: req, Result: res, Err: err})
}

// Subscribe returns a channel of completed passes. The channel is closed
// when ctx is done or the session is closed.
func (s *Session) Subscribe(ctx context.Context) <-chan Pass {
	if ctx == nil {
		ctx = context.Background()
	}
	out := make(chan Pass, 1)
	raw, ok := s.cast.Sub(ctx, 4)
	if !ok {
		close(out)
		return out
	}
	go func() {
		defer close(out)
		for m := range raw {
			p, ok := m.(Pass)
			if !ok {
				continue
			}
			select {
			case out <- p:
			case <-ctx.Done():
				s.cast.Unsub(raw)
				return
			}
		}
	}()
	return out
}

// Close stops pending work and closes all subscriptions.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.pending = nil
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()
	s.cast.Close()
}
