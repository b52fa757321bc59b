package assignment

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	lookupDebounce = 500 * time.Millisecond
	lookupTimeout  = 5 * time.Second
)

// LookupFunc resolves one booking date id to form fill data
type LookupFunc func(ctx context.Context, dateID uuid.UUID) (*LookupFill, error)

// LookupSession debounces booking-id keystrokes and guarantees stale
// results never reach the form. Every Input or Clear bumps a generation
// counter; the pending timer and any in-flight lookup carry the
// generation they were armed with and give up silently when it has moved
// on. A lookup that lands after the field was cleared is dropped, not
// applied.
type LookupSession struct {
	lookup LookupFunc
	delay  time.Duration

	onFill    func(*LookupFill)
	onError   func(error)
	onCleared func()

	mu    sync.Mutex
	gen   uint64
	timer *time.Timer
}

// NewLookupSession wires a session to its callbacks. A non-positive delay
// falls back to the default debounce.
func NewLookupSession(lookup LookupFunc, delay time.Duration, onFill func(*LookupFill), onError func(error), onCleared func()) *LookupSession {
	if delay <= 0 {
		delay = lookupDebounce
	}
	return &LookupSession{
		lookup:    lookup,
		delay:     delay,
		onFill:    onFill,
		onError:   onError,
		onCleared: onCleared,
	}
}

// Input registers the current value of the booking-id field. A previous
// pending lookup is superseded; emptying the field behaves like Clear.
func (s *LookupSession) Input(raw string) {
	id := strings.TrimSpace(raw)
	if id == "" {
		s.Clear()
		return
	}

	s.mu.Lock()
	s.gen++
	token := s.gen
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() { s.fire(token, id) })
	s.mu.Unlock()
}

// Clear cancels any pending or in-flight lookup and resets the
// auto-filled fields.
func (s *LookupSession) Clear() {
	s.mu.Lock()
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	if s.onCleared != nil {
		s.onCleared()
	}
}

// Stop tears the session down without firing callbacks
func (s *LookupSession) Stop() {
	s.mu.Lock()
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
}

func (s *LookupSession) fire(token uint64, raw string) {
	if !s.current(token) {
		return
	}

	var fill *LookupFill
	id, err := uuid.Parse(raw)
	if err != nil {
		err = ErrDateUnknown
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()
		fill, err = s.lookup(ctx, id)
	}

	// Re-check after the lookup and deliver under the same lock: a Clear
	// or newer input that arrived while it ran wins, and one that arrives
	// between the check and the callback blocks until delivery finishes.
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != token {
		return
	}

	if err != nil {
		if s.onError != nil {
			s.onError(err)
		}
		return
	}
	if s.onFill != nil {
		s.onFill(fill)
	}
}

func (s *LookupSession) current(token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen == token
}
