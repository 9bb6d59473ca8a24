package sessions

import (
	"fmt"
	"sync"
	"time"

	"github.com/OverrideLLC/Apollo-Dynamics-sub001/docstore"
	"github.com/OverrideLLC/Apollo-Dynamics-sub001/models"
)

// Listener watches pairing session documents and surfaces typed statuses.
type Listener struct {
	store docstore.Store
	clock func() time.Time
}

func NewListener(store docstore.Store) *Listener {
	return &Listener{store: store, clock: time.Now}
}

// StatusStream is one live watch on a session. Statuses() ends after exactly
// one terminal status (or after Close). A stream is one-shot: retrying a
// pairing means calling Listen again for a fresh session.
type StatusStream struct {
	statuses chan models.SessionStatus
	sub      *docstore.Subscription
	closed   chan struct{}
	once     sync.Once
}

func (s *StatusStream) Statuses() <-chan models.SessionStatus {
	return s.statuses
}

// Close cancels the watch, releasing the underlying change stream and the
// expiry timer. Safe to call at any time, from any goroutine, more than once.
func (s *StatusStream) Close() {
	s.once.Do(func() {
		close(s.closed)
		s.sub.Close()
	})
}

// Listen subscribes to the session document and starts the watch. Alongside
// the subscription it arms a single expiry timer for expiresAt-now; whichever
// produces a terminal status first ends the stream, so the caller never waits
// past the TTL even if the store never closes its stream.
func (l *Listener) Listen(sessionID string) (*StatusStream, error) {
	sub, err := l.store.Subscribe(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: watch session %s: %v", docstore.ErrUnavailable, sessionID, err)
	}
	stream := &StatusStream{
		statuses: make(chan models.SessionStatus, 8),
		sub:      sub,
		closed:   make(chan struct{}),
	}
	go stream.run(l.clock)
	return stream, nil
}

func (s *StatusStream) run(clock func() time.Time) {
	defer close(s.statuses)
	defer s.sub.Close()

	// First event is the current document state, delivered synchronously at
	// subscribe time.
	var first docstore.Event
	select {
	case ev, ok := <-s.sub.Events():
		if !ok {
			return
		}
		first = ev
	case <-s.closed:
		return
	}

	status := DecodeStatus(first, clock())
	if status.IsTerminal() {
		s.emit(status)
		return
	}

	deadline, ok := expiryOf(first)
	if !ok {
		// Unreachable for a document that decoded as pending.
		s.emit(models.ErrorStatus(malformedMessage))
		return
	}
	// Armed before the first emission so the deadline is bounded by
	// subscription time, not by when the consumer starts reading.
	timer := time.NewTimer(deadline.Sub(clock()))
	defer timer.Stop()

	if !s.emit(status) {
		return
	}

	for {
		select {
		case ev, ok := <-s.sub.Events():
			if !ok {
				return
			}
			status := DecodeStatus(ev, clock())
			if !s.emit(status) {
				return
			}
			if status.IsTerminal() {
				return
			}
		case <-timer.C:
			// A resolution committed just before the deadline may already be
			// queued; it takes priority over the synthesized expiry.
			select {
			case ev, ok := <-s.sub.Events():
				if ok {
					status := DecodeStatus(ev, clock())
					if !s.emit(status) {
						return
					}
					if status.IsTerminal() {
						return
					}
				}
			default:
			}
			s.emit(models.NotFoundOrExpired())
			return
		case <-s.closed:
			return
		}
	}
}

// emit delivers one status unless the stream was closed first.
func (s *StatusStream) emit(status models.SessionStatus) bool {
	select {
	case s.statuses <- status:
		return true
	case <-s.closed:
		return false
	}
}
