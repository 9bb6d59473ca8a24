package docstore

import "sync"

// subBuffer is how many undelivered events one subscription holds before the
// oldest is dropped in favor of the newest. Events are state snapshots, so a
// consumer that falls behind still observes the latest state.
const subBuffer = 32

// Subscription is a handle on one document's change stream. Events() yields
// the current state first, then every later committed write. Close releases
// the stream and closes the channel; it is safe to call more than once.
type Subscription struct {
	docID  string
	hub    *hub
	events chan Event
	once   sync.Once
}

func (s *Subscription) Events() <-chan Event {
	return s.events
}

func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s.docID, s)
	})
}

// hub fans committed writes out to the subscriptions of each document. It is
// in-process: every writer of a store must go through that same store value.
type hub struct {
	mu   sync.Mutex
	subs map[string]map[*Subscription]struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[string]map[*Subscription]struct{})}
}

func (h *hub) subscribe(docID string, initial Event) *Subscription {
	sub := &Subscription{
		docID:  docID,
		hub:    h,
		events: make(chan Event, subBuffer),
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[docID] == nil {
		h.subs[docID] = make(map[*Subscription]struct{})
	}
	h.subs[docID][sub] = struct{}{}
	sub.events <- initial
	return sub
}

func (h *hub) publish(docID string, ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs[docID] {
		select {
		case sub.events <- ev:
		default:
			// Buffer full: drop the oldest snapshot, keep the newest.
			select {
			case <-sub.events:
			default:
			}
			select {
			case sub.events <- ev:
			default:
			}
		}
	}
}

func (h *hub) remove(docID string, sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs[docID], sub)
	if len(h.subs[docID]) == 0 {
		delete(h.subs, docID)
	}
	close(sub.events)
}
