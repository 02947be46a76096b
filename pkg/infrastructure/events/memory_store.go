package events

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type subscription struct {
	id      int
	kinds   map[Kind]bool
	handler Handler
}

func (s subscription) wants(kind Kind) bool {
	return len(s.kinds) == 0 || s.kinds[kind]
}

// MemoryStore is a Store held in process memory
type MemoryStore struct {
	mu      sync.RWMutex
	journal []Event
	streams map[string][]int
	subs    []subscription
	nextSub int
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty journal
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		streams: make(map[string][]int),
	}
}

// Append records e. Handlers run synchronously after the journal lock is
// released, so a handler may read from or append to the store; a handler
// error is logged and does not fail the append.
func (s *MemoryStore) Append(e Event) (Event, error) {
	if e.Kind == "" {
		return Event{}, errors.New("event kind cannot be empty")
	}
	if e.StreamID == "" {
		return Event{}, errors.New("event stream id cannot be empty")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	s.mu.Lock()
	e.Version = len(s.streams[e.StreamID]) + 1
	e.Position = len(s.journal) + 1
	s.streams[e.StreamID] = append(s.streams[e.StreamID], len(s.journal))
	s.journal = append(s.journal, e)

	var handlers []Handler
	for _, sub := range s.subs {
		if sub.wants(e.Kind) {
			handlers = append(handlers, sub.handler)
		}
	}
	s.mu.Unlock()

	for _, h := range handlers {
		if err := h.Handle(e); err != nil {
			log.Error().
				Err(err).
				Str("event_kind", string(e.Kind)).
				Str("stream_id", e.StreamID).
				Msg("event handler failed")
		}
	}
	return e, nil
}

// Stream returns the events of streamID with Version >= fromVersion
func (s *MemoryStore) Stream(streamID string, fromVersion int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if fromVersion < 1 {
		fromVersion = 1
	}
	indexes := s.streams[streamID]
	if fromVersion > len(indexes) {
		return []Event{}, nil
	}

	out := make([]Event, 0, len(indexes)-fromVersion+1)
	for _, i := range indexes[fromVersion-1:] {
		out = append(out, s.journal[i])
	}
	return out, nil
}

// Since returns every event with Position > position
func (s *MemoryStore) Since(position int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if position < 0 {
		position = 0
	}
	if position >= len(s.journal) {
		return []Event{}, nil
	}
	return append([]Event(nil), s.journal[position:]...), nil
}

// Subscribe registers h. Handlers are called in subscription order.
func (s *MemoryStore) Subscribe(h Handler, kinds ...Kind) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	sub := subscription{id: id, handler: h, kinds: make(map[Kind]bool, len(kinds))}
	for _, k := range kinds {
		sub.kinds[k] = true
	}
	s.subs = append(s.subs, sub)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			kept := make([]subscription, 0, len(s.subs))
			for _, sub := range s.subs {
				if sub.id != id {
					kept = append(kept, sub)
				}
			}
			s.subs = kept
			s.mu.Unlock()
		})
	}
}
