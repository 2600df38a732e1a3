package favorites

import (
	"log"
	"sync"
	"time"

	"favedex/internal/model"
)

// EventKind classifies a store notification.
type EventKind int

const (
	// EventAdded fires after a species is promoted into the collection.
	EventAdded EventKind = iota
	// EventRemoved fires after a favorite is deleted.
	EventRemoved
	// EventUpdated fires after a notes or tag change.
	EventUpdated
)

// Event describes one committed mutation.
type Event struct {
	Kind EventKind
	ID   int
}

// Store holds the ordered favorites collection in memory and mirrors every
// committed mutation to the persistence adapter. Insertion order is
// preserved across mutations; at most one record exists per species id.
type Store struct {
	mu      sync.Mutex
	adapter *Adapter
	list    []model.Favorite
	subs    []func(Event)
	now     func() time.Time
}

// NewStore loads the persisted collection and returns a store over it.
func NewStore(adapter *Adapter) *Store {
	return &Store{
		adapter: adapter,
		list:    adapter.Load(),
		now:     time.Now,
	}
}

// Subscribe registers fn to run after every committed mutation. Callbacks
// run outside the store lock and may call back into the store.
func (s *Store) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// locate returns the index of id in the list, or -1. Caller holds the lock.
func (s *Store) locate(id int) int {
	for i, f := range s.list {
		if f.ID == id {
			return i
		}
	}
	return -1
}

// persist mirrors the current list to storage. Caller holds the lock.
// Writes are best-effort: a failed write is logged and the in-memory state
// stands.
func (s *Store) persist() {
	if err := s.adapter.Save(s.list); err != nil {
		log.Printf("favorites: persist failed: %v", err)
	}
}

func (s *Store) notify(ev Event) {
	s.mu.Lock()
	subs := make([]func(Event), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}

// Add promotes a species into the collection. A species already present is
// left untouched and Add reports false. The new record gets the current
// time, empty notes and no tag.
func (s *Store) Add(sp model.Species) bool {
	s.mu.Lock()
	if s.locate(sp.ID) >= 0 {
		s.mu.Unlock()
		return false
	}
	s.list = append(s.list, model.Favorite{
		Species:   sp,
		CreatedAt: s.now().UTC().Format(time.RFC3339),
		Tag:       model.TagNone,
	})
	s.persist()
	s.mu.Unlock()

	s.notify(Event{Kind: EventAdded, ID: sp.ID})
	return true
}

// Remove deletes the record with the given id. Removing an absent id is a
// no-op.
func (s *Store) Remove(id int) bool {
	s.mu.Lock()
	i := s.locate(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.list = append(s.list[:i], s.list[i+1:]...)
	s.persist()
	s.mu.Unlock()

	s.notify(Event{Kind: EventRemoved, ID: id})
	return true
}

// SetNotes replaces the notes on the matching record. Unknown ids are a
// no-op.
func (s *Store) SetNotes(id int, text string) bool {
	s.mu.Lock()
	i := s.locate(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.list[i].Notes = text
	s.persist()
	s.mu.Unlock()

	s.notify(Event{Kind: EventUpdated, ID: id})
	return true
}

// SetTag replaces the tag on the matching record. Values outside the closed
// tag set are rejected; unknown ids are a no-op.
func (s *Store) SetTag(id int, tag model.Tag) bool {
	if !tag.Valid() {
		return false
	}
	s.mu.Lock()
	i := s.locate(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.list[i].Tag = tag
	s.persist()
	s.mu.Unlock()

	s.notify(Event{Kind: EventUpdated, ID: id})
	return true
}

// Contains reports whether a record with the given id exists.
func (s *Store) Contains(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locate(id) >= 0
}

// Get returns the record with the given id.
func (s *Store) Get(id int) (model.Favorite, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.locate(id); i >= 0 {
		return s.list[i], true
	}
	return model.Favorite{}, false
}

// All returns a copy of the collection in insertion order.
func (s *Store) All() []model.Favorite {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Favorite, len(s.list))
	copy(out, s.list)
	return out
}

// Len returns the number of favorites.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.list)
}
