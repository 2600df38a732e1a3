// Package search owns the single outstanding species lookup.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"favedex/internal/connectivity"
	"favedex/internal/model"
	"favedex/internal/pokeapi"
)

// State is the lookup lifecycle: Idle -> Loading -> Success | Failure.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateSuccess
	StateFailure
)

// String returns the wire name of the state.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateFailure:
		return "failure"
	default:
		return "idle"
	}
}

// OfflineMessage is the fixed failure text for searches rejected while
// offline.
const OfflineMessage = "You are offline. Reconnect to search."

// Lookup resolves a search term to a species. *pokeapi.Client satisfies it.
type Lookup interface {
	Lookup(ctx context.Context, term string) (model.Species, error)
}

// Snapshot is the session state at one point in time.
type Snapshot struct {
	State   State
	Term    string
	Result  model.Species // valid only in StateSuccess
	Message string        // valid only in StateFailure
}

// Session coordinates lookups so that only the most recently issued one may
// commit its result. Each call takes a sequence number at issue time; a
// resolution whose sequence no longer matches the latest issued one is
// discarded.
type Session struct {
	mu      sync.Mutex
	client  Lookup
	monitor *connectivity.Monitor
	seq     uint64
	snap    Snapshot
}

// NewSession creates an idle session.
func NewSession(client Lookup, monitor *connectivity.Monitor) *Session {
	return &Session{client: client, monitor: monitor}
}

// Current returns the session state.
func (s *Session) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Search runs one lookup to completion. A blank or whitespace-only term
// never issues a network call and leaves the state unchanged. An offline
// session fails immediately with the fixed message. The returned snapshot is
// the session state after this call resolved, which reflects a newer call's
// outcome if this one was superseded while in flight.
func (s *Session) Search(ctx context.Context, term string) Snapshot {
	name := strings.TrimSpace(term)
	if name == "" {
		return s.Current()
	}

	s.mu.Lock()
	s.seq++
	seq := s.seq

	if !s.monitor.Online() {
		s.snap = Snapshot{State: StateFailure, Term: name, Message: OfflineMessage}
		snap := s.snap
		s.mu.Unlock()
		return snap
	}

	s.snap = Snapshot{State: StateLoading, Term: name}
	s.mu.Unlock()

	sp, err := s.client.Lookup(ctx, name)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		// A newer call was issued while this one was in flight; its
		// outcome stands and this one is discarded.
		return s.snap
	}
	if err != nil {
		s.snap = Snapshot{State: StateFailure, Term: name, Message: failureMessage(name, err)}
	} else {
		s.snap = Snapshot{State: StateSuccess, Term: name, Result: sp}
	}
	return s.snap
}

func failureMessage(term string, err error) string {
	if errors.Is(err, pokeapi.ErrNotFound) {
		return fmt.Sprintf("No results for %q.", term)
	}
	return fmt.Sprintf("Lookup failed: %v", err)
}
