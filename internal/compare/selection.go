package compare

import (
	"errors"
	"sync"
)

// ErrSelectionFull is returned when a third id is selected.
var ErrSelectionFull = errors.New("comparison selection is full")

// Selection holds at most two favorite ids chosen for comparison. Selection
// order is preserved for display pairing. Ids are tracked by value, never by
// reference into the collection, so a removed favorite cannot dangle here.
type Selection struct {
	mu  sync.Mutex
	ids []int
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{}
}

// Select adds id to the selection. Selecting an already-selected id is a
// no-op; selecting a third id fails with ErrSelectionFull.
func (s *Selection) Select(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.ids {
		if v == id {
			return nil
		}
	}
	if len(s.ids) >= 2 {
		return ErrSelectionFull
	}
	s.ids = append(s.ids, id)
	return nil
}

// Deselect removes id from the selection, leaving zero or one selected.
// Unknown ids are a no-op.
func (s *Selection) Deselect(id int) {
	s.prune(id)
}

// Prune drops id from the selection after the underlying favorite was
// removed from the collection.
func (s *Selection) Prune(id int) {
	s.prune(id)
}

func (s *Selection) prune(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			return
		}
	}
}

// Clear empties the selection, used when comparison mode is exited.
func (s *Selection) Clear() {
	s.mu.Lock()
	s.ids = nil
	s.mu.Unlock()
}

// IDs returns the selected ids in selection order.
func (s *Selection) IDs() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, len(s.ids))
	copy(out, s.ids)
	return out
}

// Pair returns the two selected ids in selection order, or ok=false unless
// exactly two are selected.
func (s *Selection) Pair() (first, second int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ids) != 2 {
		return 0, 0, false
	}
	return s.ids[0], s.ids[1], true
}
