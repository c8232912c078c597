// Package mastery tracks which cards the user has marked as known and
// persists that set across sessions.
//
// The set holds opaque card IDs. IDs of cards that no longer exist in the
// catalog are kept as they are; they simply never match a card.
package mastery

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/arcanaland/atelier/internal/storage"
)

// StorageKey is the key the known set is stored under.
const StorageKey = "knownArtworks"

// Set is a set of card IDs.
type Set map[string]struct{}

// NewSet returns a set holding ids.
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s Set) Len() int {
	return len(s)
}

// IDs returns the members in ascending order.
func (s Set) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	c := make(Set, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

// Equal reports whether both sets hold the same members.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// MarkKnown returns a copy of s with id added.
func MarkKnown(s Set, id string) Set {
	next := s.Clone()
	next[id] = struct{}{}
	return next
}

// MarkUnknown returns a copy of s with id removed.
func MarkUnknown(s Set, id string) Set {
	next := s.Clone()
	delete(next, id)
	return next
}

// Store loads and saves the known set through a key-value store.
type Store struct {
	kv     storage.KeyValue
	logger *slog.Logger

	lastErr error
}

// NewStore creates a Store on top of kv. A nil logger uses slog.Default().
func NewStore(kv storage.KeyValue, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: kv, logger: logger}
}

// Load reads the persisted set. Missing, unreadable or malformed data
// yields an empty set.
func (s *Store) Load() Set {
	raw, ok, err := s.kv.Get(StorageKey)
	if err != nil {
		s.logger.Warn("reading known cards failed, starting empty", "error", err)
		return NewSet()
	}
	if !ok {
		return NewSet()
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		s.logger.Warn("known cards are malformed, starting empty", "error", err)
		return NewSet()
	}
	return NewSet(ids...)
}

// Save persists set as a JSON array of IDs.
func (s *Store) Save(set Set) error {
	data, err := json.Marshal(set.IDs())
	if err != nil {
		return fmt.Errorf("encode known cards: %w", err)
	}
	if err := s.kv.Set(StorageKey, string(data)); err != nil {
		return fmt.Errorf("save known cards: %w", err)
	}
	return nil
}

// MarkKnown adds id to set and persists the result. A failed save is
// logged; the returned set is valid either way.
func (s *Store) MarkKnown(set Set, id string) Set {
	next := MarkKnown(set, id)
	s.persist(next)
	return next
}

// MarkUnknown removes id from set and persists the result.
func (s *Store) MarkUnknown(set Set, id string) Set {
	next := MarkUnknown(set, id)
	s.persist(next)
	return next
}

// Clear empties the persisted set and reports whether that reached the
// store. Unlike Reset, a failed write is returned to the caller.
func (s *Store) Clear() error {
	if err := s.Save(NewSet()); err != nil {
		return err
	}
	s.logger.Info("progress cleared")
	return nil
}

// Reset persists and returns an empty set.
func (s *Store) Reset() Set {
	next := NewSet()
	s.persist(next)
	return next
}

func (s *Store) persist(set Set) {
	s.lastErr = s.Save(set)
	if s.lastErr != nil {
		s.logger.Warn("progress not saved", "error", s.lastErr, "known", set.Len())
	}
}

// LastError returns the error of the most recent mutation's save, or nil
// if it was written.
func (s *Store) LastError() error {
	return s.lastErr
}
