package corpus

import (
	"errors"
	"slices"
	"sync"

	"hadithhub/pkg/models"
)

// ErrStaleGeneration is returned when a loader appends to a working set that
// has since been replaced.
var ErrStaleGeneration = errors.New("working set was replaced")

// Snapshot is a read-only view of the working set at one point in time.
// Entries must not be modified by callers.
type Snapshot struct {
	CollectionID string
	Generation   uint64
	Entries      []models.Entry
	Loading      bool
}

// Store owns the single live working set. Replace swaps the whole set under
// the write lock, so readers see either the old or the new one, never a mix.
type Store struct {
	mu           sync.RWMutex
	collectionID string
	generation   uint64
	entries      []models.Entry
	loading      bool
}

func NewStore() *Store {
	return &Store{}
}

// Replace installs a complete working set and returns its generation.
func (s *Store) Replace(collectionID string, entries []models.Entry) uint64 {
	return s.install(collectionID, entries, false)
}

// BeginLoad installs the first batch of an incremental load. Later batches go
// through Append with the returned generation, and FinishLoad closes it.
func (s *Store) BeginLoad(collectionID string, first []models.Entry) uint64 {
	return s.install(collectionID, first, true)
}

func (s *Store) install(collectionID string, entries []models.Entry, loading bool) uint64 {
	own := slices.Clone(entries)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.collectionID = collectionID
	s.entries = own
	s.loading = loading
	return s.generation
}

// Append adds a batch to the set installed under gen, preserving order.
func (s *Store) Append(gen uint64, batch []models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return ErrStaleGeneration
	}
	// snapshots handed out earlier are clipped, so growing the backing array
	// never touches what they can see
	s.entries = append(s.entries, batch...)
	return nil
}

// FinishLoad marks the incremental load under gen complete.
func (s *Store) FinishLoad(gen uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return ErrStaleGeneration
	}
	s.loading = false
	return nil
}

// Current returns the live working set.
func (s *Store) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		CollectionID: s.collectionID,
		Generation:   s.generation,
		Entries:      slices.Clip(s.entries),
		Loading:      s.loading,
	}
}

// Generation returns the current generation without copying anything.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Len returns the size of the live working set.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
