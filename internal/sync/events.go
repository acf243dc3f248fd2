package sync

import "time"

const (
	EventBatch  = "corpus.batch"
	EventLoaded = "corpus.loaded"
)

// LoadEvent reports progress of a working-set load to sync subscribers.
type LoadEvent struct {
	Type         string    `json:"type"` // EventBatch or EventLoaded
	SessionID    string    `json:"session_id"`
	LoadID       string    `json:"load_id"`
	CollectionID string    `json:"collection_id"`
	EditionID    string    `json:"edition_id,omitempty"`
	Batch        int       `json:"batch,omitempty"`
	Size         int       `json:"size,omitempty"`  // entries kept from this batch
	Total        int       `json:"total"`           // working-set size so far
	Dropped      int       `json:"dropped,omitempty"`
	Notice       string    `json:"notice,omitempty"`
	Fallback     bool      `json:"fallback,omitempty"`
	At           time.Time `json:"at"`
}
