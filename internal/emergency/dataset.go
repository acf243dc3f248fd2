// Package emergency holds the small built-in working set served when the
// remote provider cannot be reached.
package emergency

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"hadithhub/pkg/models"
)

// CollectionID marks a working set made of emergency entries.
const CollectionID = "emergency"

//go:embed dataset.json
var datasetJSON []byte

var dataset = mustDecode(datasetJSON)

func mustDecode(b []byte) []models.Entry {
	var out []models.Entry
	if err := json.Unmarshal(b, &out); err != nil {
		panic(fmt.Sprintf("emergency: decode dataset: %v", err))
	}
	return out
}

// Dataset returns a copy of the built-in entries with their embedded ids.
func Dataset() []models.Entry {
	return Entries(0)
}

// Entries returns a copy of the built-in entries. When startID is positive
// the copies are renumbered from it so they can join a session's id space.
func Entries(startID int64) []models.Entry {
	out := make([]models.Entry, len(dataset))
	copy(out, dataset)
	if startID > 0 {
		for i := range out {
			out[i].ID = startID + int64(i)
		}
	}
	return out
}

// Len is the number of built-in entries.
func Len() int { return len(dataset) }
