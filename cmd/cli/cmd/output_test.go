package cmd

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	hub "hadithhub/internal/sync"
	"hadithhub/pkg/models"
)

func TestPreview(t *testing.T) {
	assert.Equal(t, "a b c", preview("  a\n b\t c "))

	long := strings.Repeat("ص", previewRunes+10)
	got := preview(long)
	assert.Equal(t, previewRunes+1, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "…"))
}

func TestFormatEntry(t *testing.T) {
	out := formatEntry(models.Entry{
		Reference:    "Sahih al-Bukhari 1",
		Grade:        models.GradeHigh,
		Theme:        "Faith and Belief",
		AttributedTo: "Umar bin Al-Khattab",
		PrimaryText:  "Actions are judged by intentions.",
	})
	assert.Contains(t, out, "Sahih al-Bukhari 1")
	assert.Contains(t, out, "[high]")
	assert.Contains(t, out, "· Umar bin Al-Khattab")
	assert.Contains(t, out, "Actions are judged by intentions.")
}

func TestFormatEvent(t *testing.T) {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	loaded := formatEvent(hub.LoadEvent{Type: hub.EventLoaded, CollectionID: "bukhari", Total: 120, Dropped: 3, Fallback: true, At: at})
	assert.Contains(t, loaded, "loaded 120 entries (3 duplicates dropped)")
	assert.Contains(t, loaded, "emergency dataset")

	batch := formatEvent(hub.LoadEvent{Type: hub.EventBatch, CollectionID: "bukhari", Batch: 2, Size: 25, Total: 75, At: at})
	assert.Contains(t, batch, "batch 2 +25 = 75")
}
