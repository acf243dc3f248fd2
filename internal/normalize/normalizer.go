package normalize

import (
	"context"

	"hadithhub/internal/classify"
	"hadithhub/pkg/models"
)

// DefaultBatchSize is the number of raw entries processed per batch.
const DefaultBatchSize = 25

// Batch is one published slice of normalized entries.
type Batch struct {
	Index   int // 0-based batch number
	Offset  int // index of the first raw entry in this batch
	Entries []models.Entry
	Last    bool
}

// Normalizer converts provider records into canonical entries. Batch size only
// controls how often partial results are handed out; the produced entries are
// identical for every batch size.
type Normalizer struct {
	BatchSize  int
	Classifier *classify.Classifier
}

// New returns a normalizer with the given batch size (DefaultBatchSize if <= 0)
// and the built-in classifier.
func New(batchSize int) *Normalizer {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Normalizer{BatchSize: batchSize, Classifier: classify.Default()}
}

// Normalize converts all of raw, assigning ids sequentially from startID.
func (n *Normalizer) Normalize(raw []models.RawEntry, meta models.CollectionMeta, startID int64) []models.Entry {
	out := make([]models.Entry, 0, len(raw))
	_ = n.Each(context.Background(), raw, meta, startID, func(b Batch) error {
		out = append(out, b.Entries...)
		return nil
	})
	return out
}

// Each normalizes raw in batches and calls publish after every batch. It stops
// early when ctx is done or publish returns an error.
func (n *Normalizer) Each(ctx context.Context, raw []models.RawEntry, meta models.CollectionMeta, startID int64, publish func(Batch) error) error {
	size := n.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}
	id := startID
	for offset, bi := 0, 0; offset < len(raw); offset, bi = offset+size, bi+1 {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(offset+size, len(raw))
		entries := make([]models.Entry, 0, end-offset)
		for i := offset; i < end; i++ {
			entries = append(entries, n.One(raw[i], meta, i, id))
			id++
		}
		if err := publish(Batch{Index: bi, Offset: offset, Entries: entries, Last: end == len(raw)}); err != nil {
			return err
		}
	}
	return nil
}

// One normalizes a single raw record. index is its position in the full raw
// list and supplies the entry number when the provider has none.
func (n *Normalizer) One(raw models.RawEntry, meta models.CollectionMeta, index int, id int64) models.Entry {
	text := firstNonEmpty(raw, textFields)
	if text == "" {
		text = PlaceholderText
	}

	number, ok := firstNumber(raw, numberFields)
	if !ok {
		number = index + 1
	}

	c := n.Classifier
	if c == nil {
		c = classify.Default()
	}
	class := c.Classify(text)

	gradeSource := meta.Name
	if gradeSource == "" {
		gradeSource = meta.ID
	}

	return models.Entry{
		ID:                   id,
		CollectionID:         meta.ID,
		CollectionName:       meta.Name,
		CollectionNameNative: meta.NativeName,
		EntryNumber:          number,
		AttributedTo:         Narrator(text),
		Category:             class.Category,
		Theme:                class.Theme,
		Grade:                classify.Grade(gradeSource),
		Explanation:          Gloss(class.Category, class.Theme),
		PrimaryText:          text,
		NativeText:           firstNonEmpty(raw, nativeFields),
		Reference:            models.ComposeReference(meta.Name, number),
		Chapter:              optional(raw, chapterFields),
		Section:              optional(raw, sectionFields),
	}
}

// FindNumber scans raw for the record whose entry number (provider supplied
// or positional) equals number, without normalizing the rest of the list.
func FindNumber(raw []models.RawEntry, number int) (models.RawEntry, int, bool) {
	for i, r := range raw {
		n, ok := firstNumber(r, numberFields)
		if !ok {
			n = i + 1
		}
		if n == number {
			return r, i, true
		}
	}
	return nil, 0, false
}
