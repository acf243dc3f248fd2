package corpus

import (
	"sync"
	"sync/atomic"

	"hadithhub/pkg/models"
)

const (
	InitialPageSize = 50
	PageStep        = 25
)

// Cursor describes how much of a result set is visible.
type Cursor struct {
	DisplayedCount int  `json:"displayed_count"`
	HasMore        bool `json:"has_more"`
}

// Window returns the visible prefix of set under c.
func Window(set []models.Entry, c Cursor) []models.Entry {
	n := min(c.DisplayedCount, len(set))
	if n < 0 {
		n = 0
	}
	return set[:n:n]
}

// Pager tracks a growing prefix window over a result set of known size.
type Pager struct {
	Initial int
	Step    int

	mu       sync.Mutex
	cursor   Cursor
	total    int
	epoch    uint64
	inflight atomic.Bool
}

func NewPager(initial, step int) *Pager {
	if initial <= 0 {
		initial = InitialPageSize
	}
	if step <= 0 {
		step = PageStep
	}
	return &Pager{Initial: initial, Step: step}
}

// Reset starts over on a new result set of size total.
func (p *Pager) Reset(total int) Cursor {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.epoch++
	p.total = total
	p.cursor.DisplayedCount = min(p.Initial, total)
	p.cursor.HasMore = p.cursor.DisplayedCount < total
	return p.cursor
}

// Grow records that the same result set got longer, as happens while batches
// of one load are still arriving. The first page fills up to Initial; entries
// past it wait for LoadMore.
func (p *Pager) Grow(total int) Cursor {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
	shown := max(p.cursor.DisplayedCount, min(p.Initial, total))
	p.cursor.DisplayedCount = min(shown, total)
	p.cursor.HasMore = p.cursor.DisplayedCount < total
	return p.cursor
}

// Cursor returns the current cursor.
func (p *Pager) Cursor() Cursor {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor
}

// LoadMore advances the window by one step. prepare, when non-nil, runs
// before the cursor moves with the range about to be revealed; if it fails
// the cursor stays put. A call made while another LoadMore is running is
// ignored and reports false, as is a call on an exhausted set.
func (p *Pager) LoadMore(prepare func(from, to int) error) (Cursor, bool) {
	if !p.inflight.CompareAndSwap(false, true) {
		return p.Cursor(), false
	}
	defer p.inflight.Store(false)

	p.mu.Lock()
	from, total, epoch := p.cursor.DisplayedCount, p.total, p.epoch
	cur := p.cursor
	p.mu.Unlock()
	if from >= total {
		return cur, false
	}
	to := min(from+p.Step, total)

	if prepare != nil {
		if err := prepare(from, to); err != nil {
			return p.Cursor(), false
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.epoch != epoch {
		// the set was reset while preparing
		return p.cursor, false
	}
	p.cursor.DisplayedCount = to
	p.cursor.HasMore = to < p.total
	return p.cursor, true
}
