package corpus

import "sync/atomic"

// IDSequence hands out session-unique entry ids starting at 1.
type IDSequence struct {
	last atomic.Int64
}

// Reserve claims n consecutive ids and returns the first one.
func (s *IDSequence) Reserve(n int) int64 {
	if n <= 0 {
		return s.last.Load() + 1
	}
	return s.last.Add(int64(n)) - int64(n) + 1
}
