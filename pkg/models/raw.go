package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// RawEntry is one provider record as decoded from the edition payload.
// Providers disagree on field names ("text" vs "english" vs "translation"),
// so the record is kept as a loose map and read through the helpers below.
type RawEntry map[string]any

// String returns the trimmed string value of key, or "" if absent or not a string.
// Numbers are rendered in their decimal form.
func (r RawEntry) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

// Int returns the integer value of key. Numeric strings such as "12" or "12a"
// yield their leading digits. ok is false when no positive number is present.
func (r RawEntry) Int(key string) (int, bool) {
	v, present := r[key]
	if !present || v == nil {
		return 0, false
	}
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil && n > 0 {
			return int(n), true
		}
		if f, err := t.Float64(); err == nil && f >= 1 && f <= math.MaxInt32 {
			return int(f), true
		}
		return 0, false
	case float64:
		if t >= 1 && t <= math.MaxInt32 {
			return int(t), true
		}
		return 0, false
	case string:
		return leadingInt(t)
	default:
		return 0, false
	}
}

func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
