package hadith

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUnknownSortKey  = errors.New("unknown sort key")
)
