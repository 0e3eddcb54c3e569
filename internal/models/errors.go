package models

import "errors"

// ErrNotFound is returned by repository lookups when no row matches.
// Callers use errors.Is to tell a miss apart from a query failure.
var ErrNotFound = errors.New("not found")
