// Package store implements model.Store on SQLite and on an Airtable-style
// REST API, plus a dry-run wrapper that never writes.
package store

import "errors"

var (
	// ErrNotFound is returned when a company id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrBadCursor is returned for a cursor the store did not issue.
	ErrBadCursor = errors.New("invalid cursor")
)
