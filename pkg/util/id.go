// Package util contains any functions used across the application that don't match
// any other package
package util

import "github.com/oklog/ulid/v2"

// NewID returns a new lexically sortable identifier. IDs created later
// sort after earlier ones.
func NewID() string {
	return ulid.Make().String()
}
