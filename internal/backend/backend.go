// Package backend selects and constructs the persistence store from
// configuration.
package backend

import (
	"expenselog/internal/storage"
)

// Type represents the type of persistence backend.
type Type string

const (
	CSVBackend    Type = "csv"
	SQLiteBackend Type = "sqlite"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case CSVBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result contains the store instance and optional cleanup function
type Result struct {
	Store    storage.Store
	Cleanup  CleanupFunc
	Location string // human-readable data location for console messages
}
