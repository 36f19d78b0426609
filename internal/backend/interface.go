package backend

import (
	"context"

	"ledger/internal/kv"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result contains the storage instance and optional cleanup function
type Result struct {
	Store   kv.Store
	Cleanup CleanupFunc
}

// Close runs Cleanup when one is set.
func (r *Result) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates storage backends based on configuration
type Factory interface {
	Create(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type Type

	// File backend
	DataDir string

	// SQLite backend
	SQLitePath string
}

// Type represents the type of backend
type Type string

const (
	MemoryBackend Type = "memory"
	FileBackend   Type = "file"
	SQLiteBackend Type = "sqlite"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case MemoryBackend, FileBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}
