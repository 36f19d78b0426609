// Package kv defines the durable string-keyed storage the ledger persists to.
package kv

import "context"

// Store is a string-keyed storage medium.
type Store interface {
	// Get returns the value stored under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set overwrites the value stored under key.
	Set(ctx context.Context, key, value string) error
}

// Closer is implemented by stores holding resources.
type Closer interface {
	Close() error
}
