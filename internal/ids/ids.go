// Package ids generates entry identifiers.
package ids

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator produces identifiers that are unique for the process lifetime.
type Generator interface {
	NewID() string
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func() string

func (f GeneratorFunc) NewID() string { return f() }

// TimeOrdered issues UUIDv7 identifiers: a millisecond timestamp followed by
// random bits, so ids sort roughly by creation time.
type TimeOrdered struct{}

func (TimeOrdered) NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does.
		return uuid.NewString()
	}
	return id.String()
}

// Default returns the generator used by the store when none is configured.
func Default() Generator {
	return TimeOrdered{}
}

// Sequence returns a deterministic generator yielding prefix-1, prefix-2, ...
func Sequence(prefix string) Generator {
	var n atomic.Int64
	return GeneratorFunc(func() string {
		return fmt.Sprintf("%s-%d", prefix, n.Add(1))
	})
}
