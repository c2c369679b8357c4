package model

import "time"

// Source tells whether a loaded result came from the backend or was
// synthesized locally.
type Source string

const (
	SourceRemote    Source = "remote"
	SourceSynthetic Source = "synthetic"
)

// Loaded is a result tagged with its provenance. It is built once by the
// loader and must not be mutated afterwards; refreshing produces a new value.
type Loaded[T any] struct {
	Result   T
	Source   Source
	Failure  string // failure kind that caused synthesis, empty when remote
	LoadedAt time.Time
}

// Synthetic reports whether the result is a local substitute.
func (l Loaded[T]) Synthetic() bool { return l.Source == SourceSynthetic }
