package recorder

import "time"

// LoadEvent records the outcome of one loader call.
type LoadEvent struct {
	ID          string        `json:"id"`
	Operation   string        `json:"operation"` // "history", "info", "prediction", "popular", "search"
	Symbol      string        `json:"symbol,omitempty"`
	Source      string        `json:"source"`                 // "remote" or "synthetic"
	FailureKind string        `json:"failure_kind,omitempty"` // empty when remote
	Detail      string        `json:"detail,omitempty"`
	Duration    time.Duration `json:"duration_ns"`
	At          time.Time     `json:"at"`
}

// Recorder persists load outcomes for diagnostics.
type Recorder interface {
	RecordLoad(evt *LoadEvent) error
	RecentLoads(limit int) ([]LoadEvent, error)
	Prune(olderThan time.Duration) (int64, error)
	Close() error
}
