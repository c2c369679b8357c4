package watchlist

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the record does not exist.
var ErrNotFound = errors.New("record not found")

// Store is a durable key-value store holding whole records.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}
