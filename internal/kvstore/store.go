// Package kvstore is the durable key-value collaborator the game data layer
// persists reference snapshots and team records through.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by Get when a key has no value.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is an opaque string-keyed byte store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Envelope is the {data, timestamp} wrapper persisted around snapshots.
// Timestamp is Unix milliseconds of when Data was fetched.
type Envelope[T any] struct {
	Data      T     `json:"data"`
	Timestamp int64 `json:"timestamp"`
}

// FetchedAt returns the envelope timestamp as a time.
func (e Envelope[T]) FetchedAt() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// GetJSON reads and decodes an envelope. A missing key yields ok=false and no error.
func GetJSON[T any](ctx context.Context, s Store, key string) (env Envelope[T], ok bool, err error) {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return env, false, nil
	}
	if err != nil {
		return env, false, err
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return env, false, fmt.Errorf("kvstore: decode %s: %w", key, err)
	}
	return env, true, nil
}

// SetJSON encodes data in an envelope stamped with at and stores it under key.
func SetJSON[T any](ctx context.Context, s Store, key string, data T, at time.Time) error {
	raw, err := json.Marshal(Envelope[T]{Data: data, Timestamp: at.UnixMilli()})
	if err != nil {
		return fmt.Errorf("kvstore: encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}
