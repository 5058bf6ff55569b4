// internal/infrastructure/storage/slot.go
package storage

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrSlotEmpty is returned by Load when nothing was ever saved under the key
	ErrSlotEmpty = errors.New("slot is empty")

	// ErrPersistenceUnavailable wraps every driver-level read or write failure
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
)

// Slot is a durable key-value slot. Values are opaque bytes.
type Slot interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Health(ctx context.Context) error
	Close() error
}

// Unavailable wraps a driver failure so callers can match ErrPersistenceUnavailable
func Unavailable(op, key string, err error) error {
	return fmt.Errorf("%w: %s %q: %w", ErrPersistenceUnavailable, op, key, err)
}
