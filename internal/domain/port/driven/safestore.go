// Package driven defines the driven (outbound) port interfaces implemented
// by persistence and notification adapters.
package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/safehub/internal/domain/model"
)

// Sentinel errors returned by SafeStore implementations.
var (
	// ErrSafeNotFound indicates the requested safe does not exist.
	ErrSafeNotFound = errors.New("safe not found")

	// ErrSafeAlreadyExists indicates a safe with the same name already exists.
	ErrSafeAlreadyExists = errors.New("safe already exists")
)

// SafeStore defines the driven port for safe registry persistence.
// Add returns ErrSafeAlreadyExists if the name is taken.
// Remove and UpdateNotes return ErrSafeNotFound if the safe does not exist.
// GetByName returns nil, nil when no safe has the given name.
type SafeStore interface {
	Add(ctx context.Context, safe model.Safe) error
	Remove(ctx context.Context, name string) error
	GetByName(ctx context.Context, name string) (*model.Safe, error)
	ListAll(ctx context.Context) ([]model.Safe, error)
	UpdateNotes(ctx context.Context, name, notes string) error
}
