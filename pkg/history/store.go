package history

import (
	"context"
	"errors"

	"github.com/wayfare-dev/wayfare/pkg/router"
)

// ErrStoreClosed is returned by operations on a closed store.
var ErrStoreClosed = errors.New("history: store is closed")

// StateStore persists one state snapshot per key. Implementations must be
// safe for concurrent use.
//
// Load returns (nil, nil) when the key has no snapshot; errors are
// reserved for backend failures.
type StateStore interface {
	Save(ctx context.Context, key string, state *router.State) error
	Load(ctx context.Context, key string) (*router.State, error)
	Delete(ctx context.Context, key string) error
	Close() error
}
