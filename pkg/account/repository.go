package account

import (
	"context"
	"errors"
)

// Common errors used by repository/use cases
var (
	ErrNotFound          = errors.New("account not found")
	ErrDuplicateIdentity = errors.New("uid, username or email already exists")
)

// Repository abstracts persistence concerns from the domain layer.
// uid, username and email are each unique; Create must rely on the
// store's own constraints so that a violated insert persists nothing.
type Repository interface {
	Create(ctx context.Context, acc Account) error
	FindByUsername(ctx context.Context, username string) (Account, error)
	FindByUID(ctx context.Context, uid int64) (Account, error)
	// ExistsByIdentity checks uid, username and email in a single lookup.
	ExistsByIdentity(ctx context.Context, uid int64, username, email string) (bool, error)
}
