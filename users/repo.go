package users

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicate is returned by Create when the (provider, subject) pair or
	// the email already belongs to another user.
	ErrDuplicate = errors.New("user already exists")
)

// Directory is the narrow contract the auth service has on the user store.
// Create must guarantee uniqueness of (Provider, ProviderSubject) and of a
// non-empty Email, so that concurrent first-time logins for the same external
// identity collapse onto a single record.
type Directory interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByProviderSubject(ctx context.Context, provider Provider, subject string) (*User, error)
	Create(ctx context.Context, user *User) error
}
