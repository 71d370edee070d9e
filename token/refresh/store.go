package refresh

import (
	"context"
	"time"
)

// Store tracks which refresh tokens are currently honoured per user. It is
// the only mutable session state in the service and must be safe for
// concurrent use.
//
// A token is valid iff a record exists for the exact (userID, token) pair and
// the stored expiry is in the future. Revoke deletes the record outright, so
// a revoked token becomes indistinguishable from one that was never issued.
//
// The in-memory implementation is only suitable for a single-process
// deployment; multi-instance deployments need a shared backing store such as
// redisrepo.Store.
type Store interface {
	Save(ctx context.Context, userID, token string, ttl time.Duration) error
	IsValid(ctx context.Context, userID, token string) (bool, error)
	Revoke(ctx context.Context, userID, token string) error
}
