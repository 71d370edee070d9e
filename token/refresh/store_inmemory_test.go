package refresh_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chakhaeng/auth-server/token/refresh"
)

const (
	testStoreUserID = "5b1c38a6-7f7e-4c7e-85af-9a3c9a9a0001"
	testStoreToken  = "opaque-refresh-token"
	testStoreTTL    = 30 * 24 * time.Hour
)

func TestInMemoryStoreSaveAndValidate(t *testing.T) {
	ctx := context.Background()
	store := refresh.NewInMemoryStore()

	valid, err := store.IsValid(ctx, testStoreUserID, testStoreToken)
	require.NoError(t, err)
	require.False(t, valid)

	require.NoError(t, store.Save(ctx, testStoreUserID, testStoreToken, testStoreTTL))

	valid, err = store.IsValid(ctx, testStoreUserID, testStoreToken)
	require.NoError(t, err)
	require.True(t, valid)
}

func TestInMemoryStoreKeysOnExactPair(t *testing.T) {
	ctx := context.Background()
	store := refresh.NewInMemoryStore()

	require.NoError(t, store.Save(ctx, testStoreUserID, testStoreToken, testStoreTTL))

	valid, err := store.IsValid(ctx, testStoreUserID, "some-other-token")
	require.NoError(t, err)
	require.False(t, valid)

	valid, err = store.IsValid(ctx, "another-user", testStoreToken)
	require.NoError(t, err)
	require.False(t, valid)
}

func TestInMemoryStoreRevoke(t *testing.T) {
	ctx := context.Background()
	store := refresh.NewInMemoryStore()

	require.NoError(t, store.Save(ctx, testStoreUserID, testStoreToken, testStoreTTL))
	require.NoError(t, store.Revoke(ctx, testStoreUserID, testStoreToken))

	valid, err := store.IsValid(ctx, testStoreUserID, testStoreToken)
	require.NoError(t, err)
	require.False(t, valid)

	// Revoking an absent record is not an error
	require.NoError(t, store.Revoke(ctx, testStoreUserID, testStoreToken))
}

func TestInMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	store := refresh.NewInMemoryStore(refresh.WithNowFunc(func() time.Time { return now }))
	require.NoError(t, store.Save(ctx, testStoreUserID, testStoreToken, time.Hour))

	now = now.Add(59 * time.Minute)
	valid, err := store.IsValid(ctx, testStoreUserID, testStoreToken)
	require.NoError(t, err)
	require.True(t, valid)

	now = now.Add(2 * time.Minute)
	valid, err = store.IsValid(ctx, testStoreUserID, testStoreToken)
	require.NoError(t, err)
	require.False(t, valid)
}

func TestInMemoryStoreCleanup(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	store := refresh.NewInMemoryStore(refresh.WithNowFunc(func() time.Time { return now }))
	require.NoError(t, store.Save(ctx, testStoreUserID, "short", time.Minute))
	require.NoError(t, store.Save(ctx, testStoreUserID, "long", time.Hour))

	now = now.Add(10 * time.Minute)
	store.Cleanup()

	valid, err := store.IsValid(ctx, testStoreUserID, "short")
	require.NoError(t, err)
	require.False(t, valid)

	valid, err = store.IsValid(ctx, testStoreUserID, "long")
	require.NoError(t, err)
	require.True(t, valid)
}
