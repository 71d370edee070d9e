package repofake_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/chakhaeng/auth-server/users"
	"github.com/chakhaeng/auth-server/users/repofake"
)

func newTestUser(email, subject string) *users.User {
	return &users.User{
		ID:              uuid.New(),
		Email:           email,
		Name:            "Bob",
		Provider:        users.ProviderGoogle,
		ProviderSubject: subject,
		Active:          true,
	}
}

func TestFakeDirectoryLookups(t *testing.T) {
	ctx := context.Background()
	dir := repofake.NewFakeDirectory()
	user := newTestUser("bob@example.com", "subject-1")

	require.NoError(t, dir.Create(ctx, user))

	byID, err := dir.GetByID(ctx, user.ID.String())
	require.NoError(t, err)
	require.Equal(t, user.Email, byID.Email)

	byEmail, err := dir.GetByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	require.Equal(t, user.ID, byEmail.ID)

	bySubj, err := dir.GetByProviderSubject(ctx, users.ProviderGoogle, "subject-1")
	require.NoError(t, err)
	require.Equal(t, user.ID, bySubj.ID)

	_, err = dir.GetByID(ctx, uuid.NewString())
	require.ErrorIs(t, err, users.ErrNotFound)
	_, err = dir.GetByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, users.ErrNotFound)
	_, err = dir.GetByProviderSubject(ctx, users.ProviderKakao, "subject-1")
	require.ErrorIs(t, err, users.ErrNotFound)
}

func TestFakeDirectoryEmptyEmailNeverMatches(t *testing.T) {
	ctx := context.Background()
	dir := repofake.NewFakeDirectory()

	require.NoError(t, dir.Create(ctx, newTestUser("", "subject-no-email")))

	_, err := dir.GetByEmail(ctx, "")
	require.ErrorIs(t, err, users.ErrNotFound)
}

func TestFakeDirectoryRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	dir := repofake.NewFakeDirectory()

	require.NoError(t, dir.Create(ctx, newTestUser("bob@example.com", "subject-1")))

	err := dir.Create(ctx, newTestUser("other@example.com", "subject-1"))
	require.ErrorIs(t, err, users.ErrDuplicate)

	err = dir.Create(ctx, newTestUser("bob@example.com", "subject-2"))
	require.ErrorIs(t, err, users.ErrDuplicate)
}

func TestFakeDirectoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	dir := repofake.NewFakeDirectory()
	user := newTestUser("bob@example.com", "subject-1")

	require.NoError(t, dir.Create(ctx, user))

	got, err := dir.GetByID(ctx, user.ID.String())
	require.NoError(t, err)
	got.Name = "mutated"

	again, err := dir.GetByID(ctx, user.ID.String())
	require.NoError(t, err)
	require.Equal(t, "Bob", again.Name)
}
