package token_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/chakhaeng/auth-server/token"
)

const (
	testSecret      = "test-signing-secret-1234"
	otherSecret     = "a-completely-different-secret"
	testAccessTTL   = 15 * time.Minute
	testRefreshTTL  = 30 * 24 * time.Hour
	testUserEmailTk = "john.doe@example.com"
)

func newTestCodec(now func() time.Time) *token.Codec {
	return token.NewCodec(token.NewHMACSigner(testSecret), testAccessTTL, testRefreshTTL, token.WithNowFunc(now))
}

func TestIssueAndParseAccessToken(t *testing.T) {
	userID := uuid.New()
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	codec := newTestCodec(func() time.Time { return issuedAt })

	raw, err := codec.IssueAccess(userID, testUserEmailTk)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := codec.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, userID, claims.UserID)
	require.Equal(t, testUserEmailTk, claims.Email)
	require.Equal(t, issuedAt.Add(testAccessTTL).Unix(), claims.ExpiresAt.Unix())

	subject, err := codec.ExtractSubject(raw)
	require.NoError(t, err)
	require.Equal(t, userID, subject)
}

func TestAccessTokenExpiryWindow(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := issuedAt
	codec := newTestCodec(func() time.Time { return now })

	raw, err := codec.IssueAccess(uuid.New(), "")
	require.NoError(t, err)

	// Valid one minute before expiry
	now = issuedAt.Add(14 * time.Minute)
	require.False(t, codec.IsExpired(raw))

	// Expired one minute after
	now = issuedAt.Add(16 * time.Minute)
	require.True(t, codec.IsExpired(raw))
}

func TestIsExpiredFailsClosed(t *testing.T) {
	codec := newTestCodec(time.Now)

	require.True(t, codec.IsExpired(""))
	require.True(t, codec.IsExpired("not-a-jwt"))
	require.True(t, codec.IsExpired("aaaa.bbbb.cccc"))
}

func TestParseRejectsForeignSignature(t *testing.T) {
	now := func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	codec := newTestCodec(now)
	foreign := token.NewCodec(token.NewHMACSigner(otherSecret), testAccessTTL, testRefreshTTL, token.WithNowFunc(now))

	raw, err := foreign.IssueAccess(uuid.New(), "")
	require.NoError(t, err)

	_, err = codec.Parse(raw)
	require.ErrorIs(t, err, token.ErrMalformed)
	require.True(t, codec.IsExpired(raw))
}

func TestRefreshTokenCarriesSubjectOnly(t *testing.T) {
	userID := uuid.New()
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	codec := newTestCodec(func() time.Time { return issuedAt })

	raw, err := codec.IssueRefresh(userID)
	require.NoError(t, err)

	claims, err := codec.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, userID, claims.UserID)
	require.Empty(t, claims.Email)
	require.Equal(t, issuedAt.Add(testRefreshTTL).Unix(), claims.ExpiresAt.Unix())
}

func TestParseAllowsExpiredButSignedTokens(t *testing.T) {
	// Parse only checks signature and structure; expiry is IsExpired's job,
	// so callers can still extract the subject of a stale token.
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := issuedAt
	codec := newTestCodec(func() time.Time { return now })

	raw, err := codec.IssueAccess(uuid.New(), "")
	require.NoError(t, err)

	now = issuedAt.Add(time.Hour)
	_, err = codec.Parse(raw)
	require.NoError(t, err)
	require.True(t, codec.IsExpired(raw))
}
