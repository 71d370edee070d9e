package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrMalformed is returned by Parse when a token's structure or signature is
// invalid.
var ErrMalformed = errors.New("malformed token")

// Claims is the verified payload of an issued token.
type Claims struct {
	UserID    uuid.UUID
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type tokenClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Codec issues and parses the service's own bearer tokens. Access tokens are
// short-lived and stateless; refresh tokens carry only the subject and a
// long expiry, with revocability handled by the refresh store.
type Codec struct {
	signer     Signer
	accessTTL  time.Duration
	refreshTTL time.Duration
	nowFunc    func() time.Time
}

// CodecOption modifies a Codec.
type CodecOption func(*Codec)

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(now func() time.Time) CodecOption {
	return func(c *Codec) {
		c.nowFunc = now
	}
}

// NewCodec creates a Codec with the given signer and lifetimes.
func NewCodec(signer Signer, accessTTL, refreshTTL time.Duration, options ...CodecOption) *Codec {
	c := &Codec{
		signer:     signer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		nowFunc:    time.Now,
	}

	for _, opt := range options {
		opt(c)
	}

	if c.accessTTL == 0 {
		c.accessTTL = 15 * time.Minute
	}
	if c.refreshTTL == 0 {
		c.refreshTTL = 30 * 24 * time.Hour
	}
	return c
}

// AccessTTL returns the configured access token lifetime.
func (c *Codec) AccessTTL() time.Duration { return c.accessTTL }

// RefreshTTL returns the configured refresh token lifetime.
func (c *Codec) RefreshTTL() time.Duration { return c.refreshTTL }

// IssueAccess creates a signed access token for the user.
func (c *Codec) IssueAccess(userID uuid.UUID, email string) (string, error) {
	now := c.nowFunc()
	claims := tokenClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.accessTTL)),
		},
	}
	signed, err := c.signer.Sign(claims)
	if err != nil {
		return "", errors.Wrap(err, "Codec.IssueAccess")
	}
	return signed, nil
}

// IssueRefresh creates a signed refresh token for the user. The embedded
// expiry bounds the token's absolute lifetime; the refresh store decides
// whether a given token is still honoured.
func (c *Codec) IssueRefresh(userID uuid.UUID) (string, error) {
	now := c.nowFunc()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.refreshTTL)),
		},
	}
	signed, err := c.signer.Sign(claims)
	if err != nil {
		return "", errors.Wrap(err, "Codec.IssueRefresh")
	}
	return signed, nil
}

// Parse verifies signature and structure and returns the embedded claims.
// Expiry is NOT checked here; use IsExpired for that, so callers can
// distinguish "forged" from "stale".
func (c *Codec) Parse(raw string) (*Claims, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(raw, &claims, c.signer.GetVerificationKey,
		jwt.WithValidMethods([]string{c.signer.GetSigningMethod().Alg()}),
		jwt.WithoutClaimsValidation())
	if err != nil || !parsed.Valid {
		return nil, ErrMalformed
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrMalformed
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return nil, ErrMalformed
	}

	return &Claims{
		UserID:    userID,
		Email:     claims.Email,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// IsExpired reports whether the token is past its embedded expiry. Any parse
// failure counts as expired; an unverifiable token is never treated as valid.
func (c *Codec) IsExpired(raw string) bool {
	claims, err := c.Parse(raw)
	if err != nil {
		return true
	}
	return !claims.ExpiresAt.After(c.nowFunc())
}

// ExtractSubject returns the user id embedded in the token. Only meaningful
// after Parse succeeds.
func (c *Codec) ExtractSubject(raw string) (uuid.UUID, error) {
	claims, err := c.Parse(raw)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.UserID, nil
}
