package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/chakhaeng/auth-server/identity"
	"github.com/chakhaeng/auth-server/token"
	"github.com/chakhaeng/auth-server/token/refresh"
	"github.com/chakhaeng/auth-server/users"
)

// TokenPair is the result of a successful login or refresh. TTLs are the
// full configured lifetimes, not the remaining time. Refresh fields are empty
// on a non-rotating refresh.
type TokenPair struct {
	Access       string
	AccessTTL    time.Duration
	Refresh      string
	RefreshTTL   time.Duration
	IsFirstLogin bool
}

// Introspection is the result of validating an access token.
type Introspection struct {
	UserID    uuid.UUID
	ExpiresAt time.Time
}

// SessionService orchestrates login, refresh, logout and validation. It owns
// no state of its own; the refresh store is the only mutable session state.
type SessionService struct {
	verifier  identity.Verifier
	directory users.Directory
	codec     *token.Codec
	store     refresh.Store
	provider  users.Provider

	// rotate invalidates the presented refresh token on every refresh and
	// issues a new one. Off by default for client compatibility; without it
	// the same refresh token stays valid until expiry or logout.
	rotate bool
	logger zerolog.Logger
}

// SessionServiceOption modifies the SessionService instance.
type SessionServiceOption func(*SessionService)

// WithRefreshRotation enables rotate-on-use refresh tokens.
func WithRefreshRotation() SessionServiceOption {
	return func(s *SessionService) {
		s.rotate = true
	}
}

// WithLogger sets the audit logger.
func WithLogger(logger zerolog.Logger) SessionServiceOption {
	return func(s *SessionService) {
		s.logger = logger
	}
}

// NewSessionService wires the session service. All dependencies are required.
func NewSessionService(
	verifier identity.Verifier,
	directory users.Directory,
	codec *token.Codec,
	store refresh.Store,
	options ...SessionServiceOption,
) (*SessionService, error) {
	if verifier == nil {
		return nil, errors.New("[NewSessionService] identity verifier is required")
	}
	if directory == nil {
		return nil, errors.New("[NewSessionService] user directory is required")
	}
	if codec == nil {
		return nil, errors.New("[NewSessionService] token codec is required")
	}
	if store == nil {
		return nil, errors.New("[NewSessionService] refresh store is required")
	}

	s := &SessionService{
		verifier:  verifier,
		directory: directory,
		codec:     codec,
		store:     store,
		provider:  users.ProviderGoogle,
		logger:    log.Logger,
	}

	for _, opt := range options {
		opt(s)
	}

	return s, nil
}

// Login verifies the external identity assertion, resolves or creates the
// user, and issues a fresh access/refresh token pair. The refresh token is
// persisted before the pair is returned.
func (s *SessionService) Login(ctx context.Context, assertion string) (*TokenPair, error) {
	claims, err := s.verifier.Verify(ctx, assertion)
	if err != nil {
		return nil, InvalidAssertionErr
	}

	user, first, err := s.resolveOrCreate(ctx, claims)
	if err != nil {
		return nil, errors.Wrap(err, "[SessionService.Login] resolve user")
	}

	access, err := s.codec.IssueAccess(user.ID, user.Email)
	if err != nil {
		return nil, errors.Wrap(err, "[SessionService.Login] issue access token")
	}
	refreshTok, err := s.codec.IssueRefresh(user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "[SessionService.Login] issue refresh token")
	}

	if err := s.store.Save(ctx, user.ID.String(), refreshTok, s.codec.RefreshTTL()); err != nil {
		return nil, errors.Wrap(err, "[SessionService.Login] save refresh token")
	}

	s.logger.Info().
		Str("event", "auth.login").
		Str("user_id", user.ID.String()).
		Bool("first_login", first).
		Msg("login succeeded")

	return &TokenPair{
		Access:       access,
		AccessTTL:    s.codec.AccessTTL(),
		Refresh:      refreshTok,
		RefreshTTL:   s.codec.RefreshTTL(),
		IsFirstLogin: first,
	}, nil
}

// resolveOrCreate looks the user up email-first, then by (provider, subject).
// The two-step order handles provider-side email changes while a prior record
// exists; first match wins. A concurrent duplicate create loses to the
// directory's uniqueness guarantee and re-fetches the winner.
func (s *SessionService) resolveOrCreate(ctx context.Context, claims *identity.Claims) (*users.User, bool, error) {
	if claims.Email != "" {
		if user, err := s.directory.GetByEmail(ctx, claims.Email); err == nil {
			return user, false, nil
		} else if !errors.Is(err, users.ErrNotFound) {
			return nil, false, err
		}
	}

	user, err := s.directory.GetByProviderSubject(ctx, s.provider, claims.Subject)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, users.ErrNotFound) {
		return nil, false, err
	}

	name := claims.Name
	if name == "" {
		name = users.DefaultName
	}
	created := &users.User{
		ID:              uuid.New(),
		Email:           claims.Email,
		Name:            name,
		Picture:         claims.Picture,
		Provider:        s.provider,
		ProviderSubject: claims.Subject,
		Active:          true,
	}

	err = s.directory.Create(ctx, created)
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, users.ErrDuplicate) {
		return nil, false, err
	}

	// Lost the create race: the winner's record is authoritative.
	if user, err := s.directory.GetByProviderSubject(ctx, s.provider, claims.Subject); err == nil {
		return user, false, nil
	}
	user, err = s.directory.GetByEmail(ctx, claims.Email)
	if err != nil {
		return nil, false, err
	}
	return user, false, nil
}

// Refresh mints a new access token for the subject of a valid refresh token.
// The refresh token must pass both its own embedded expiry and the store
// check; either failing is InvalidCredentialErr. Without rotation the same
// refresh token stays valid.
func (s *SessionService) Refresh(ctx context.Context, refreshTok string) (*TokenPair, error) {
	if s.codec.IsExpired(refreshTok) {
		return nil, InvalidCredentialErr
	}
	userID, err := s.codec.ExtractSubject(refreshTok)
	if err != nil {
		return nil, InvalidCredentialErr
	}

	valid, err := s.store.IsValid(ctx, userID.String(), refreshTok)
	if err != nil {
		return nil, errors.Wrap(err, "[SessionService.Refresh] store lookup")
	}
	if !valid {
		return nil, InvalidCredentialErr
	}

	user, err := s.directory.GetByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, InvalidCredentialErr
		}
		return nil, errors.Wrap(err, "[SessionService.Refresh] load user")
	}

	access, err := s.codec.IssueAccess(user.ID, user.Email)
	if err != nil {
		return nil, errors.Wrap(err, "[SessionService.Refresh] issue access token")
	}

	pair := &TokenPair{
		Access:    access,
		AccessTTL: s.codec.AccessTTL(),
	}

	if s.rotate {
		next, err := s.codec.IssueRefresh(user.ID)
		if err != nil {
			return nil, errors.Wrap(err, "[SessionService.Refresh] issue refresh token")
		}
		// Revoke before save so a replayed old token fails closed even if
		// the save below does not complete.
		if err := s.store.Revoke(ctx, userID.String(), refreshTok); err != nil {
			return nil, errors.Wrap(err, "[SessionService.Refresh] revoke rotated token")
		}
		if err := s.store.Save(ctx, userID.String(), next, s.codec.RefreshTTL()); err != nil {
			return nil, errors.Wrap(err, "[SessionService.Refresh] save rotated token")
		}
		pair.Refresh = next
		pair.RefreshTTL = s.codec.RefreshTTL()
	}

	s.logger.Info().
		Str("event", "auth.refresh").
		Str("user_id", userID.String()).
		Msg("access token refreshed")

	return pair, nil
}

// Logout revokes the refresh token best-effort. Unparseable tokens and
// already-absent records are benign; Logout never fails.
func (s *SessionService) Logout(ctx context.Context, refreshTok string) error {
	userID, err := s.codec.ExtractSubject(refreshTok)
	if err != nil {
		return nil
	}
	if err := s.store.Revoke(ctx, userID.String(), refreshTok); err != nil {
		s.logger.Warn().
			Str("event", "auth.logout").
			Str("user_id", userID.String()).
			Err(err).
			Msg("refresh token revoke failed")
		return nil
	}
	s.logger.Info().
		Str("event", "auth.logout").
		Str("user_id", userID.String()).
		Msg("logged out")
	return nil
}

// Validate introspects an access token: subject and expiry, or
// InvalidCredentialErr. The refresh store is not consulted; access tokens are
// not revocable mid-lifetime.
func (s *SessionService) Validate(ctx context.Context, accessTok string) (*Introspection, error) {
	if s.codec.IsExpired(accessTok) {
		return nil, InvalidCredentialErr
	}
	claims, err := s.codec.Parse(accessTok)
	if err != nil {
		return nil, InvalidCredentialErr
	}
	return &Introspection{
		UserID:    claims.UserID,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}
