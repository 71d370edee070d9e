package auth

import "errors"

var (
	// InvalidAssertionErr covers bad, forged, wrong-issuer or expired login
	// credentials from the identity provider.
	InvalidAssertionErr = errors.New("invalid identity assertion")
	// InvalidCredentialErr covers bad, expired or revoked access and refresh
	// tokens issued by this service.
	InvalidCredentialErr = errors.New("invalid credential")
)
