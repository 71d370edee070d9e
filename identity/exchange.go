package identity

import (
	"context"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// CodeExchanger swaps an OAuth2 authorization code for the provider's raw ID
// token, for clients that complete the consent flow server-side instead of
// obtaining an ID token directly. The returned assertion still goes through
// Verifier.Verify.
type CodeExchanger struct {
	clientID     string
	clientSecret string
}

func NewCodeExchanger(clientID, clientSecret string) *CodeExchanger {
	return &CodeExchanger{clientID: clientID, clientSecret: clientSecret}
}

// Exchange redeems the authorization code at Google's token endpoint and
// returns the embedded ID token.
func (e *CodeExchanger) Exchange(ctx context.Context, code, redirectURI string) (string, error) {
	conf := &oauth2.Config{
		ClientID:     e.clientID,
		ClientSecret: e.clientSecret,
		RedirectURL:  redirectURI,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}

	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		return "", ErrInvalidAssertion
	}

	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return "", ErrInvalidAssertion
	}
	return rawIDToken, nil
}
