package users

import (
	"time"

	"github.com/google/uuid"
)

// Provider identifies the federated identity provider a user signed up with.
type Provider string

const (
	ProviderGoogle Provider = "GOOGLE"
	ProviderKakao  Provider = "KAKAO"
	ProviderNaver  Provider = "NAVER"
	ProviderApple  Provider = "APPLE"
)

// DefaultName is used when the identity provider supplies no display name.
const DefaultName = "사용자"

// User is the directory record for a federated identity. The internal ID is
// generated at first login and never changes; (Provider, ProviderSubject) is
// unique, and Email is unique when present.
type User struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email,omitempty"` // may be empty for some providers
	Name            string    `json:"name"`
	Picture         string    `json:"picture,omitempty"`
	Provider        Provider  `json:"provider"`
	ProviderSubject string    `json:"-"` // provider-scoped subject id
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
}
