package identityfake

import (
	"context"

	"github.com/chakhaeng/auth-server/identity"
)

var _ identity.Verifier = (*FakeVerifier)(nil)

// FakeVerifier maps assertion strings to canned claims for tests. Unknown
// assertions fail the way a forged token would.
type FakeVerifier struct {
	Assertions map[string]*identity.Claims
}

func NewFakeVerifier() *FakeVerifier {
	return &FakeVerifier{Assertions: make(map[string]*identity.Claims)}
}

// Add registers an assertion that will verify successfully.
func (f *FakeVerifier) Add(assertion string, claims *identity.Claims) {
	f.Assertions[assertion] = claims
}

func (f *FakeVerifier) Verify(_ context.Context, assertion string) (*identity.Claims, error) {
	claims, ok := f.Assertions[assertion]
	if !ok {
		return nil, identity.ErrInvalidAssertion
	}
	copied := *claims
	return &copied, nil
}
