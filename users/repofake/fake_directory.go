package repofake

import (
	"context"
	"sync"

	"github.com/chakhaeng/auth-server/users"
)

var _ users.Directory = (*FakeDirectory)(nil)

// FakeDirectory is an in-memory users.Directory for tests and single-process
// development runs.
type FakeDirectory struct {
	mu      sync.RWMutex
	byID    map[string]*users.User
	byEmail map[string]string // email -> user ID
	bySubj  map[string]string // provider + "::" + subject -> user ID
}

func NewFakeDirectory() *FakeDirectory {
	return &FakeDirectory{
		byID:    make(map[string]*users.User),
		byEmail: make(map[string]string),
		bySubj:  make(map[string]string),
	}
}

func subjectKey(provider users.Provider, subject string) string {
	return string(provider) + "::" + subject
}

func (d *FakeDirectory) GetByID(_ context.Context, id string) (*users.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.byID[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (d *FakeDirectory) GetByEmail(_ context.Context, email string) (*users.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if email == "" {
		return nil, users.ErrNotFound
	}
	id, ok := d.byEmail[email]
	if !ok {
		return nil, users.ErrNotFound
	}
	copied := *d.byID[id]
	return &copied, nil
}

func (d *FakeDirectory) GetByProviderSubject(_ context.Context, provider users.Provider, subject string) (*users.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	id, ok := d.bySubj[subjectKey(provider, subject)]
	if !ok {
		return nil, users.ErrNotFound
	}
	copied := *d.byID[id]
	return &copied, nil
}

func (d *FakeDirectory) Create(_ context.Context, user *users.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.bySubj[subjectKey(user.Provider, user.ProviderSubject)]; ok {
		return users.ErrDuplicate
	}
	if user.Email != "" {
		if _, ok := d.byEmail[user.Email]; ok {
			return users.ErrDuplicate
		}
	}

	copied := *user
	d.byID[copied.ID.String()] = &copied
	d.bySubj[subjectKey(copied.Provider, copied.ProviderSubject)] = copied.ID.String()
	if copied.Email != "" {
		d.byEmail[copied.Email] = copied.ID.String()
	}
	return nil
}
