package pgrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chakhaeng/auth-server/users"
)

var _ users.Directory = (*Directory)(nil)

// Directory implements users.Directory on Postgres. Uniqueness of
// (provider, provider_subject) and of email is enforced by constraints, which
// makes concurrent first-time logins resolve deterministically: the losing
// insert re-fetches the winner's row.
type Directory struct {
	pool *pgxpool.Pool
}

func NewDirectory(pool *pgxpool.Pool) *Directory {
	return &Directory{pool: pool}
}

const userColumns = `id, email, name, picture, provider, provider_subject, active, created_at`

func (d *Directory) GetByID(ctx context.Context, id string) (*users.User, error) {
	row := d.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (d *Directory) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	if email == "" {
		return nil, users.ErrNotFound
	}
	row := d.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (d *Directory) GetByProviderSubject(ctx context.Context, provider users.Provider, subject string) (*users.User, error) {
	row := d.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE provider = $1 AND provider_subject = $2`,
		string(provider), subject)
	return scanUser(row)
}

func (d *Directory) Create(ctx context.Context, user *users.User) error {
	var email *string
	if user.Email != "" {
		email = &user.Email
	}

	_, err := d.pool.Exec(ctx,
		`INSERT INTO users (id, email, name, picture, provider, provider_subject, active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, now())`,
		user.ID, email, user.Name, user.Picture, string(user.Provider), user.ProviderSubject, user.Active)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505: unique_violation
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return users.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func scanUser(row pgx.Row) (*users.User, error) {
	var (
		u     users.User
		email *string
	)
	err := row.Scan(&u.ID, &email, &u.Name, &u.Picture, &u.Provider, &u.ProviderSubject, &u.Active, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	if email != nil {
		u.Email = *email
	}
	return &u, nil
}
