package db

import (
	"context"
	"time"

	"github.com/geocoder89/pawhub/internal/domain/user"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureAdminUser makes sure the configured email exists with the admin role.
// An existing identity is promoted; nothing happens when email is empty.
func EnsureAdminUser(ctx context.Context, pool *pgxpool.Pool, email, name string) error {
	email = user.NormalizeEmail(email)
	if email == "" {
		return nil
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO users (email, name, role, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET role = EXCLUDED.role`,
		email, name, string(user.RoleAdmin), time.Now().UTC(),
	)

	return err
}
