package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/pawhub/internal/domain/user"
	"github.com/geocoder89/pawhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{pool: pool, prom: prom}
}

const userColumns = `email, name, photo_url, role, created_at`

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	var rawRole string

	err := row.Scan(&u.Email, &u.Name, &u.PhotoURL, &rawRole, &u.CreatedAt)
	if err != nil {
		return user.User{}, err
	}

	role, err := user.ParseRole(rawRole)
	if err != nil {
		return user.User{}, fmt.Errorf("user %s: %w", u.Email, err)
	}
	u.Role = role

	return u, nil
}

// Create inserts u unless an identity with the same email already exists.
func (r *UsersRepo) Create(ctx context.Context, u user.User) error {
	var inserted int64

	err := r.prom.ObserveDB("users.create", func() error {
		tag, err := r.pool.Exec(ctx,
			`INSERT INTO users (email, name, photo_url, role, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (email) DO NOTHING`,
			u.Email, u.Name, u.PhotoURL, string(u.Role), u.CreatedAt,
		)
		inserted = tag.RowsAffected()
		return err
	})
	if err != nil {
		return err
	}

	if inserted == 0 {
		return user.ErrAlreadyExists
	}

	return nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	err := r.prom.ObserveDB("users.get_by_email", func() error {
		var e error
		u, e = scanUser(r.pool.QueryRow(ctx,
			`SELECT `+userColumns+` FROM users WHERE email = $1`,
			email,
		))
		return e
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}

	return u, nil
}

// RoleByEmail is the lookup behind the admin predicate. Unknown stored values
// come back as user.ErrUnknownRole.
func (r *UsersRepo) RoleByEmail(ctx context.Context, email string) (user.Role, error) {
	var raw string

	err := r.prom.ObserveDB("users.role_by_email", func() error {
		return r.pool.QueryRow(ctx, `SELECT role FROM users WHERE email = $1`, email).Scan(&raw)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", user.ErrNotFound
		}
		return "", err
	}

	return user.ParseRole(raw)
}

func (r *UsersRepo) List(ctx context.Context, filter user.ListFilter) ([]user.User, int, error) {
	out := make([]user.User, 0, filter.Limit)
	total := 0

	err := r.prom.ObserveDB("users.list", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT `+userColumns+`, COUNT(*) OVER() AS total
			FROM users
			ORDER BY created_at DESC, email ASC
			LIMIT $1 OFFSET $2`,
			filter.Limit, filter.Offset,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var u user.User
			var rawRole string

			if err := rows.Scan(&u.Email, &u.Name, &u.PhotoURL, &rawRole, &u.CreatedAt, &total); err != nil {
				return err
			}

			// listing stays readable even if one record carries a bad role
			if role, err := user.ParseRole(rawRole); err == nil {
				u.Role = role
			}
			out = append(out, u)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

func (r *UsersRepo) SetRole(ctx context.Context, email string, role user.Role) (user.User, error) {
	var u user.User

	err := r.prom.ObserveDB("users.set_role", func() error {
		var e error
		u, e = scanUser(r.pool.QueryRow(ctx,
			`UPDATE users SET role = $2 WHERE email = $1
			RETURNING `+userColumns,
			email, string(role),
		))
		return e
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}

	return u, nil
}
