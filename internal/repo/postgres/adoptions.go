package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/pawhub/internal/domain/adoption"
	"github.com/geocoder89/pawhub/internal/domain/pet"
	"github.com/geocoder89/pawhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AdoptionsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewAdoptionsRepo(pool *pgxpool.Pool, prom *observability.Prom) *AdoptionsRepo {
	return &AdoptionsRepo{pool: pool, prom: prom}
}

const adoptionColumns = `id, pet_id, pet_name, pet_image_url, pet_owner_email, requester_email, requester_name,
	phone, address, status, created_at, updated_at`

func adoptionScanTargets(a *adoption.Request) []any {
	return []any{
		&a.ID, &a.PetID, &a.PetName, &a.PetImageURL, &a.PetOwnerEmail, &a.RequesterEmail, &a.RequesterName,
		&a.Phone, &a.Address, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	}
}

func (r *AdoptionsRepo) Create(ctx context.Context, a adoption.Request) (adoption.Request, error) {
	err := r.prom.ObserveDB("adoptions.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO adoption_requests (`+adoptionColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
			a.ID, a.PetID, a.PetName, a.PetImageURL, a.PetOwnerEmail, a.RequesterEmail, a.RequesterName,
			a.Phone, a.Address, a.Status, a.CreatedAt, a.UpdatedAt,
		)
		return err
	})
	if err != nil {
		switch {
		case IsUniqueViolation(err):
			return adoption.Request{}, adoption.ErrAlreadyRequested
		case IsForeignKeyViolation(err):
			// pet deleted between the handler's lookup and the insert
			return adoption.Request{}, pet.ErrNotFound
		}
		return adoption.Request{}, err
	}

	return a, nil
}

func (r *AdoptionsRepo) GetByID(ctx context.Context, id string) (adoption.Request, error) {
	var a adoption.Request

	err := r.prom.ObserveDB("adoptions.get_by_id", func() error {
		return r.pool.QueryRow(ctx, `SELECT `+adoptionColumns+` FROM adoption_requests WHERE id = $1`, id).
			Scan(adoptionScanTargets(&a)...)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return adoption.Request{}, adoption.ErrNotFound
		}
		return adoption.Request{}, err
	}

	return a, nil
}

// OwnerOf returns the email of the owner of the requested pet.
func (r *AdoptionsRepo) OwnerOf(ctx context.Context, id string) (string, error) {
	var owner string

	err := r.prom.ObserveDB("adoptions.owner_of", func() error {
		return r.pool.QueryRow(ctx, `SELECT pet_owner_email FROM adoption_requests WHERE id = $1`, id).Scan(&owner)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", adoption.ErrNotFound
		}
		return "", err
	}

	return owner, nil
}

func (r *AdoptionsRepo) ListByPetOwner(ctx context.Context, ownerEmail string) ([]adoption.Request, error) {
	return r.list(ctx, "adoptions.list_by_pet_owner", `pet_owner_email = $1`, ownerEmail)
}

func (r *AdoptionsRepo) ListByRequester(ctx context.Context, requesterEmail string) ([]adoption.Request, error) {
	return r.list(ctx, "adoptions.list_by_requester", `requester_email = $1`, requesterEmail)
}

func (r *AdoptionsRepo) list(ctx context.Context, op, cond string, arg string) ([]adoption.Request, error) {
	out := make([]adoption.Request, 0)

	err := r.prom.ObserveDB(op, func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT `+adoptionColumns+` FROM adoption_requests WHERE `+cond+` ORDER BY created_at DESC, id ASC`,
			arg,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var a adoption.Request
			if err := rows.Scan(adoptionScanTargets(&a)...); err != nil {
				return err
			}
			out = append(out, a)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Reject moves a pending request to rejected.
func (r *AdoptionsRepo) Reject(ctx context.Context, id string) (adoption.Request, error) {
	var a adoption.Request

	err := r.prom.ObserveDB("adoptions.reject", func() error {
		return r.pool.QueryRow(ctx,
			`UPDATE adoption_requests SET status = $2, updated_at = NOW()
			WHERE id = $1 AND status = $3
			RETURNING `+adoptionColumns,
			id, adoption.StatusRejected, adoption.StatusPending,
		).Scan(adoptionScanTargets(&a)...)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return adoption.Request{}, r.notPendingOrMissing(ctx, id)
		}
		return adoption.Request{}, err
	}

	return a, nil
}

// Accept marks the request accepted, the pet adopted and rejects every other
// pending request for the same pet, in one transaction.
func (r *AdoptionsRepo) Accept(ctx context.Context, id string) (a adoption.Request, err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	err = r.prom.ObserveDB("adoptions.accept.update", func() error {
		return tx.QueryRow(ctx,
			`UPDATE adoption_requests SET status = $2, updated_at = NOW()
			WHERE id = $1 AND status = $3
			RETURNING `+adoptionColumns,
			id, adoption.StatusAccepted, adoption.StatusPending,
		).Scan(adoptionScanTargets(&a)...)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = r.notPendingOrMissing(ctx, id)
		}
		return
	}

	var adoptedBefore bool
	err = r.prom.ObserveDB("adoptions.accept.lock_pet", func() error {
		return tx.QueryRow(ctx, `SELECT adopted FROM pets WHERE id = $1 FOR UPDATE`, a.PetID).Scan(&adoptedBefore)
	})
	if err != nil {
		return
	}
	if adoptedBefore {
		err = adoption.ErrPetAdopted
		return
	}

	err = r.prom.ObserveDB("adoptions.accept.mark_pet", func() error {
		_, e := tx.Exec(ctx, `UPDATE pets SET adopted = TRUE, updated_at = NOW() WHERE id = $1`, a.PetID)
		return e
	})
	if err != nil {
		return
	}

	err = r.prom.ObserveDB("adoptions.accept.reject_others", func() error {
		_, e := tx.Exec(ctx,
			`UPDATE adoption_requests SET status = $3, updated_at = NOW()
			WHERE pet_id = $1 AND id <> $2 AND status = $4`,
			a.PetID, a.ID, adoption.StatusRejected, adoption.StatusPending,
		)
		return e
	})
	if err != nil {
		return
	}

	err = tx.Commit(ctx)
	return
}

func (r *AdoptionsRepo) notPendingOrMissing(ctx context.Context, id string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return adoption.ErrNotPending
}
