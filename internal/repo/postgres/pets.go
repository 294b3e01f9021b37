package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/geocoder89/pawhub/internal/domain/pet"
	"github.com/geocoder89/pawhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PetsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewPetsRepo(pool *pgxpool.Pool, prom *observability.Prom) *PetsRepo {
	return &PetsRepo{pool: pool, prom: prom}
}

const petColumns = `id, name, category, age, location, image_url, short_description, long_description,
	owner_email, adopted, created_at, updated_at`

func petScanTargets(p *pet.Pet) []any {
	return []any{
		&p.ID, &p.Name, &p.Category, &p.Age, &p.Location, &p.ImageURL, &p.ShortDescription,
		&p.LongDescription, &p.OwnerEmail, &p.Adopted, &p.CreatedAt, &p.UpdatedAt,
	}
}

func (r *PetsRepo) Create(ctx context.Context, p pet.Pet) (pet.Pet, error) {
	err := r.prom.ObserveDB("pets.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO pets (`+petColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
			p.ID, p.Name, p.Category, p.Age, p.Location, p.ImageURL, p.ShortDescription,
			p.LongDescription, p.OwnerEmail, p.Adopted, p.CreatedAt, p.UpdatedAt,
		)
		return err
	})
	if err != nil {
		return pet.Pet{}, err
	}

	return p, nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pet.Pet, error) {
	var p pet.Pet

	err := r.prom.ObserveDB("pets.get_by_id", func() error {
		return r.pool.QueryRow(ctx, `SELECT `+petColumns+` FROM pets WHERE id = $1`, id).Scan(petScanTargets(&p)...)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pet.Pet{}, pet.ErrNotFound
		}
		return pet.Pet{}, err
	}

	return p, nil
}

// OwnerOf returns the owner email used by the ownership predicate.
func (r *PetsRepo) OwnerOf(ctx context.Context, id string) (string, error) {
	var owner string

	err := r.prom.ObserveDB("pets.owner_of", func() error {
		return r.pool.QueryRow(ctx, `SELECT owner_email FROM pets WHERE id = $1`, id).Scan(&owner)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", pet.ErrNotFound
		}
		return "", err
	}

	return owner, nil
}

func (r *PetsRepo) List(ctx context.Context, filter pet.ListPetsFilter) ([]pet.Pet, int, error) {
	var conds []string
	var args []interface{}

	argsPosition := 1

	if !filter.IncludeAdopted {
		conds = append(conds, "adopted = FALSE")
	}

	if filter.Search != nil {
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", argsPosition))
		args = append(args, "%"+escapeLike(*filter.Search)+"%")
		argsPosition++
	}

	if filter.Category != nil {
		conds = append(conds, fmt.Sprintf("category = $%d", argsPosition))
		args = append(args, *filter.Category)
		argsPosition++
	}

	if filter.OwnerEmail != nil {
		conds = append(conds, fmt.Sprintf("owner_email = $%d", argsPosition))
		args = append(args, *filter.OwnerEmail)
		argsPosition++
	}

	query := `SELECT ` + petColumns + `, COUNT(*) OVER() AS total FROM pets`

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	// stable ordering for pagination
	query += fmt.Sprintf(" ORDER BY created_at DESC, id ASC LIMIT $%d OFFSET $%d", argsPosition, argsPosition+1)
	args = append(args, filter.Limit, filter.Offset)

	out := make([]pet.Pet, 0, filter.Limit)
	total := 0

	err := r.prom.ObserveDB("pets.list", func() error {
		rows, err := r.pool.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var p pet.Pet
			if err := rows.Scan(append(petScanTargets(&p), &total)...); err != nil {
				return err
			}
			out = append(out, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

func (r *PetsRepo) Update(ctx context.Context, id string, req pet.UpdatePetRequest) (pet.Pet, error) {
	var p pet.Pet

	err := r.prom.ObserveDB("pets.update", func() error {
		return r.pool.QueryRow(ctx,
			`UPDATE pets
			SET name = $2,
				category = $3,
				age = $4,
				location = $5,
				image_url = $6,
				short_description = $7,
				long_description = $8,
				updated_at = NOW()
			WHERE id = $1
			RETURNING `+petColumns,
			id, req.Name, req.Category, req.Age, req.Location, req.ImageURL, req.ShortDescription, req.LongDescription,
		).Scan(petScanTargets(&p)...)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pet.Pet{}, pet.ErrNotFound
		}
		return pet.Pet{}, err
	}

	return p, nil
}

func (r *PetsRepo) MarkAdopted(ctx context.Context, id string) (pet.Pet, error) {
	var p pet.Pet

	err := r.prom.ObserveDB("pets.mark_adopted", func() error {
		return r.pool.QueryRow(ctx,
			`UPDATE pets SET adopted = TRUE, updated_at = NOW() WHERE id = $1 RETURNING `+petColumns,
			id,
		).Scan(petScanTargets(&p)...)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pet.Pet{}, pet.ErrNotFound
		}
		return pet.Pet{}, err
	}

	return p, nil
}

func (r *PetsRepo) Delete(ctx context.Context, id string) error {
	var deleted int64

	err := r.prom.ObserveDB("pets.delete", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM pets WHERE id = $1`, id)
		deleted = tag.RowsAffected()
		return err
	})
	if err != nil {
		return err
	}

	// if no rows were deleted as a result return a not found error
	if deleted == 0 {
		return pet.ErrNotFound
	}

	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
