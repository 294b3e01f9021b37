package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/geocoder89/pawhub/internal/domain/campaign"
	"github.com/geocoder89/pawhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CampaignsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewCampaignsRepo(pool *pgxpool.Pool, prom *observability.Prom) *CampaignsRepo {
	return &CampaignsRepo{pool: pool, prom: prom}
}

const campaignColumns = `id, pet_name, pet_image_url, max_amount, donated_amount, deadline, short_description,
	long_description, owner_email, paused, created_at, updated_at`

func campaignScanTargets(c *campaign.Campaign) []any {
	return []any{
		&c.ID, &c.PetName, &c.PetImageURL, &c.MaxAmount, &c.DonatedAmount, &c.Deadline, &c.ShortDescription,
		&c.LongDescription, &c.OwnerEmail, &c.Paused, &c.CreatedAt, &c.UpdatedAt,
	}
}

func (r *CampaignsRepo) Create(ctx context.Context, c campaign.Campaign) (campaign.Campaign, error) {
	err := r.prom.ObserveDB("campaigns.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO campaigns (`+campaignColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
			c.ID, c.PetName, c.PetImageURL, c.MaxAmount, c.DonatedAmount, c.Deadline, c.ShortDescription,
			c.LongDescription, c.OwnerEmail, c.Paused, c.CreatedAt, c.UpdatedAt,
		)
		return err
	})
	if err != nil {
		return campaign.Campaign{}, err
	}

	return c, nil
}

func (r *CampaignsRepo) GetByID(ctx context.Context, id string) (campaign.Campaign, error) {
	var c campaign.Campaign

	err := r.prom.ObserveDB("campaigns.get_by_id", func() error {
		return r.pool.QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id).
			Scan(campaignScanTargets(&c)...)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return campaign.Campaign{}, campaign.ErrNotFound
		}
		return campaign.Campaign{}, err
	}

	return c, nil
}

func (r *CampaignsRepo) OwnerOf(ctx context.Context, id string) (string, error) {
	var owner string

	err := r.prom.ObserveDB("campaigns.owner_of", func() error {
		return r.pool.QueryRow(ctx, `SELECT owner_email FROM campaigns WHERE id = $1`, id).Scan(&owner)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", campaign.ErrNotFound
		}
		return "", err
	}

	return owner, nil
}

func (r *CampaignsRepo) List(ctx context.Context, filter campaign.ListCampaignsFilter) ([]campaign.Campaign, int, error) {
	var conds []string
	var args []interface{}

	argsPosition := 1

	if !filter.IncludePaused {
		conds = append(conds, "paused = FALSE")
	}

	if filter.OwnerEmail != nil {
		conds = append(conds, fmt.Sprintf("owner_email = $%d", argsPosition))
		args = append(args, *filter.OwnerEmail)
		argsPosition++
	}

	query := `SELECT ` + campaignColumns + `, COUNT(*) OVER() AS total FROM campaigns`

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC, id ASC LIMIT $%d OFFSET $%d", argsPosition, argsPosition+1)
	args = append(args, filter.Limit, filter.Offset)

	out := make([]campaign.Campaign, 0, filter.Limit)
	total := 0

	err := r.prom.ObserveDB("campaigns.list", func() error {
		rows, err := r.pool.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var c campaign.Campaign
			if err := rows.Scan(append(campaignScanTargets(&c), &total)...); err != nil {
				return err
			}
			out = append(out, c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

func (r *CampaignsRepo) Update(ctx context.Context, id string, req campaign.UpdateCampaignRequest) (campaign.Campaign, error) {
	var c campaign.Campaign

	err := r.prom.ObserveDB("campaigns.update", func() error {
		return r.pool.QueryRow(ctx,
			`UPDATE campaigns
			SET pet_name = $2,
				pet_image_url = $3,
				max_amount = $4,
				deadline = $5,
				short_description = $6,
				long_description = $7,
				updated_at = NOW()
			WHERE id = $1
			RETURNING `+campaignColumns,
			id, req.PetName, req.PetImageURL, req.MaxAmount, req.Deadline.UTC(), req.ShortDescription, req.LongDescription,
		).Scan(campaignScanTargets(&c)...)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return campaign.Campaign{}, campaign.ErrNotFound
		}
		return campaign.Campaign{}, err
	}

	return c, nil
}

func (r *CampaignsRepo) SetPaused(ctx context.Context, id string, paused bool) (campaign.Campaign, error) {
	var c campaign.Campaign

	err := r.prom.ObserveDB("campaigns.set_paused", func() error {
		return r.pool.QueryRow(ctx,
			`UPDATE campaigns SET paused = $2, updated_at = NOW() WHERE id = $1 RETURNING `+campaignColumns,
			id, paused,
		).Scan(campaignScanTargets(&c)...)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return campaign.Campaign{}, campaign.ErrNotFound
		}
		return campaign.Campaign{}, err
	}

	return c, nil
}
