package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/pawhub/internal/domain/campaign"
	"github.com/geocoder89/pawhub/internal/domain/donation"
	"github.com/geocoder89/pawhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DonationsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewDonationsRepo(pool *pgxpool.Pool, prom *observability.Prom) *DonationsRepo {
	return &DonationsRepo{pool: pool, prom: prom}
}

const donationColumns = `id, campaign_id, pet_name, donor_email, donor_name, amount, transaction_id, created_at`

func donationScanTargets(d *donation.Donation) []any {
	return []any{&d.ID, &d.CampaignID, &d.PetName, &d.DonorEmail, &d.DonorName, &d.Amount, &d.TransactionID, &d.CreatedAt}
}

// Create records the donation and adds its amount to the campaign total.
// The campaign row is locked so a concurrent pause is observed.
func (r *DonationsRepo) Create(ctx context.Context, d donation.Donation) (out donation.Donation, err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var paused bool
	var petName string
	err = r.prom.ObserveDB("donations.create.lock_campaign", func() error {
		return tx.QueryRow(ctx, `SELECT paused, pet_name FROM campaigns WHERE id = $1 FOR UPDATE`, d.CampaignID).
			Scan(&paused, &petName)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = campaign.ErrNotFound
		}
		return
	}

	if paused {
		err = campaign.ErrPaused
		return
	}

	d.PetName = petName

	err = r.prom.ObserveDB("donations.create.insert", func() error {
		_, e := tx.Exec(ctx,
			`INSERT INTO donations (`+donationColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			d.ID, d.CampaignID, d.PetName, d.DonorEmail, d.DonorName, d.Amount, d.TransactionID, d.CreatedAt,
		)
		return e
	})
	if err != nil {
		if IsUniqueViolation(err) {
			err = donation.ErrDuplicateTransaction
		}
		return
	}

	err = r.prom.ObserveDB("donations.create.add_total", func() error {
		_, e := tx.Exec(ctx,
			`UPDATE campaigns SET donated_amount = donated_amount + $2, updated_at = NOW() WHERE id = $1`,
			d.CampaignID, d.Amount,
		)
		return e
	})
	if err != nil {
		return
	}

	if err = tx.Commit(ctx); err != nil {
		return
	}

	out = d
	return
}

// OwnerOf returns the donor email.
func (r *DonationsRepo) OwnerOf(ctx context.Context, id string) (string, error) {
	var donor string

	err := r.prom.ObserveDB("donations.owner_of", func() error {
		return r.pool.QueryRow(ctx, `SELECT donor_email FROM donations WHERE id = $1`, id).Scan(&donor)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", donation.ErrNotFound
		}
		return "", err
	}

	return donor, nil
}

func (r *DonationsRepo) ListByDonor(ctx context.Context, donorEmail string) ([]donation.Donation, error) {
	return r.list(ctx, "donations.list_by_donor", `donor_email = $1`, donorEmail)
}

func (r *DonationsRepo) ListByCampaign(ctx context.Context, campaignID string) ([]donation.Donation, error) {
	return r.list(ctx, "donations.list_by_campaign", `campaign_id = $1`, campaignID)
}

func (r *DonationsRepo) list(ctx context.Context, op, cond, arg string) ([]donation.Donation, error) {
	out := make([]donation.Donation, 0)

	err := r.prom.ObserveDB(op, func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT `+donationColumns+` FROM donations WHERE `+cond+` ORDER BY created_at DESC, id ASC`,
			arg,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var d donation.Donation
			if err := rows.Scan(donationScanTargets(&d)...); err != nil {
				return err
			}
			out = append(out, d)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Delete removes the donation (refund request) and takes its amount back
// off the campaign total.
func (r *DonationsRepo) Delete(ctx context.Context, id string) (err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var campaignID string
	var amount int64
	err = r.prom.ObserveDB("donations.delete.remove", func() error {
		return tx.QueryRow(ctx, `DELETE FROM donations WHERE id = $1 RETURNING campaign_id, amount`, id).
			Scan(&campaignID, &amount)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = donation.ErrNotFound
		}
		return
	}

	err = r.prom.ObserveDB("donations.delete.sub_total", func() error {
		_, e := tx.Exec(ctx,
			`UPDATE campaigns SET donated_amount = GREATEST(donated_amount - $2, 0), updated_at = NOW() WHERE id = $1`,
			campaignID, amount,
		)
		return e
	})
	if err != nil {
		return
	}

	err = tx.Commit(ctx)
	return
}
