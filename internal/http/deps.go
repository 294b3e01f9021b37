package http

import (
	"context"

	"github.com/geocoder89/pawhub/internal/auth"
	"github.com/geocoder89/pawhub/internal/domain/user"
	"github.com/geocoder89/pawhub/internal/http/handlers"
	"github.com/geocoder89/pawhub/internal/observability"
	"github.com/geocoder89/pawhub/internal/payments"
	"github.com/geocoder89/pawhub/internal/ratelimit"
	"github.com/geocoder89/pawhub/internal/repo/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

type ownerSource interface {
	OwnerOf(ctx context.Context, id string) (string, error)
}

type UsersBackend interface {
	handlers.UsersStore
	RoleByEmail(ctx context.Context, email string) (user.Role, error)
}

type PetsBackend interface {
	handlers.PetsStore
	ownerSource
}

type AdoptionsBackend interface {
	handlers.AdoptionsStore
	ownerSource
}

type CampaignsBackend interface {
	handlers.CampaignsStore
	ownerSource
}

type DonationsBackend interface {
	handlers.DonationsStore
	ownerSource
}

type TokenCodec interface {
	Issue(id auth.Identity) (string, error)
	Verify(token string) (auth.Identity, error)
}

// Deps is everything the router needs from the outside. Nil stores are only
// valid when the routes using them are never hit (tests).
type Deps struct {
	Users     UsersBackend
	Pets      PetsBackend
	Adoptions AdoptionsBackend
	Campaigns CampaignsBackend
	Donations DonationsBackend

	Tokens   TokenCodec
	Payments payments.Processor
	Limiter  ratelimit.Limiter

	Prom    *observability.Prom
	Metrics prometheus.Gatherer
	Health  map[string]handlers.Pinger
}

// PostgresDeps wires every store to the shared pool.
func PostgresDeps(pool *pgxpool.Pool, prom *observability.Prom) Deps {
	return Deps{
		Users:     postgres.NewUsersRepo(pool, prom),
		Pets:      postgres.NewPetsRepo(pool, prom),
		Adoptions: postgres.NewAdoptionsRepo(pool, prom),
		Campaigns: postgres.NewCampaignsRepo(pool, prom),
		Donations: postgres.NewDonationsRepo(pool, prom),
		Prom:      prom,
		Health:    map[string]handlers.Pinger{"postgres": pool},
	}
}
