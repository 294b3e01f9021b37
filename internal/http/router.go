package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/geocoder89/pawhub/internal/authz"
	"github.com/geocoder89/pawhub/internal/config"
	"github.com/geocoder89/pawhub/internal/domain/adoption"
	"github.com/geocoder89/pawhub/internal/domain/campaign"
	"github.com/geocoder89/pawhub/internal/domain/donation"
	"github.com/geocoder89/pawhub/internal/domain/pet"
	"github.com/geocoder89/pawhub/internal/http/handlers"
	"github.com/geocoder89/pawhub/internal/http/middlewares"
	"github.com/geocoder89/pawhub/internal/payments"
	"github.com/geocoder89/pawhub/internal/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const (
	serviceName  = "pawhub-api"
	maxBodyBytes = 1 << 20
)

func NewRouter(log *slog.Logger, deps Deps, cfg config.Config) *gin.Engine {
	if log == nil {
		log = slog.Default()
	}

	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(otelgin.Middleware(serviceName))
	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders(cfg.IsProd()))
	r.Use(middlewares.CORSMiddleware(cfg.CORSOrigins))
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(middlewares.RequireJSON())

	// health
	h := handlers.NewHealthHandler(deps.Health)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{})))
	}

	// gates
	authn := middlewares.NewAuthMiddleware(deps.Tokens, cfg.CookieName, log, deps.Prom)
	gate := middlewares.NewGate(authz.NewAuthorizer(deps.Users), log, deps.Prom)

	requireAuth := authn.RequireAuth()
	requireAdmin := gate.RequireAdmin()
	self := gate.RequireSelf("email")

	petOwner := gate.RequireOwnerOf("id", ownedBy(deps.Pets, pet.ErrNotFound), pet.ErrNotFound, "Pet not found")
	adoptionOwner := gate.RequireOwnerOf("id", ownedBy(deps.Adoptions, adoption.ErrNotFound), adoption.ErrNotFound, "Adoption request not found")
	campaignOwner := gate.RequireOwnerOf("id", ownedBy(deps.Campaigns, campaign.ErrNotFound), campaign.ErrNotFound, "Campaign not found")
	donor := gate.RequireOwnerOf("id", ownedBy(deps.Donations, donation.ErrNotFound), donation.ErrNotFound, "Donation not found")

	// handlers
	limiter := deps.Limiter
	if limiter == nil {
		limiter = ratelimit.NewMemory(cfg.TokenRateLimitPerMinute, time.Minute)
	}
	processor := deps.Payments
	if processor == nil {
		processor = payments.NewProcessor("", "")
	}

	sessionHandler := handlers.NewSessionHandler(
		deps.Tokens,
		handlers.NewCookiePolicy(cfg.CookieName, cfg.IsProd(), int(cfg.TokenTTL.Seconds())),
		log,
		deps.Prom,
	)
	usersHandler := handlers.NewUsersHandler(deps.Users)
	petsHandler := handlers.NewPetsHandler(deps.Pets)
	adoptionsHandler := handlers.NewAdoptionsHandler(deps.Adoptions, deps.Pets)
	campaignsHandler := handlers.NewCampaignsHandler(deps.Campaigns)
	donationsHandler := handlers.NewDonationsHandler(deps.Donations, deps.Campaigns, processor, log)

	// session
	r.POST("/jwt", middlewares.RateLimit(limiter, middlewares.KeyByIP, log), sessionHandler.IssueToken)
	r.POST("/logout", sessionHandler.Logout)

	// users
	r.POST("/users", usersHandler.Register)
	r.GET("/users", requireAuth, requireAdmin, usersHandler.ListUsers)
	r.GET("/users/admin/:email", requireAuth, self, usersHandler.AdminStatus)
	r.PATCH("/users/admin/:email", requireAuth, requireAdmin, usersHandler.PromoteToAdmin)

	// pets
	r.GET("/pets", petsHandler.ListPets)
	r.GET("/pets/:id", petsHandler.GetPet)
	r.GET("/pets/mine/:email", requireAuth, self, petsHandler.ListMyPets)
	r.POST("/pets", requireAuth, petsHandler.CreatePet)
	r.PUT("/pets/:id", requireAuth, petOwner, petsHandler.UpdatePet)
	r.DELETE("/pets/:id", requireAuth, petOwner, petsHandler.DeletePet)
	r.PATCH("/pets/:id/adopted", requireAuth, petOwner, petsHandler.MarkAdopted)

	// adoption requests
	r.POST("/adoptions", requireAuth, adoptionsHandler.RequestAdoption)
	r.GET("/adoptions/mine/:email", requireAuth, self, adoptionsHandler.ListReceived)
	r.GET("/adoptions/requested/:email", requireAuth, self, adoptionsHandler.ListSent)
	r.PATCH("/adoptions/:id/accept", requireAuth, adoptionOwner, adoptionsHandler.Accept)
	r.PATCH("/adoptions/:id/reject", requireAuth, adoptionOwner, adoptionsHandler.Reject)

	// campaigns
	r.GET("/campaigns", campaignsHandler.ListCampaigns)
	r.GET("/campaigns/:id", campaignsHandler.GetCampaign)
	r.GET("/campaigns/mine/:email", requireAuth, self, campaignsHandler.ListMyCampaigns)
	r.POST("/campaigns", requireAuth, campaignsHandler.CreateCampaign)
	r.PUT("/campaigns/:id", requireAuth, campaignOwner, campaignsHandler.UpdateCampaign)
	r.PATCH("/campaigns/:id/pause", requireAuth, campaignOwner, campaignsHandler.SetPaused)
	r.GET("/campaigns/:id/donations", requireAuth, campaignOwner, donationsHandler.ListCampaignDonations)

	// donations
	r.POST("/payments/intents", requireAuth, middlewares.RateLimit(limiter, middlewares.KeyByIdentityOrIP, log), donationsHandler.CreatePaymentIntent)
	r.POST("/donations", requireAuth, donationsHandler.CreateDonation)
	r.GET("/donations/mine/:email", requireAuth, self, donationsHandler.ListMyDonations)
	r.DELETE("/donations/:id", requireAuth, donor, donationsHandler.Refund)

	// admin
	admin := r.Group("/admin", requireAuth, requireAdmin)
	{
		admin.GET("/pets", petsHandler.ListAllPets)
		admin.DELETE("/pets/:id", petsHandler.DeletePet)
		admin.GET("/campaigns", campaignsHandler.ListAllCampaigns)
		admin.PATCH("/campaigns/:id/pause", campaignsHandler.SetPaused)
	}

	return r
}

// ownedBy adapts a store's OwnerOf for the ownership gate. Ids that are not
// UUIDs cannot exist, so they report notFound without touching the store.
func ownedBy(src ownerSource, notFound error) middlewares.OwnerLookup {
	return func(ctx context.Context, id string) (string, error) {
		if uuid.Validate(id) != nil {
			return "", notFound
		}
		return src.OwnerOf(ctx, id)
	}
}
