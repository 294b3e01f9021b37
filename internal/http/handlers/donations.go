package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/pawhub/internal/config"
	"github.com/geocoder89/pawhub/internal/domain/campaign"
	"github.com/geocoder89/pawhub/internal/domain/donation"
	"github.com/geocoder89/pawhub/internal/domain/user"
	"github.com/geocoder89/pawhub/internal/payments"
	"github.com/gin-gonic/gin"
)

type DonationsStore interface {
	Create(ctx context.Context, d donation.Donation) (donation.Donation, error)
	ListByDonor(ctx context.Context, donorEmail string) ([]donation.Donation, error)
	ListByCampaign(ctx context.Context, campaignID string) ([]donation.Donation, error)
	Delete(ctx context.Context, id string) error
}

type CampaignReader interface {
	GetByID(ctx context.Context, id string) (campaign.Campaign, error)
}

type DonationsHandler struct {
	repo      DonationsStore
	campaigns CampaignReader
	processor payments.Processor
	log       *slog.Logger
}

func NewDonationsHandler(repo DonationsStore, campaigns CampaignReader, processor payments.Processor, log *slog.Logger) *DonationsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &DonationsHandler{repo: repo, campaigns: campaigns, processor: processor, log: log}
}

// CreatePaymentIntent asks the processor for a client secret. Nothing is
// stored until the client reports the confirmed transaction.
func (h *DonationsHandler) CreatePaymentIntent(ctx *gin.Context) {
	id, ok := mustIdentity(ctx)
	if !ok {
		return
	}

	var req donation.CreatePaymentIntentRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 5*time.Second)
	defer cancel()

	c, err := h.campaigns.GetByID(cctx, req.CampaignID)
	if err != nil {
		if errors.Is(err, campaign.ErrNotFound) {
			RespondNotFound(ctx, "Campaign not found")
			return
		}
		RespondInternal(ctx, "Could not create payment")
		return
	}
	if c.Paused {
		RespondConflict(ctx, "campaign_paused", "donations to this campaign are paused.")
		return
	}

	intent, err := h.processor.CreateIntent(cctx, payments.IntentParams{
		Amount:     req.Amount,
		CampaignID: c.ID,
		DonorEmail: user.NormalizeEmail(id.Email),
	})
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrNotConfigured), errors.Is(err, payments.ErrCircuitOpen):
			RespondUnavailable(ctx, "Payments are not available")
		case errors.Is(err, payments.ErrAmountTooSmall):
			RespondBadRequest(ctx, "Amount is below the minimum charge", nil)
		default:
			h.log.ErrorContext(ctx.Request.Context(), "payment intent failed", "err", err, "campaign_id", c.ID)
			RespondError(ctx, http.StatusBadGateway, "payment_failed", "Could not create payment", nil)
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"clientSecret": intent.ClientSecret})
}

func (h *DonationsHandler) CreateDonation(ctx *gin.Context) {
	id, ok := mustIdentity(ctx)
	if !ok {
		return
	}

	var req donation.CreateDonationRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	// the store fills PetName from the campaign row it locks
	d, err := h.repo.Create(cctx, donation.New(req, "", user.NormalizeEmail(id.Email), id.Name))
	if err != nil {
		switch {
		case errors.Is(err, campaign.ErrNotFound):
			RespondNotFound(ctx, "Campaign not found")
		case errors.Is(err, campaign.ErrPaused):
			RespondConflict(ctx, "campaign_paused", "donations to this campaign are paused.")
		case errors.Is(err, donation.ErrDuplicateTransaction):
			RespondConflict(ctx, "duplicate_transaction", "this transaction has already been recorded.")
		default:
			RespondInternal(ctx, "Could not record donation")
		}
		return
	}

	ctx.JSON(http.StatusCreated, d)
}

func (h *DonationsHandler) ListMyDonations(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	items, err := h.repo.ListByDonor(cctx, user.NormalizeEmail(ctx.Param("email")))
	if err != nil {
		RespondInternal(ctx, "Could not list donations")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

func (h *DonationsHandler) ListCampaignDonations(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	items, err := h.repo.ListByCampaign(cctx, ctx.Param("id"))
	if err != nil {
		RespondInternal(ctx, "Could not list donations")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// Refund removes the donor's donation and takes it off the campaign total.
// Reversing the charge with the processor is handled out of band.
func (h *DonationsHandler) Refund(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.repo.Delete(cctx, ctx.Param("id")); err != nil {
		if errors.Is(err, donation.ErrNotFound) {
			RespondNotFound(ctx, "Donation not found")
			return
		}
		RespondInternal(ctx, "Could not refund donation")
		return
	}

	ctx.Status(http.StatusNoContent)
}
