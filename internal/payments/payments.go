// Package payments creates payment intents with the card processor. The
// client confirms the intent and then records the donation with the
// returned transaction id.
package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/geocoder89/pawhub/internal/domain/donation"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

var (
	ErrNotConfigured  = errors.New("payment processor not configured")
	ErrAmountTooSmall = fmt.Errorf("amount below processor minimum of %d", donation.MinAmount)
)

type IntentParams struct {
	Amount     int64
	CampaignID string
	DonorEmail string
}

type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

type Processor interface {
	CreateIntent(ctx context.Context, p IntentParams) (Intent, error)
}

type Stripe struct {
	api      *client.API
	currency string
}

// NewProcessor returns a Stripe-backed processor behind a circuit breaker, or
// one that always fails with ErrNotConfigured when no secret key is set.
func NewProcessor(secretKey, currency string) Processor {
	if strings.TrimSpace(secretKey) == "" {
		return disabled{}
	}

	sc := &client.API{}
	sc.Init(secretKey, nil)

	return NewBreaker(NewStripe(sc, currency), BreakerConfig{})
}

func NewStripe(api *client.API, currency string) *Stripe {
	currency = strings.ToLower(strings.TrimSpace(currency))
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	return &Stripe{api: api, currency: currency}
}

func (s *Stripe) CreateIntent(ctx context.Context, p IntentParams) (Intent, error) {
	if p.Amount < donation.MinAmount {
		return Intent{}, ErrAmountTooSmall
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(p.Amount),
		Currency:           stripe.String(s.currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx
	params.AddMetadata("campaign_id", p.CampaignID)
	params.AddMetadata("donor_email", p.DonorEmail)

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return Intent{}, fmt.Errorf("create payment intent: %w", err)
	}

	return Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
	}, nil
}

type disabled struct{}

func (disabled) CreateIntent(context.Context, IntentParams) (Intent, error) {
	return Intent{}, ErrNotConfigured
}
