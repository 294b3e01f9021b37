package donation

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Donation struct {
	ID            string    `json:"id"`
	CampaignID    string    `json:"campaignId"`
	PetName       string    `json:"petName"`
	DonorEmail    string    `json:"donorEmail"`
	DonorName     string    `json:"donorName"`
	Amount        int64     `json:"amount"`
	TransactionID string    `json:"transactionId"`
	CreatedAt     time.Time `json:"createdAt"`
}

var (
	ErrNotFound             = errors.New("donation not found")
	ErrDuplicateTransaction = errors.New("donation already recorded for transaction")
)

// MinAmount is the processor's minimum charge in cents.
const MinAmount = 50

type CreateDonationRequest struct {
	CampaignID    string `json:"campaignId" binding:"required,uuid"`
	Amount        int64  `json:"amount" binding:"required,min=50"`
	TransactionID string `json:"transactionId" binding:"required,max=255"`
}

type CreatePaymentIntentRequest struct {
	CampaignID string `json:"campaignId" binding:"required,uuid"`
	Amount     int64  `json:"amount" binding:"required,min=50"`
}

func New(req CreateDonationRequest, petName, donorEmail, donorName string) Donation {
	return Donation{
		ID:            uuid.NewString(),
		CampaignID:    req.CampaignID,
		PetName:       petName,
		DonorEmail:    donorEmail,
		DonorName:     donorName,
		Amount:        req.Amount,
		TransactionID: req.TransactionID,
		CreatedAt:     time.Now().UTC(),
	}
}
