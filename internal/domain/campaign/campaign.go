package campaign

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Campaign is a fundraising campaign for a pet. Amounts are in the smallest
// currency unit (cents).
type Campaign struct {
	ID               string    `json:"id"`
	PetName          string    `json:"petName"`
	PetImageURL      string    `json:"petImageURL"`
	MaxAmount        int64     `json:"maxAmount"`
	DonatedAmount    int64     `json:"donatedAmount"`
	Deadline         time.Time `json:"deadline"`
	ShortDescription string    `json:"shortDescription"`
	LongDescription  string    `json:"longDescription,omitempty"`
	OwnerEmail       string    `json:"ownerEmail"`
	Paused           bool      `json:"paused"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

var (
	ErrNotFound       = errors.New("campaign not found")
	ErrPaused         = errors.New("campaign is paused")
	ErrDeadlinePassed = errors.New("campaign deadline must be in the future")
)

type CreateCampaignRequest struct {
	PetName          string    `json:"petName" binding:"required,min=1,max=80"`
	PetImageURL      string    `json:"petImageURL" binding:"required,url,max=2048"`
	MaxAmount        int64     `json:"maxAmount" binding:"required,min=1"`
	Deadline         time.Time `json:"deadline" binding:"required"`
	ShortDescription string    `json:"shortDescription" binding:"required,max=280"`
	LongDescription  string    `json:"longDescription" binding:"omitempty,max=5000"`
}

type UpdateCampaignRequest struct {
	PetName          string    `json:"petName" binding:"required,min=1,max=80"`
	PetImageURL      string    `json:"petImageURL" binding:"required,url,max=2048"`
	MaxAmount        int64     `json:"maxAmount" binding:"required,min=1"`
	Deadline         time.Time `json:"deadline" binding:"required"`
	ShortDescription string    `json:"shortDescription" binding:"required,max=280"`
	LongDescription  string    `json:"longDescription" binding:"omitempty,max=5000"`
}

type PauseRequest struct {
	Paused *bool `json:"paused" binding:"required"`
}

type ListCampaignsQuery struct {
	Page int `form:"page" binding:"min=0"`
	Size int `form:"size" binding:"omitempty,min=1,max=100"`
}

type ListCampaignsFilter struct {
	OwnerEmail    *string
	IncludePaused bool
	Limit         int
	Offset        int
}

func NewFromCreateRequest(req CreateCampaignRequest, ownerEmail string) Campaign {
	now := time.Now().UTC()

	return Campaign{
		ID:               uuid.NewString(),
		PetName:          req.PetName,
		PetImageURL:      req.PetImageURL,
		MaxAmount:        req.MaxAmount,
		Deadline:         req.Deadline.UTC(),
		ShortDescription: req.ShortDescription,
		LongDescription:  req.LongDescription,
		OwnerEmail:       ownerEmail,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
