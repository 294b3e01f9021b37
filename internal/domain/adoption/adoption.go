package adoption

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

var (
	ErrNotFound         = errors.New("adoption request not found")
	ErrAlreadyRequested = errors.New("adoption already requested")
	ErrOwnPet           = errors.New("cannot adopt own pet")
	ErrPetAdopted       = errors.New("pet already adopted")
	ErrNotPending       = errors.New("adoption request is not pending")
)

// Request is an adoption request. PetOwnerEmail is copied from the pet at
// creation time so the owner check does not need a second lookup.
type Request struct {
	ID             string    `json:"id"`
	PetID          string    `json:"petId"`
	PetName        string    `json:"petName"`
	PetImageURL    string    `json:"petImageURL"`
	PetOwnerEmail  string    `json:"petOwnerEmail"`
	RequesterEmail string    `json:"requesterEmail"`
	RequesterName  string    `json:"requesterName"`
	Phone          string    `json:"phone"`
	Address        string    `json:"address"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type CreateRequest struct {
	PetID   string `json:"petId" binding:"required,uuid"`
	Phone   string `json:"phone" binding:"required,min=5,max=32"`
	Address string `json:"address" binding:"required,max=280"`
}

func New(req CreateRequest, petName, petImageURL, petOwnerEmail, requesterEmail, requesterName string) Request {
	now := time.Now().UTC()

	return Request{
		ID:             uuid.NewString(),
		PetID:          req.PetID,
		PetName:        petName,
		PetImageURL:    petImageURL,
		PetOwnerEmail:  petOwnerEmail,
		RequesterEmail: requesterEmail,
		RequesterName:  requesterName,
		Phone:          req.Phone,
		Address:        req.Address,
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
