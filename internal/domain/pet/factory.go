package pet

import (
	"time"

	"github.com/google/uuid"
)

func NewFromCreateRequest(req CreatePetRequest, ownerEmail string) Pet {
	now := time.Now().UTC()

	return Pet{
		ID:               uuid.NewString(),
		Name:             req.Name,
		Category:         req.Category,
		Age:              req.Age,
		Location:         req.Location,
		ImageURL:         req.ImageURL,
		ShortDescription: req.ShortDescription,
		LongDescription:  req.LongDescription,
		OwnerEmail:       ownerEmail,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
