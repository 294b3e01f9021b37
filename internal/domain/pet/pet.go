package pet

import (
	"errors"
	"time"
)

type Pet struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Category         string    `json:"category"`
	Age              int       `json:"age"`
	Location         string    `json:"location"`
	ImageURL         string    `json:"imageURL"`
	ShortDescription string    `json:"shortDescription"`
	LongDescription  string    `json:"longDescription,omitempty"`
	OwnerEmail       string    `json:"ownerEmail"`
	Adopted          bool      `json:"adopted"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

var ErrNotFound = errors.New("pet not found")

// Categories accepted by the pet_category validation rule.
var Categories = []string{"dog", "cat", "bird", "rabbit", "fish", "other"}

func IsCategory(s string) bool {
	for _, c := range Categories {
		if c == s {
			return true
		}
	}
	return false
}

type CreatePetRequest struct {
	Name             string `json:"name" binding:"required,min=1,max=80"`
	Category         string `json:"category" binding:"required,pet_category"`
	Age              int    `json:"age" binding:"min=0,max=100"`
	Location         string `json:"location" binding:"required,max=120"`
	ImageURL         string `json:"imageURL" binding:"required,url,max=2048"`
	ShortDescription string `json:"shortDescription" binding:"required,max=280"`
	LongDescription  string `json:"longDescription" binding:"omitempty,max=5000"`
}

// full replacement of the editable fields; ownership and adoption state are not editable here.
type UpdatePetRequest struct {
	Name             string `json:"name" binding:"required,min=1,max=80"`
	Category         string `json:"category" binding:"required,pet_category"`
	Age              int    `json:"age" binding:"min=0,max=100"`
	Location         string `json:"location" binding:"required,max=120"`
	ImageURL         string `json:"imageURL" binding:"required,url,max=2048"`
	ShortDescription string `json:"shortDescription" binding:"required,max=280"`
	LongDescription  string `json:"longDescription" binding:"omitempty,max=5000"`
}

type ListPetsQuery struct {
	Search   string `form:"search" binding:"omitempty,max=80"`
	Category string `form:"category" binding:"omitempty,pet_category"`
	Page     int    `form:"page" binding:"min=0"`
	Size     int    `form:"size" binding:"omitempty,min=1,max=100"`
}

// with pointers if optional, it will be nil
type ListPetsFilter struct {
	Search         *string
	Category       *string
	OwnerEmail     *string
	IncludeAdopted bool
	Limit          int
	Offset         int
}
