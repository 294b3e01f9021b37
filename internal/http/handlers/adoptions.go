package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/pawhub/internal/config"
	"github.com/geocoder89/pawhub/internal/domain/adoption"
	"github.com/geocoder89/pawhub/internal/domain/pet"
	"github.com/geocoder89/pawhub/internal/domain/user"
	"github.com/gin-gonic/gin"
)

type AdoptionsStore interface {
	Create(ctx context.Context, a adoption.Request) (adoption.Request, error)
	ListByPetOwner(ctx context.Context, ownerEmail string) ([]adoption.Request, error)
	ListByRequester(ctx context.Context, requesterEmail string) ([]adoption.Request, error)
	Accept(ctx context.Context, id string) (adoption.Request, error)
	Reject(ctx context.Context, id string) (adoption.Request, error)
}

type PetReader interface {
	GetByID(ctx context.Context, id string) (pet.Pet, error)
}

type AdoptionsHandler struct {
	repo AdoptionsStore
	pets PetReader
}

func NewAdoptionsHandler(repo AdoptionsStore, pets PetReader) *AdoptionsHandler {
	return &AdoptionsHandler{repo: repo, pets: pets}
}

func (h *AdoptionsHandler) RequestAdoption(ctx *gin.Context) {
	id, ok := mustIdentity(ctx)
	if !ok {
		return
	}

	var req adoption.CreateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	p, err := h.pets.GetByID(cctx, req.PetID)
	if err != nil {
		if errors.Is(err, pet.ErrNotFound) {
			RespondNotFound(ctx, "Pet not found")
			return
		}
		RespondInternal(ctx, "Could not request adoption")
		return
	}

	requester := user.NormalizeEmail(id.Email)

	if p.Adopted {
		RespondConflict(ctx, "pet_adopted", "this pet has already been adopted.")
		return
	}
	if user.NormalizeEmail(p.OwnerEmail) == requester {
		RespondConflict(ctx, "own_pet", "you cannot adopt your own pet.")
		return
	}

	a, err := h.repo.Create(cctx, adoption.New(req, p.Name, p.ImageURL, p.OwnerEmail, requester, id.Name))
	if err != nil {
		switch {
		case errors.Is(err, adoption.ErrAlreadyRequested):
			RespondConflict(ctx, "already_requested", "you already have a pending request for this pet.")
		case errors.Is(err, pet.ErrNotFound):
			RespondNotFound(ctx, "Pet not found")
		default:
			RespondInternal(ctx, "Could not request adoption")
		}
		return
	}

	ctx.JSON(http.StatusCreated, a)
}

// ListReceived lists requests made on the caller's pets.
func (h *AdoptionsHandler) ListReceived(ctx *gin.Context) {
	h.list(ctx, h.repo.ListByPetOwner)
}

// ListSent lists requests the caller made.
func (h *AdoptionsHandler) ListSent(ctx *gin.Context) {
	h.list(ctx, h.repo.ListByRequester)
}

func (h *AdoptionsHandler) list(ctx *gin.Context, fetch func(context.Context, string) ([]adoption.Request, error)) {
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	items, err := fetch(cctx, user.NormalizeEmail(ctx.Param("email")))
	if err != nil {
		RespondInternal(ctx, "Could not list adoption requests")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

func (h *AdoptionsHandler) Accept(ctx *gin.Context) {
	h.decide(ctx, h.repo.Accept)
}

func (h *AdoptionsHandler) Reject(ctx *gin.Context) {
	h.decide(ctx, h.repo.Reject)
}

func (h *AdoptionsHandler) decide(ctx *gin.Context, apply func(context.Context, string) (adoption.Request, error)) {
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	a, err := apply(cctx, ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, adoption.ErrNotFound):
			RespondNotFound(ctx, "Adoption request not found")
		case errors.Is(err, adoption.ErrNotPending):
			RespondConflict(ctx, "not_pending", "this adoption request has already been decided.")
		case errors.Is(err, adoption.ErrPetAdopted):
			RespondConflict(ctx, "pet_adopted", "this pet has already been adopted.")
		default:
			RespondInternal(ctx, "Could not update adoption request")
		}
		return
	}

	ctx.JSON(http.StatusOK, a)
}
