package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/geocoder89/pawhub/internal/config"
	"github.com/geocoder89/pawhub/internal/domain/pet"
	"github.com/geocoder89/pawhub/internal/domain/user"
	"github.com/gin-gonic/gin"
)

type PetsStore interface {
	Create(ctx context.Context, p pet.Pet) (pet.Pet, error)
	GetByID(ctx context.Context, id string) (pet.Pet, error)
	List(ctx context.Context, filter pet.ListPetsFilter) ([]pet.Pet, int, error)
	Update(ctx context.Context, id string, req pet.UpdatePetRequest) (pet.Pet, error)
	MarkAdopted(ctx context.Context, id string) (pet.Pet, error)
	Delete(ctx context.Context, id string) error
}

type PetsHandler struct {
	repo PetsStore
}

func NewPetsHandler(repo PetsStore) *PetsHandler {
	return &PetsHandler{repo: repo}
}

// ListPets is the public listing: only pets still up for adoption.
func (h *PetsHandler) ListPets(ctx *gin.Context) {
	var q pet.ListPetsQuery

	if !BindQuery(ctx, &q) {
		return
	}

	limit, offset, size := pageWindow(q.Page, q.Size)

	filter := pet.ListPetsFilter{Limit: limit, Offset: offset}

	if s := strings.TrimSpace(q.Search); s != "" {
		filter.Search = &s
	}
	if q.Category != "" {
		c := q.Category
		filter.Category = &c
	}

	h.respondList(ctx, filter, q.Page, size)
}

// ListAllPets is the admin view, adopted pets included.
func (h *PetsHandler) ListAllPets(ctx *gin.Context) {
	var q PageQuery

	if !BindQuery(ctx, &q) {
		return
	}

	limit, offset, size := pageWindow(q.Page, q.Size)

	h.respondList(ctx, pet.ListPetsFilter{IncludeAdopted: true, Limit: limit, Offset: offset}, q.Page, size)
}

func (h *PetsHandler) ListMyPets(ctx *gin.Context) {
	var q PageQuery

	if !BindQuery(ctx, &q) {
		return
	}

	limit, offset, size := pageWindow(q.Page, q.Size)
	owner := user.NormalizeEmail(ctx.Param("email"))

	h.respondList(ctx, pet.ListPetsFilter{
		OwnerEmail:     &owner,
		IncludeAdopted: true,
		Limit:          limit,
		Offset:         offset,
	}, q.Page, size)
}

func (h *PetsHandler) respondList(ctx *gin.Context, filter pet.ListPetsFilter, page, size int) {
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	pets, total, err := h.repo.List(cctx, filter)
	if err != nil {
		RespondInternal(ctx, "Could not list pets")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, pageResponse(pets, len(pets), total, page, size))
}

func (h *PetsHandler) GetPet(ctx *gin.Context) {
	id := ctx.Param("id")
	if !validID(ctx, id, "Pet not found") {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	p, err := h.repo.GetByID(cctx, id)
	if err != nil {
		if errors.Is(err, pet.ErrNotFound) {
			RespondNotFound(ctx, "Pet not found")
			return
		}
		RespondInternal(ctx, "Could not fetch pet")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, p)
}

func (h *PetsHandler) CreatePet(ctx *gin.Context) {
	id, ok := mustIdentity(ctx)
	if !ok {
		return
	}

	var req pet.CreatePetRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	// owner always comes from the session, never from the body
	p, err := h.repo.Create(cctx, pet.NewFromCreateRequest(req, user.NormalizeEmail(id.Email)))
	if err != nil {
		RespondInternal(ctx, "Could not create pet")
		return
	}

	ctx.JSON(http.StatusCreated, p)
}

func (h *PetsHandler) UpdatePet(ctx *gin.Context) {
	var req pet.UpdatePetRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	p, err := h.repo.Update(cctx, ctx.Param("id"), req)
	if err != nil {
		if errors.Is(err, pet.ErrNotFound) {
			RespondNotFound(ctx, "Pet not found")
			return
		}
		RespondInternal(ctx, "Could not update pet")
		return
	}

	ctx.JSON(http.StatusOK, p)
}

func (h *PetsHandler) MarkAdopted(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	p, err := h.repo.MarkAdopted(cctx, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, pet.ErrNotFound) {
			RespondNotFound(ctx, "Pet not found")
			return
		}
		RespondInternal(ctx, "Could not update pet")
		return
	}

	ctx.JSON(http.StatusOK, p)
}

// DeletePet serves both the owner route and the admin route; the gate in
// front decides who may reach it.
func (h *PetsHandler) DeletePet(ctx *gin.Context) {
	id := ctx.Param("id")
	if !validID(ctx, id, "Pet not found") {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.repo.Delete(cctx, id); err != nil {
		if errors.Is(err, pet.ErrNotFound) {
			RespondNotFound(ctx, "Pet not found")
			return
		}
		RespondInternal(ctx, "Could not delete pet")
		return
	}

	ctx.Status(http.StatusNoContent)
}
