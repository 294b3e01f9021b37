package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/pawhub/internal/config"
	"github.com/geocoder89/pawhub/internal/domain/campaign"
	"github.com/geocoder89/pawhub/internal/domain/user"
	"github.com/gin-gonic/gin"
)

type CampaignsStore interface {
	Create(ctx context.Context, c campaign.Campaign) (campaign.Campaign, error)
	GetByID(ctx context.Context, id string) (campaign.Campaign, error)
	List(ctx context.Context, filter campaign.ListCampaignsFilter) ([]campaign.Campaign, int, error)
	Update(ctx context.Context, id string, req campaign.UpdateCampaignRequest) (campaign.Campaign, error)
	SetPaused(ctx context.Context, id string, paused bool) (campaign.Campaign, error)
}

type CampaignsHandler struct {
	repo CampaignsStore
	now  func() time.Time
}

func NewCampaignsHandler(repo CampaignsStore) *CampaignsHandler {
	return &CampaignsHandler{repo: repo, now: time.Now}
}

func (h *CampaignsHandler) deadlineOK(ctx *gin.Context, deadline time.Time) bool {
	if !deadline.After(h.now()) {
		RespondBadRequest(ctx, "Invalid request body", gin.H{
			"fields": []FieldError{{
				Field:   "deadline",
				Rule:    "future",
				Message: campaign.ErrDeadlinePassed.Error(),
			}},
		})
		return false
	}
	return true
}

// ListCampaigns is the public listing; paused campaigns are hidden.
func (h *CampaignsHandler) ListCampaigns(ctx *gin.Context) {
	h.listWith(ctx, func(limit, offset int) campaign.ListCampaignsFilter {
		return campaign.ListCampaignsFilter{Limit: limit, Offset: offset}
	})
}

func (h *CampaignsHandler) ListAllCampaigns(ctx *gin.Context) {
	h.listWith(ctx, func(limit, offset int) campaign.ListCampaignsFilter {
		return campaign.ListCampaignsFilter{IncludePaused: true, Limit: limit, Offset: offset}
	})
}

func (h *CampaignsHandler) ListMyCampaigns(ctx *gin.Context) {
	owner := user.NormalizeEmail(ctx.Param("email"))

	h.listWith(ctx, func(limit, offset int) campaign.ListCampaignsFilter {
		return campaign.ListCampaignsFilter{OwnerEmail: &owner, IncludePaused: true, Limit: limit, Offset: offset}
	})
}

func (h *CampaignsHandler) listWith(ctx *gin.Context, build func(limit, offset int) campaign.ListCampaignsFilter) {
	var q campaign.ListCampaignsQuery

	if !BindQuery(ctx, &q) {
		return
	}

	limit, offset, size := pageWindow(q.Page, q.Size)

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	items, total, err := h.repo.List(cctx, build(limit, offset))
	if err != nil {
		RespondInternal(ctx, "Could not list campaigns")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, pageResponse(items, len(items), total, q.Page, size))
}

func (h *CampaignsHandler) GetCampaign(ctx *gin.Context) {
	id := ctx.Param("id")
	if !validID(ctx, id, "Campaign not found") {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	c, err := h.repo.GetByID(cctx, id)
	if err != nil {
		if errors.Is(err, campaign.ErrNotFound) {
			RespondNotFound(ctx, "Campaign not found")
			return
		}
		RespondInternal(ctx, "Could not fetch campaign")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, c)
}

func (h *CampaignsHandler) CreateCampaign(ctx *gin.Context) {
	id, ok := mustIdentity(ctx)
	if !ok {
		return
	}

	var req campaign.CreateCampaignRequest

	if !BindJSON(ctx, &req) {
		return
	}
	if !h.deadlineOK(ctx, req.Deadline) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	c, err := h.repo.Create(cctx, campaign.NewFromCreateRequest(req, user.NormalizeEmail(id.Email)))
	if err != nil {
		RespondInternal(ctx, "Could not create campaign")
		return
	}

	ctx.JSON(http.StatusCreated, c)
}

func (h *CampaignsHandler) UpdateCampaign(ctx *gin.Context) {
	var req campaign.UpdateCampaignRequest

	if !BindJSON(ctx, &req) {
		return
	}
	if !h.deadlineOK(ctx, req.Deadline) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	c, err := h.repo.Update(cctx, ctx.Param("id"), req)
	if err != nil {
		if errors.Is(err, campaign.ErrNotFound) {
			RespondNotFound(ctx, "Campaign not found")
			return
		}
		RespondInternal(ctx, "Could not update campaign")
		return
	}

	ctx.JSON(http.StatusOK, c)
}

func (h *CampaignsHandler) SetPaused(ctx *gin.Context) {
	id := ctx.Param("id")
	if !validID(ctx, id, "Campaign not found") {
		return
	}

	var req campaign.PauseRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	c, err := h.repo.SetPaused(cctx, id, *req.Paused)
	if err != nil {
		if errors.Is(err, campaign.ErrNotFound) {
			RespondNotFound(ctx, "Campaign not found")
			return
		}
		RespondInternal(ctx, "Could not update campaign")
		return
	}

	ctx.JSON(http.StatusOK, c)
}
