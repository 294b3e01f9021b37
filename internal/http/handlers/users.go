package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/pawhub/internal/config"
	"github.com/geocoder89/pawhub/internal/domain/user"
	"github.com/gin-gonic/gin"
)

type UsersStore interface {
	Create(ctx context.Context, u user.User) error
	GetByEmail(ctx context.Context, email string) (user.User, error)
	List(ctx context.Context, filter user.ListFilter) ([]user.User, int, error)
	SetRole(ctx context.Context, email string, role user.Role) (user.User, error)
}

type UsersHandler struct {
	repo UsersStore
}

func NewUsersHandler(repo UsersStore) *UsersHandler {
	return &UsersHandler{repo: repo}
}

// Register stores an identity on first sign-in. Repeat registrations are not
// an error; the client calls this on every login.
func (h *UsersHandler) Register(ctx *gin.Context) {
	var req user.RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	u := user.NewFromRegisterRequest(req)

	err := h.repo.Create(cctx, u)
	if err != nil {
		if errors.Is(err, user.ErrAlreadyExists) {
			ctx.JSON(http.StatusOK, gin.H{
				"message":    "user already exists",
				"insertedId": nil,
			})
			return
		}
		RespondInternal(ctx, "Could not create user")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"insertedId": u.Email,
		"user":       u,
	})
}

func (h *UsersHandler) ListUsers(ctx *gin.Context) {
	var q PageQuery

	if !BindQuery(ctx, &q) {
		return
	}

	limit, offset, size := pageWindow(q.Page, q.Size)

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	users, total, err := h.repo.List(cctx, user.ListFilter{Limit: limit, Offset: offset})
	if err != nil {
		RespondInternal(ctx, "Could not list users")
		return
	}

	ctx.JSON(http.StatusOK, pageResponse(users, len(users), total, q.Page, size))
}

// AdminStatus reports whether the identity at :email holds the admin role.
// Unknown identities are simply not admins.
func (h *UsersHandler) AdminStatus(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	u, err := h.repo.GetByEmail(cctx, user.NormalizeEmail(ctx.Param("email")))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			ctx.JSON(http.StatusOK, gin.H{"admin": false})
			return
		}
		RespondInternal(ctx, "Could not fetch user")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"admin": u.Role == user.RoleAdmin})
}

func (h *UsersHandler) PromoteToAdmin(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	u, err := h.repo.SetRole(cctx, user.NormalizeEmail(ctx.Param("email")), user.RoleAdmin)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}
		RespondInternal(ctx, "Could not update user")
		return
	}

	ctx.JSON(http.StatusOK, u)
}
