package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/geocoder89/pawhub/internal/auth"
	"github.com/geocoder89/pawhub/internal/domain/user"
	"github.com/geocoder89/pawhub/internal/observability"
	"github.com/gin-gonic/gin"
)

type TokenIssuer interface {
	Issue(id auth.Identity) (string, error)
}

// CookiePolicy decides the session cookie attributes per deployment mode.
type CookiePolicy struct {
	Name   string
	Secure bool
	// prod serves the SPA from another origin, so the cookie must be SameSite=None
	SameSite http.SameSite
	MaxAge   int
}

func NewCookiePolicy(name string, prod bool, maxAgeSeconds int) CookiePolicy {
	if prod {
		return CookiePolicy{Name: name, Secure: true, SameSite: http.SameSiteNoneMode, MaxAge: maxAgeSeconds}
	}
	return CookiePolicy{Name: name, Secure: false, SameSite: http.SameSiteStrictMode, MaxAge: maxAgeSeconds}
}

type SessionHandler struct {
	jwt    TokenIssuer
	cookie CookiePolicy
	log    *slog.Logger
	prom   *observability.Prom
}

func NewSessionHandler(jwt TokenIssuer, cookie CookiePolicy, log *slog.Logger, prom *observability.Prom) *SessionHandler {
	if log == nil {
		log = slog.Default()
	}
	return &SessionHandler{jwt: jwt, cookie: cookie, log: log, prom: prom}
}

// TokenRequest carries an identity already verified by the client-side
// identity provider.
type TokenRequest struct {
	Email string `json:"email" binding:"required,email,max=254"`
	Name  string `json:"name" binding:"omitempty,max=120"`
}

func (h *SessionHandler) IssueToken(ctx *gin.Context) {
	var req TokenRequest

	if !BindJSON(ctx, &req) {
		return
	}

	token, err := h.jwt.Issue(auth.Identity{
		Email: user.NormalizeEmail(req.Email),
		Name:  strings.TrimSpace(req.Name),
	})
	if err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "token issue failed", "err", err)
		RespondInternal(ctx, "Could not issue token")
		return
	}

	h.prom.ObserveTokenIssued()
	h.setCookie(ctx, token, h.cookie.MaxAge)

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// Logout only clears the client cookie; issued tokens stay valid until they age out.
func (h *SessionHandler) Logout(ctx *gin.Context) {
	h.setCookie(ctx, "", -1)

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *SessionHandler) setCookie(ctx *gin.Context, value string, maxAge int) {
	ctx.SetSameSite(h.cookie.SameSite)
	ctx.SetCookie(
		h.cookie.Name,
		value,
		maxAge,
		"/",
		"",
		h.cookie.Secure,
		true, // HttpOnly.
	)
}
