package middlewares

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/geocoder89/pawhub/internal/auth"
	"github.com/geocoder89/pawhub/internal/authz"
	"github.com/geocoder89/pawhub/internal/observability"
	"github.com/gin-gonic/gin"
)

type AdminChecker interface {
	RequireAdmin(ctx context.Context, id auth.Identity) error
}

// OwnerLookup resolves the owner email of the resource named by a path id.
// It must return an error matching notFound when the resource is absent.
type OwnerLookup func(ctx context.Context, id string) (string, error)

type Gate struct {
	admin AdminChecker
	log   *slog.Logger
	prom  *observability.Prom
}

func NewGate(admin AdminChecker, log *slog.Logger, prom *observability.Prom) *Gate {
	if log == nil {
		log = slog.Default()
	}
	return &Gate{admin: admin, log: log, prom: prom}
}

func abortForbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"error": gin.H{
			"code":    "forbidden",
			"message": "forbidden access",
		},
	})
}

func (g *Gate) deny(c *gin.Context, gate string, err error) {
	reason := authz.Reason(err)
	switch {
	case reason == "forbidden":
		reason = "not_" + gate
	case gate == "owner":
		reason = "owner_lookup_failed"
	}
	g.prom.ObserveDenial(gate, reason)
	g.log.WarnContext(c.Request.Context(), "authorization rejected",
		"gate", gate,
		"reason", reason,
		"route", c.FullPath(),
		"request_id", c.GetString(CtxRequestID),
		"err", err,
	)
	abortForbidden(c)
}

// identity fetches the authenticated identity; a route wired without
// RequireAuth in front is treated as unauthenticated.
func identity(c *gin.Context) (auth.Identity, bool) {
	id, ok := IdentityFromContext(c)
	if !ok {
		abortUnauthenticated(c)
		return auth.Identity{}, false
	}
	return id, true
}

// RequireAdmin re-reads the caller's role from storage on every request.
func (g *Gate) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identity(c)
		if !ok {
			return
		}

		if err := g.admin.RequireAdmin(c.Request.Context(), id); err != nil {
			g.deny(c, "admin", err)
			return
		}

		c.Next()
	}
}

// RequireSelf allows only when the path parameter equals the caller's email.
func (g *Gate) RequireSelf(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identity(c)
		if !ok {
			return
		}

		if err := authz.RequireOwner(id, c.Param(param)); err != nil {
			g.deny(c, "owner", err)
			return
		}

		c.Next()
	}
}

// RequireOwnerOf loads the owner of the resource named by the path parameter
// and allows only its owner. A missing resource is a 404; any other lookup
// error denies.
func (g *Gate) RequireOwnerOf(param string, lookup OwnerLookup, notFound error, notFoundMsg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identity(c)
		if !ok {
			return
		}

		owner, err := lookup(c.Request.Context(), c.Param(param))
		if err != nil {
			if notFound != nil && errors.Is(err, notFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
					"error": gin.H{
						"code":    "not_found",
						"message": notFoundMsg,
					},
				})
				return
			}
			g.deny(c, "owner", errors.Join(authz.ErrForbidden, authz.ErrLookupFailure, err))
			return
		}

		if err := authz.RequireOwner(id, owner); err != nil {
			g.deny(c, "owner", err)
			return
		}

		c.Next()
	}
}
