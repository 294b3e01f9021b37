package middlewares

import (
	"log/slog"
	"net/http"

	"github.com/geocoder89/pawhub/internal/actorctx"
	"github.com/geocoder89/pawhub/internal/auth"
	"github.com/geocoder89/pawhub/internal/observability"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

type AuthMiddleware struct {
	jwt        TokenVerifier
	cookieName string
	log        *slog.Logger
	prom       *observability.Prom
}

func NewAuthMiddleware(jwt TokenVerifier, cookieName string, log *slog.Logger, prom *observability.Prom) *AuthMiddleware {
	if log == nil {
		log = slog.Default()
	}
	return &AuthMiddleware{jwt: jwt, cookieName: cookieName, log: log, prom: prom}
}

func abortUnauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    "unauthorized",
			"message": "unauthorized access",
		},
	})
}

// RequireAuth admits only requests carrying a valid session cookie. Every
// failure gets the same response; the reason only goes to the log.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(m.cookieName)
		if err != nil || raw == "" {
			m.prom.ObserveDenial("authn", "missing")
			abortUnauthenticated(c)
			return
		}

		id, err := m.jwt.Verify(raw)
		if err != nil {
			reason := auth.Reason(err)
			m.prom.ObserveDenial("authn", reason)
			m.log.WarnContext(c.Request.Context(), "authentication rejected",
				"reason", reason,
				"route", c.FullPath(),
				"request_id", c.GetString(CtxRequestID),
			)
			abortUnauthenticated(c)
			return
		}

		// Stash identity on both the gin and the request context
		c.Set(CtxIdentity, id)
		c.Request = c.Request.WithContext(actorctx.WithIdentity(c.Request.Context(), id))

		c.Next()
	}
}

// Optional helper so handlers don't need to know the magic keys.
func IdentityFromContext(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(CtxIdentity)
	if !ok {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok && id.Email != ""
}
