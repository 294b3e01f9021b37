package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed        = errors.New("token malformed")
	ErrExpired          = errors.New("token expired")
	ErrSignatureInvalid = errors.New("token signature invalid")
)

// DefaultTTL is the validity window applied when none is configured.
const DefaultTTL = time.Hour

// Identity is what a verified session token proves about its holder.
// It deliberately carries no role: roles are always re-read from storage.
type Identity struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Manager)

// WithClock overrides the time source used for issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func NewManager(secret string, ttl time.Duration, opts ...Option) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	m := &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Issue signs the identity with HS256. Only issued-at is written; the
// validity window is enforced by Verify.
func (m *Manager) Issue(id Identity) (string, error) {
	email := strings.TrimSpace(id.Email)
	if email == "" {
		return "", errors.New("identity email is required")
	}

	claims := Claims{
		Email: email,
		Name:  id.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  email,
			IssuedAt: jwt.NewNumericDate(m.now().UTC()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *Manager) Verify(tokenStr string) (Identity, error) {
	if strings.TrimSpace(tokenStr) == "" {
		return Identity{}, ErrMalformed
	}

	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(t *jwt.Token) (interface{}, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return Identity{}, classify(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, ErrMalformed
	}

	if claims.Email == "" || claims.IssuedAt == nil {
		return Identity{}, ErrMalformed
	}

	if !m.now().Before(claims.IssuedAt.Add(m.ttl)) {
		return Identity{}, ErrExpired
	}

	return Identity{Email: claims.Email, Name: claims.Name}, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrSignatureInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	default:
		return ErrMalformed
	}
}

// Reason is a short label for logging a verification failure.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrExpired):
		return "expired"
	case errors.Is(err, ErrSignatureInvalid):
		return "signature_invalid"
	default:
		return "malformed"
	}
}
