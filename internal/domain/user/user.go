package user

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of roles an identity can hold.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("user already exists")
	ErrUnknownRole   = errors.New("unknown role")
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// ParseRole converts a stored role string into a Role. Anything outside the
// known set is rejected rather than mapped to a default.
func ParseRole(raw string) (Role, error) {
	r := Role(strings.TrimSpace(raw))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, raw)
	}
	return r, nil
}

type User struct {
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	PhotoURL  string    `json:"photoURL,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Name     string `json:"name" binding:"required,min=1,max=120"`
	PhotoURL string `json:"photoURL" binding:"omitempty,url,max=2048"`
}

type ListFilter struct {
	Limit  int
	Offset int
}

// NormalizeEmail is the canonical form used for storage and comparisons.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func NewFromRegisterRequest(req RegisterRequest) User {
	return User{
		Email:     NormalizeEmail(req.Email),
		Name:      strings.TrimSpace(req.Name),
		PhotoURL:  req.PhotoURL,
		Role:      RoleUser,
		CreatedAt: time.Now().UTC(),
	}
}
