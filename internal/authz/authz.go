// Package authz holds the authorization predicates applied after a request
// has been authenticated. Predicates are plain functions of the identity and
// the data they need, so routes compose them explicitly.
package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/pawhub/internal/auth"
	"github.com/geocoder89/pawhub/internal/domain/user"
)

var (
	ErrForbidden = errors.New("forbidden")

	// ErrLookupFailure marks an admin check whose role lookup failed. It is
	// always reported to callers as ErrForbidden.
	ErrLookupFailure = errors.New("role lookup failed")
)

// RoleLookup fetches the stored role for an email.
type RoleLookup interface {
	RoleByEmail(ctx context.Context, email string) (user.Role, error)
}

type Authorizer struct {
	roles RoleLookup
}

func NewAuthorizer(roles RoleLookup) *Authorizer {
	return &Authorizer{roles: roles}
}

// RequireAdmin allows only identities whose stored role is admin. Missing
// records, store errors and unknown role values all deny.
func (a *Authorizer) RequireAdmin(ctx context.Context, id auth.Identity) error {
	email := user.NormalizeEmail(id.Email)
	if email == "" || a == nil || a.roles == nil {
		return fmt.Errorf("%w: %w", ErrForbidden, ErrLookupFailure)
	}

	role, err := a.roles.RoleByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("%w: %w: %v", ErrForbidden, ErrLookupFailure, err)
	}

	if role != user.RoleAdmin {
		return ErrForbidden
	}

	return nil
}

// RequireOwner allows only when the identity's email equals the owner email.
func RequireOwner(id auth.Identity, ownerEmail string) error {
	caller := user.NormalizeEmail(id.Email)
	owner := user.NormalizeEmail(ownerEmail)

	if caller == "" || owner == "" || caller != owner {
		return ErrForbidden
	}

	return nil
}

// Reason is a short label for logging a denial.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrLookupFailure):
		return "role_lookup_failed"
	default:
		return "forbidden"
	}
}
