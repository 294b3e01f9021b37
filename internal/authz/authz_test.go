package authz_test

import (
	"context"
	"errors"
	"testing"

	"github.com/geocoder89/pawhub/internal/auth"
	"github.com/geocoder89/pawhub/internal/authz"
	"github.com/geocoder89/pawhub/internal/domain/user"
)

type fakeRoles struct {
	roleByEmailFn func(ctx context.Context, email string) (user.Role, error)
	calls         int
}

func (f *fakeRoles) RoleByEmail(ctx context.Context, email string) (user.Role, error) {
	f.calls++
	if f.roleByEmailFn != nil {
		return f.roleByEmailFn(ctx, email)
	}
	return "", user.ErrNotFound
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name       string
		identity   auth.Identity
		lookup     func(ctx context.Context, email string) (user.Role, error)
		wantErr    bool
		wantLookup bool
		wantCalls  int
	}{
		{
			name:     "admin_allowed",
			identity: auth.Identity{Email: "root@example.com"},
			lookup: func(ctx context.Context, email string) (user.Role, error) {
				return user.RoleAdmin, nil
			},
			wantCalls: 1,
		},
		{
			name:     "user_denied",
			identity: auth.Identity{Email: "alice@example.com"},
			lookup: func(ctx context.Context, email string) (user.Role, error) {
				return user.RoleUser, nil
			},
			wantErr:   true,
			wantCalls: 1,
		},
		{
			name:       "missing_record_denied",
			identity:   auth.Identity{Email: "ghost@example.com"},
			lookup:     nil,
			wantErr:    true,
			wantLookup: true,
			wantCalls:  1,
		},
		{
			name:     "store_error_denied",
			identity: auth.Identity{Email: "root@example.com"},
			lookup: func(ctx context.Context, email string) (user.Role, error) {
				return "", errors.New("connection refused")
			},
			wantErr:    true,
			wantLookup: true,
			wantCalls:  1,
		},
		{
			name:     "unknown_role_denied",
			identity: auth.Identity{Email: "root@example.com"},
			lookup: func(ctx context.Context, email string) (user.Role, error) {
				return user.ParseRole("superuser")
			},
			wantErr:    true,
			wantLookup: true,
			wantCalls:  1,
		},
		{
			name:       "empty_identity_denied_without_lookup",
			identity:   auth.Identity{},
			wantErr:    true,
			wantLookup: true,
			wantCalls:  0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			roles := &fakeRoles{roleByEmailFn: tt.lookup}
			a := authz.NewAuthorizer(roles)

			err := a.RequireAdmin(context.Background(), tt.identity)

			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			} else {
				if !errors.Is(err, authz.ErrForbidden) {
					t.Fatalf("expected ErrForbidden, got %v", err)
				}
				if got := errors.Is(err, authz.ErrLookupFailure); got != tt.wantLookup {
					t.Fatalf("lookup failure = %v, want %v (err=%v)", got, tt.wantLookup, err)
				}
			}

			if roles.calls != tt.wantCalls {
				t.Fatalf("lookup calls = %d, want %d", roles.calls, tt.wantCalls)
			}
		})
	}
}

func TestRequireAdmin_LooksUpNormalizedEmail(t *testing.T) {
	var seen string
	roles := &fakeRoles{roleByEmailFn: func(ctx context.Context, email string) (user.Role, error) {
		seen = email
		return user.RoleAdmin, nil
	}}

	if err := authz.NewAuthorizer(roles).RequireAdmin(context.Background(), auth.Identity{Email: " Root@Example.COM "}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen != "root@example.com" {
		t.Fatalf("lookup email = %q", seen)
	}
}

func TestRequireOwner(t *testing.T) {
	tests := []struct {
		name    string
		caller  string
		owner   string
		wantErr bool
	}{
		{name: "same_email", caller: "alice@example.com", owner: "alice@example.com"},
		{name: "case_insensitive", caller: "Alice@Example.com", owner: "alice@example.com"},
		{name: "different_email", caller: "alice@example.com", owner: "bob@example.com", wantErr: true},
		{name: "empty_owner", caller: "alice@example.com", owner: "", wantErr: true},
		{name: "empty_caller", caller: "", owner: "", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := authz.RequireOwner(auth.Identity{Email: tt.caller}, tt.owner)
			if tt.wantErr && !errors.Is(err, authz.ErrForbidden) {
				t.Fatalf("expected ErrForbidden, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestReason(t *testing.T) {
	if got := authz.Reason(authz.ErrForbidden); got != "forbidden" {
		t.Fatalf("got %q", got)
	}
	roles := &fakeRoles{}
	err := authz.NewAuthorizer(roles).RequireAdmin(context.Background(), auth.Identity{Email: "x@example.com"})
	if got := authz.Reason(err); got != "role_lookup_failed" {
		t.Fatalf("got %q", got)
	}
}
