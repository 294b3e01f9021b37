package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/geocoder89/pawhub/internal/domain/user"
)

// UsersRepo is an in-process identity store. Roles are kept as raw strings so
// it behaves like the database boundary and can hold unrecognised values.
type UsersRepo struct {
	mu    sync.RWMutex
	items map[string]storedUser
}

type storedUser struct {
	u    user.User
	role string
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		items: make(map[string]storedUser),
	}
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[u.Email]; ok {
		return user.ErrAlreadyExists
	}
	r.items[u.Email] = storedUser{u: u, role: string(u.Role)}

	return nil
}

// PutRaw stores an identity with an arbitrary role string.
func (r *UsersRepo) PutRaw(u user.User, role string) {
	r.mu.Lock()
	r.items[u.Email] = storedUser{u: u, role: role}
	r.mu.Unlock()
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.RLock()
	s, ok := r.items[email]
	r.mu.RUnlock()

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	role, err := user.ParseRole(s.role)
	if err != nil {
		return user.User{}, err
	}
	s.u.Role = role

	return s.u, nil
}

func (r *UsersRepo) RoleByEmail(ctx context.Context, email string) (user.Role, error) {
	r.mu.RLock()
	s, ok := r.items[email]
	r.mu.RUnlock()

	if !ok {
		return "", user.ErrNotFound
	}

	return user.ParseRole(s.role)
}

func (r *UsersRepo) List(ctx context.Context, filter user.ListFilter) ([]user.User, int, error) {
	r.mu.RLock()
	all := make([]user.User, 0, len(r.items))
	for _, s := range r.items {
		u := s.u
		if role, err := user.ParseRole(s.role); err == nil {
			u.Role = role
		}
		all = append(all, u)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].Email < all[j].Email
	})

	return page(all, filter.Limit, filter.Offset), len(all), nil
}

func (r *UsersRepo) SetRole(ctx context.Context, email string, role user.Role) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.items[email]
	if !ok {
		return user.User{}, user.ErrNotFound
	}

	s.role = string(role)
	s.u.Role = role
	r.items[email] = s

	return s.u, nil
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end]
}
