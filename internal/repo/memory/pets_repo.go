package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/geocoder89/pawhub/internal/domain/pet"
)

type PetsRepo struct {
	mu    sync.RWMutex
	items map[string]pet.Pet
}

func NewPetsRepo() *PetsRepo {
	return &PetsRepo{
		items: make(map[string]pet.Pet),
	}
}

func (r *PetsRepo) Create(ctx context.Context, p pet.Pet) (pet.Pet, error) {
	r.mu.Lock()
	r.items[p.ID] = p
	r.mu.Unlock()

	return p, nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pet.Pet, error) {
	r.mu.RLock()
	p, ok := r.items[id]
	r.mu.RUnlock()

	if !ok {
		return pet.Pet{}, pet.ErrNotFound
	}
	return p, nil
}

func (r *PetsRepo) OwnerOf(ctx context.Context, id string) (string, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return p.OwnerEmail, nil
}

func (r *PetsRepo) List(ctx context.Context, filter pet.ListPetsFilter) ([]pet.Pet, int, error) {
	r.mu.RLock()
	out := make([]pet.Pet, 0, len(r.items))
	for _, p := range r.items {
		if !filter.IncludeAdopted && p.Adopted {
			continue
		}
		if filter.Search != nil && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(*filter.Search)) {
			continue
		}
		if filter.Category != nil && p.Category != *filter.Category {
			continue
		}
		if filter.OwnerEmail != nil && p.OwnerEmail != *filter.OwnerEmail {
			continue
		}
		out = append(out, p)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})

	return page(out, filter.Limit, filter.Offset), len(out), nil
}

func (r *PetsRepo) Update(ctx context.Context, id string, req pet.UpdatePetRequest) (pet.Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]
	if !ok {
		return pet.Pet{}, pet.ErrNotFound
	}

	p.Name = req.Name
	p.Category = req.Category
	p.Age = req.Age
	p.Location = req.Location
	p.ImageURL = req.ImageURL
	p.ShortDescription = req.ShortDescription
	p.LongDescription = req.LongDescription
	p.UpdatedAt = time.Now().UTC()
	r.items[id] = p

	return p, nil
}

func (r *PetsRepo) MarkAdopted(ctx context.Context, id string) (pet.Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]
	if !ok {
		return pet.Pet{}, pet.ErrNotFound
	}

	p.Adopted = true
	p.UpdatedAt = time.Now().UTC()
	r.items[id] = p

	return p, nil
}

func (r *PetsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return pet.ErrNotFound
	}
	delete(r.items, id)

	return nil
}
