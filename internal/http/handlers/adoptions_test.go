package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/geocoder89/pawhub/internal/domain/adoption"
	"github.com/geocoder89/pawhub/internal/domain/pet"
	"github.com/geocoder89/pawhub/internal/http/handlers"
	"github.com/google/uuid"
)

type fakeAdoptionsRepo struct {
	createFn func(ctx context.Context, a adoption.Request) (adoption.Request, error)
	acceptFn func(ctx context.Context, id string) (adoption.Request, error)
	rejectFn func(ctx context.Context, id string) (adoption.Request, error)
	listed   []string
}

func (f *fakeAdoptionsRepo) Create(ctx context.Context, a adoption.Request) (adoption.Request, error) {
	if f.createFn != nil {
		return f.createFn(ctx, a)
	}
	return a, nil
}

func (f *fakeAdoptionsRepo) ListByPetOwner(ctx context.Context, ownerEmail string) ([]adoption.Request, error) {
	f.listed = append(f.listed, "owner:"+ownerEmail)
	return []adoption.Request{}, nil
}

func (f *fakeAdoptionsRepo) ListByRequester(ctx context.Context, requesterEmail string) ([]adoption.Request, error) {
	f.listed = append(f.listed, "requester:"+requesterEmail)
	return []adoption.Request{}, nil
}

func (f *fakeAdoptionsRepo) Accept(ctx context.Context, id string) (adoption.Request, error) {
	if f.acceptFn != nil {
		return f.acceptFn(ctx, id)
	}
	return adoption.Request{ID: id, Status: adoption.StatusAccepted}, nil
}

func (f *fakeAdoptionsRepo) Reject(ctx context.Context, id string) (adoption.Request, error) {
	if f.rejectFn != nil {
		return f.rejectFn(ctx, id)
	}
	return adoption.Request{ID: id, Status: adoption.StatusRejected}, nil
}

func TestRequestAdoption(t *testing.T) {
	petID := uuid.NewString()

	tests := []struct {
		name       string
		pet        pet.Pet
		petErr     error
		createErr  error
		wantStatus int
		wantCode   string
	}{
		{name: "created", pet: pet.Pet{ID: petID, Name: "Rex", OwnerEmail: "bob@example.com"}, wantStatus: http.StatusCreated},
		{name: "pet missing", petErr: pet.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "pet adopted", pet: pet.Pet{ID: petID, OwnerEmail: "bob@example.com", Adopted: true}, wantStatus: http.StatusConflict, wantCode: "pet_adopted"},
		{name: "own pet", pet: pet.Pet{ID: petID, OwnerEmail: "ALICE@example.com"}, wantStatus: http.StatusConflict, wantCode: "own_pet"},
		{name: "duplicate", pet: pet.Pet{ID: petID, OwnerEmail: "bob@example.com"}, createErr: adoption.ErrAlreadyRequested, wantStatus: http.StatusConflict, wantCode: "already_requested"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stored adoption.Request
			repo := &fakeAdoptionsRepo{createFn: func(ctx context.Context, a adoption.Request) (adoption.Request, error) {
				stored = a
				return a, tt.createErr
			}}
			pets := &fakePetsRepo{getFn: func(ctx context.Context, id string) (pet.Pet, error) {
				return tt.pet, tt.petErr
			}}
			h := handlers.NewAdoptionsHandler(repo, pets)
			r := setupRouter(http.MethodPost, "/adoptions", alice(), h.RequestAdoption)

			w := doRequest(r, http.MethodPost, "/adoptions", `{"petId":"`+petID+`","phone":"+2348000000","address":"1 Main St"}`)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d body=%s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantCode != "" && errorCode(t, w) != tt.wantCode {
				t.Fatalf("code = %s, want %s", errorCode(t, w), tt.wantCode)
			}
			if tt.wantStatus == http.StatusCreated {
				if stored.RequesterEmail != "alice@example.com" || stored.PetOwnerEmail != "bob@example.com" || stored.Status != adoption.StatusPending {
					t.Fatalf("stored = %+v", stored)
				}
			}
		})
	}
}

func TestDecideAdoption(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "accepted", wantStatus: http.StatusOK},
		{name: "missing", err: adoption.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "already decided", err: adoption.ErrNotPending, wantStatus: http.StatusConflict},
		{name: "pet taken", err: adoption.ErrPetAdopted, wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeAdoptionsRepo{acceptFn: func(ctx context.Context, id string) (adoption.Request, error) {
				if tt.err != nil {
					return adoption.Request{}, tt.err
				}
				return adoption.Request{ID: id, Status: adoption.StatusAccepted}, nil
			}}
			h := handlers.NewAdoptionsHandler(repo, &fakePetsRepo{})
			r := setupRouter(http.MethodPatch, "/adoptions/:id/accept", alice(), h.Accept)

			w := doRequest(r, http.MethodPatch, "/adoptions/"+uuid.NewString()+"/accept", "")
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestListAdoptions_ReceivedAndSent(t *testing.T) {
	repo := &fakeAdoptionsRepo{}
	h := handlers.NewAdoptionsHandler(repo, &fakePetsRepo{})

	r := setupRouter(http.MethodGet, "/adoptions/mine/:email", alice(), h.ListReceived)
	if w := doRequest(r, http.MethodGet, "/adoptions/mine/Alice@example.com", ""); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	r = setupRouter(http.MethodGet, "/adoptions/requested/:email", alice(), h.ListSent)
	if w := doRequest(r, http.MethodGet, "/adoptions/requested/alice@example.com", ""); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	want := []string{"owner:alice@example.com", "requester:alice@example.com"}
	if len(repo.listed) != 2 || repo.listed[0] != want[0] || repo.listed[1] != want[1] {
		t.Fatalf("listed = %v, want %v", repo.listed, want)
	}
}
