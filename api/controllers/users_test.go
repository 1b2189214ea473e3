package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/feastly-app/feastly-backend/internal/users"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
	"github.com/feastly-app/feastly-backend/pkg/oid"
	"github.com/feastly-app/feastly-backend/pkg/pagination"
)

type stubUsersService struct {
	listResp    []users.UserDTO
	listErr     error
	detailResp  *users.UserDTO
	detailErr   error
	gotKeyword  string
	gotPage     pagination.Params
	gotDetailID string
}

func (s *stubUsersService) List(ctx context.Context, keyword string, page pagination.Params) ([]users.UserDTO, error) {
	s.gotKeyword = keyword
	s.gotPage = page
	return s.listResp, s.listErr
}

func (s *stubUsersService) GetByID(ctx context.Context, id string) (*users.UserDTO, error) {
	s.gotDetailID = id
	return s.detailResp, s.detailErr
}

func TestUsersListParsesQuery(t *testing.T) {
	svc := &stubUsersService{listResp: []users.UserDTO{{ID: oid.New(), Name: "Alice"}}}
	handler := UsersList(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/users?keyword=ali&page=2&resPerPage=5", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.gotKeyword != "ali" {
		t.Fatalf("expected keyword ali, got %q", svc.gotKeyword)
	}
	if svc.gotPage.Page != 2 || svc.gotPage.PerPage != 5 {
		t.Fatalf("unexpected pagination %+v", svc.gotPage)
	}

	var envelope struct {
		Data []users.UserDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 1 {
		t.Fatalf("expected one user, got %d", len(envelope.Data))
	}
}

func TestUsersListRejectsBadPage(t *testing.T) {
	handler := UsersList(&stubUsersService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/users?page=zero", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestUsersDetail(t *testing.T) {
	userID := oid.New()
	svc := &stubUsersService{detailResp: &users.UserDTO{ID: userID, Name: "Alice"}}

	router := chi.NewRouter()
	router.Get("/users/{id}", UsersDetail(svc, nil))

	req := httptest.NewRequest(http.MethodGet, "/users/"+userID, nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.gotDetailID != userID {
		t.Fatalf("expected id %s passed to service, got %s", userID, svc.gotDetailID)
	}
}

func TestUsersDetailMalformedID(t *testing.T) {
	svc := &stubUsersService{}
	router := chi.NewRouter()
	router.Get("/users/{id}", UsersDetail(svc, nil))

	req := httptest.NewRequest(http.MethodGet, "/users/not-a-valid-id", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if svc.gotDetailID != "" {
		t.Fatalf("service must not be called for malformed ids, got %q", svc.gotDetailID)
	}
}

func TestUsersDetailNotFound(t *testing.T) {
	svc := &stubUsersService{detailErr: pkgerrors.New(pkgerrors.CodeNotFound, "user not found")}
	router := chi.NewRouter()
	router.Get("/users/{id}", UsersDetail(svc, nil))

	req := httptest.NewRequest(http.MethodGet, "/users/"+oid.New(), nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}
