package users

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/gorm"

	"github.com/feastly-app/feastly-backend/pkg/db/models"
	"github.com/feastly-app/feastly-backend/pkg/enums"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
	"github.com/feastly-app/feastly-backend/pkg/oid"
	"github.com/feastly-app/feastly-backend/pkg/pagination"
)

type stubUsersRepo struct {
	byID     map[string]*models.User
	rows     []models.User
	lastPage pagination.Params
	listErr  error
}

func (s *stubUsersRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := s.byID[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUsersRepo) List(ctx context.Context, keyword string, page pagination.Params) ([]models.User, error) {
	s.lastPage = page
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.rows, nil
}

func TestUsersServiceGetByID(t *testing.T) {
	user := &models.User{
		ID:    oid.New(),
		Name:  "Alice Example",
		Email: "alice@example.com",
		Role:  enums.UserRoleUser,
	}
	svc, err := NewService(&stubUsersRepo{byID: map[string]*models.User{user.ID: user}})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	got, err := svc.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got.ID != user.ID || got.Name != user.Name {
		t.Fatalf("unexpected dto %+v", got)
	}
}

func TestUsersServiceGetByIDNotFound(t *testing.T) {
	svc, err := NewService(&stubUsersRepo{byID: map[string]*models.User{}})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.GetByID(context.Background(), oid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestUsersServiceListNormalizesPage(t *testing.T) {
	repo := &stubUsersRepo{rows: []models.User{{ID: oid.New(), Name: "One"}}}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	got, err := svc.List(context.Background(), "", pagination.Params{Page: -1, PerPage: 0})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one row, got %d", len(got))
	}
	if repo.lastPage.Page != 1 || repo.lastPage.PerPage != pagination.DefaultPerPage {
		t.Fatalf("expected normalized page, got %+v", repo.lastPage)
	}
}

func TestUsersServiceListWrapsRepoError(t *testing.T) {
	svc, err := NewService(&stubUsersRepo{listErr: fmt.Errorf("db down")})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.List(context.Background(), "", pagination.Params{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestUsersServiceRequiresRepo(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatalf("expected error without repository")
	}
}
