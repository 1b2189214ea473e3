package users

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/feastly-app/feastly-backend/pkg/db/models"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
	"github.com/feastly-app/feastly-backend/pkg/pagination"
)

type usersRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, keyword string, page pagination.Params) ([]models.User, error)
}

// Service exposes read operations over registered users.
type Service interface {
	List(ctx context.Context, keyword string, page pagination.Params) ([]UserDTO, error)
	GetByID(ctx context.Context, id string) (*UserDTO, error)
}

type service struct {
	repo usersRepository
}

// NewService builds a users service with the provided repository.
func NewService(repo usersRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, keyword string, page pagination.Params) ([]UserDTO, error) {
	rows, err := s.repo.List(ctx, keyword, page.Normalize())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	return FromModels(rows), nil
}

func (s *service) GetByID(ctx context.Context, id string) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return FromModel(user), nil
}
