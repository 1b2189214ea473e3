package restaurants

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/feastly-app/feastly-backend/internal/users"
	"github.com/feastly-app/feastly-backend/pkg/db/models"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
	"github.com/feastly-app/feastly-backend/pkg/logger"
	"github.com/feastly-app/feastly-backend/pkg/oid"
	"github.com/feastly-app/feastly-backend/pkg/pagination"
	"github.com/feastly-app/feastly-backend/pkg/types"
)

type restaurantRepository interface {
	Create(ctx context.Context, restaurant *models.Restaurant) (*models.Restaurant, error)
	FindByID(ctx context.Context, id string) (*models.Restaurant, error)
	List(ctx context.Context, keyword string, page pagination.Params) ([]models.Restaurant, error)
	ListByUser(ctx context.Context, userID, keyword string, page pagination.Params) ([]models.Restaurant, error)
	FindMealsByIDs(ctx context.Context, ids []string) ([]models.Meal, error)
	FindOwner(ctx context.Context, userID string) (*models.User, error)
	Update(ctx context.Context, restaurant *models.Restaurant) error
	UpdateImages(ctx context.Context, id string, images []string) error
	Delete(ctx context.Context, id string) error
}

// Geocoder resolves a street address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*types.Location, error)
}

// ObjectStore is the bucket surface the image endpoints use.
type ObjectStore interface {
	Upload(ctx context.Context, name, contentType string, body io.Reader) (string, error)
	DeleteObjects(ctx context.Context, keys []string) error
}

// UploadFile is one multipart file destined for the image bucket.
type UploadFile struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// DeleteResult reports whether a restaurant row was actually removed.
type DeleteResult struct {
	Deleted bool `json:"deleted"`
}

// Service exposes restaurant operations.
type Service interface {
	List(ctx context.Context, keyword string, page pagination.Params) ([]RestaurantDTO, error)
	ListByUser(ctx context.Context, userID, keyword string, page pagination.Params) ([]RestaurantDTO, error)
	GetByID(ctx context.Context, id string) (*RestaurantDetailDTO, error)
	Create(ctx context.Context, actorID string, input CreateRestaurantInput) (*RestaurantDTO, error)
	Update(ctx context.Context, actorID, id string, input UpdateRestaurantInput) (*RestaurantDTO, error)
	UploadImages(ctx context.Context, actorID, id string, files []UploadFile) (*RestaurantDTO, error)
	Delete(ctx context.Context, actorID, id string) (*DeleteResult, error)
}

type service struct {
	repo    restaurantRepository
	geo     Geocoder
	storage ObjectStore
	logg    *logger.Logger
}

// ServiceParams bundles the dependencies required to build a restaurant service.
type ServiceParams struct {
	Repo     restaurantRepository
	Geocoder Geocoder
	Storage  ObjectStore
	Logger   *logger.Logger
}

// NewService builds a restaurant service with the provided dependencies.
// Geocoder and Storage may be nil; location and image features then degrade.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("restaurant repository required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    params.Repo,
		geo:     params.Geocoder,
		storage: params.Storage,
		logg:    params.Logger,
	}, nil
}

func (s *service) List(ctx context.Context, keyword string, page pagination.Params) ([]RestaurantDTO, error) {
	rows, err := s.repo.List(ctx, keyword, page.Normalize())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list restaurants")
	}
	return FromModels(rows), nil
}

func (s *service) ListByUser(ctx context.Context, userID, keyword string, page pagination.Params) ([]RestaurantDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID, keyword, page.Normalize())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list restaurants by user")
	}
	return FromModels(rows), nil
}

func (s *service) GetByID(ctx context.Context, id string) (*RestaurantDetailDTO, error) {
	restaurant, err := s.loadRestaurant(ctx, id)
	if err != nil {
		return nil, err
	}

	owner, err := s.repo.FindOwner(ctx, restaurant.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load owner")
	}

	meals, err := s.repo.FindMealsByIDs(ctx, restaurant.MenuIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu")
	}

	return &RestaurantDetailDTO{
		RestaurantDTO: *FromModel(restaurant),
		Owner:         users.FromModel(owner),
		Menu:          menuFromModels(meals),
	}, nil
}

func (s *service) Create(ctx context.Context, actorID string, input CreateRestaurantInput) (*RestaurantDTO, error) {
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}

	restaurant := &models.Restaurant{
		ID:          oid.New(),
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Email:       strings.ToLower(strings.TrimSpace(input.Email)),
		PhoneNo:     input.PhoneNo,
		Address:     input.Address,
		Category:    input.Category,
		Images:      pq.StringArray{},
		MenuIDs:     pq.StringArray{},
		UserID:      actorID,
	}

	restaurant.Location = s.resolveLocation(ctx, input.Address)

	created, err := s.repo.Create(ctx, restaurant)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create restaurant")
	}
	return FromModel(created), nil
}

// resolveLocation geocodes the address. A failed lookup is logged and the
// restaurant proceeds without coordinates.
func (s *service) resolveLocation(ctx context.Context, address string) *types.Location {
	if s.geo == nil || strings.TrimSpace(address) == "" {
		return nil
	}
	location, err := s.geo.Geocode(ctx, address)
	if err != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"address": address}), "geocoding failed, storing restaurant without location")
		return nil
	}
	return location
}

func (s *service) Update(ctx context.Context, actorID, id string, input UpdateRestaurantInput) (*RestaurantDTO, error) {
	restaurant, err := s.loadRestaurant(ctx, id)
	if err != nil {
		return nil, err
	}
	if restaurant.UserID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "you do not own this restaurant")
	}

	if input.Name != nil {
		restaurant.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		restaurant.Description = *input.Description
	}
	if input.Email != nil {
		restaurant.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.PhoneNo != nil {
		restaurant.PhoneNo = *input.PhoneNo
	}
	if input.Address != nil {
		restaurant.Address = *input.Address
		restaurant.Location = s.resolveLocation(ctx, *input.Address)
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
		}
		restaurant.Category = *input.Category
	}

	if err := s.repo.Update(ctx, restaurant); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update restaurant")
	}
	return FromModel(restaurant), nil
}

func (s *service) UploadImages(ctx context.Context, actorID, id string, files []UploadFile) (*RestaurantDTO, error) {
	if s.storage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "image storage is not configured")
	}
	if len(files) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no files provided")
	}

	restaurant, err := s.loadRestaurant(ctx, id)
	if err != nil {
		return nil, err
	}
	if restaurant.UserID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "you do not own this restaurant")
	}

	keys := make([]string, 0, len(files))
	for _, file := range files {
		name := fmt.Sprintf("%s/%s%s", restaurant.ID, oid.New(), path.Ext(file.Name))
		key, err := s.storage.Upload(ctx, name, file.ContentType, file.Body)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload image")
		}
		keys = append(keys, key)
	}

	if err := s.repo.UpdateImages(ctx, restaurant.ID, keys); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store image keys")
	}

	restaurant.Images = pq.StringArray(keys)
	return FromModel(restaurant), nil
}

func (s *service) Delete(ctx context.Context, actorID, id string) (*DeleteResult, error) {
	restaurant, err := s.loadRestaurant(ctx, id)
	if err != nil {
		return nil, err
	}
	if restaurant.UserID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "you do not own this restaurant")
	}

	// Images are purged first. A failed purge aborts the delete so the row
	// keeps pointing at whatever is still in the bucket.
	if len(restaurant.Images) > 0 && s.storage != nil {
		if err := s.storage.DeleteObjects(ctx, restaurant.Images); err != nil {
			s.logg.Error(ctx, "image purge failed, restaurant not deleted", err)
			return &DeleteResult{Deleted: false}, nil
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete restaurant")
	}
	return &DeleteResult{Deleted: true}, nil
}

func (s *service) loadRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	restaurant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load restaurant")
	}
	return restaurant, nil
}
