package category

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"eshop-api/internal/httpx"
	"eshop-api/internal/models"
	"eshop-api/internal/storage"
)

type Store interface {
	InsertCategory(ctx context.Context, category *models.Category) (primitive.ObjectID, error)
	FindCategoryByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	UpdateCategory(ctx context.Context, id primitive.ObjectID, category *models.Category) (*models.Category, error)
	DeleteCategory(ctx context.Context, id primitive.ObjectID) error
}

type UseCase struct {
	store Store
	log   *zap.Logger
}

func NewUseCase(store Store, log *zap.Logger) *UseCase {
	return &UseCase{store: store, log: log}
}

func (uc *UseCase) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	if category.Name == "" {
		return nil, httpx.Validationf("the category name is required")
	}
	id, err := uc.store.InsertCategory(ctx, category)
	if err != nil {
		return nil, httpx.Persistencef("the category cannot be created")
	}
	category.ID = id
	return category, nil
}

func (uc *UseCase) Get(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	category, err := uc.store.FindCategoryByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, httpx.NotFoundf("the category with the given ID was not found")
	}
	if err != nil {
		return nil, httpx.Persistencef("the category cannot be retrieved")
	}
	return category, nil
}

func (uc *UseCase) List(ctx context.Context) ([]models.Category, error) {
	categories, err := uc.store.ListCategories(ctx)
	if err != nil {
		return nil, httpx.Persistencef("the category list cannot be retrieved")
	}
	return categories, nil
}

func (uc *UseCase) Update(ctx context.Context, id primitive.ObjectID, category *models.Category) (*models.Category, error) {
	updated, err := uc.store.UpdateCategory(ctx, id, category)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, httpx.NotFoundf("the category cannot be updated")
	}
	if err != nil {
		return nil, httpx.Persistencef("the category cannot be updated")
	}
	return updated, nil
}

func (uc *UseCase) Delete(ctx context.Context, id primitive.ObjectID) error {
	err := uc.store.DeleteCategory(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return httpx.NotFoundf("category not found")
	}
	if err != nil {
		return httpx.Persistencef("the category cannot be deleted")
	}
	return nil
}
