// Package product covers the catalog: product CRUD with image uploads
// and the category-resolved read shapes.
package product

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"eshop-api/internal/httpx"
	"eshop-api/internal/models"
	"eshop-api/internal/storage"
)

type Store interface {
	InsertProduct(ctx context.Context, product *models.Product) (primitive.ObjectID, error)
	FindProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	ListProducts(ctx context.Context, categories []primitive.ObjectID) ([]models.Product, error)
	ListFeaturedProducts(ctx context.Context, limit int64) ([]models.Product, error)
	CountProducts(ctx context.Context) (int64, error)
	UpdateProduct(ctx context.Context, id primitive.ObjectID, product *models.Product) (*models.Product, error)
	UpdateProductImages(ctx context.Context, id primitive.ObjectID, images []string) (*models.Product, error)
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error

	FindCategoryByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
}

type UseCase struct {
	store Store
	log   *zap.Logger
}

func NewUseCase(store Store, log *zap.Logger) *UseCase {
	return &UseCase{store: store, log: log}
}

// Create requires an existing category; an unknown one is a validation
// error, matching the API's 400 contract.
func (uc *UseCase) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if _, err := uc.store.FindCategoryByID(ctx, product.Category); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, httpx.Validationf("invalid category")
		}
		return nil, httpx.Persistencef("the product cannot be created")
	}

	product.DateCreated = time.Now()
	id, err := uc.store.InsertProduct(ctx, product)
	if err != nil {
		return nil, httpx.Persistencef("the product cannot be created")
	}
	product.ID = id
	uc.log.Info("product created", zap.String("product_id", id.Hex()), zap.String("name", product.Name))
	return product, nil
}

func (uc *UseCase) Get(ctx context.Context, id primitive.ObjectID) (*models.ProductDetail, error) {
	product, err := uc.store.FindProductByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, httpx.NotFoundf("the product with the given ID was not found")
	}
	if err != nil {
		return nil, httpx.Persistencef("the product cannot be retrieved")
	}
	return uc.withCategory(ctx, *product)
}

func (uc *UseCase) List(ctx context.Context, categories []primitive.ObjectID) ([]models.ProductDetail, error) {
	products, err := uc.store.ListProducts(ctx, categories)
	if err != nil {
		return nil, httpx.Persistencef("the product list cannot be retrieved")
	}
	return uc.withCategories(ctx, products)
}

func (uc *UseCase) Featured(ctx context.Context, limit int64) ([]models.ProductDetail, error) {
	products, err := uc.store.ListFeaturedProducts(ctx, limit)
	if err != nil {
		return nil, httpx.Persistencef("the featured products cannot be retrieved")
	}
	return uc.withCategories(ctx, products)
}

func (uc *UseCase) Count(ctx context.Context) (int64, error) {
	count, err := uc.store.CountProducts(ctx)
	if err != nil {
		return 0, httpx.Persistencef("the product count cannot be retrieved")
	}
	return count, nil
}

func (uc *UseCase) Update(ctx context.Context, id primitive.ObjectID, product *models.Product) (*models.Product, error) {
	if _, err := uc.store.FindCategoryByID(ctx, product.Category); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, httpx.Validationf("invalid category")
		}
		return nil, httpx.Persistencef("the product cannot be updated")
	}

	updated, err := uc.store.UpdateProduct(ctx, id, product)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, httpx.NotFoundf("the product with the given ID was not found")
	}
	if err != nil {
		return nil, httpx.Persistencef("the product cannot be updated")
	}
	return updated, nil
}

func (uc *UseCase) UpdateGallery(ctx context.Context, id primitive.ObjectID, images []string) (*models.Product, error) {
	updated, err := uc.store.UpdateProductImages(ctx, id, images)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, httpx.NotFoundf("the product with the given ID was not found")
	}
	if err != nil {
		return nil, httpx.Persistencef("the product cannot be updated")
	}
	return updated, nil
}

func (uc *UseCase) Delete(ctx context.Context, id primitive.ObjectID) error {
	err := uc.store.DeleteProduct(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return httpx.NotFoundf("product not found")
	}
	if err != nil {
		return httpx.Persistencef("the product cannot be deleted")
	}
	return nil
}

func (uc *UseCase) withCategory(ctx context.Context, product models.Product) (*models.ProductDetail, error) {
	detail := &models.ProductDetail{Product: product}
	category, err := uc.store.FindCategoryByID(ctx, product.Category)
	if err == nil {
		detail.CategoryDetail = category
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, httpx.Persistencef("the product cannot be retrieved")
	}
	return detail, nil
}

func (uc *UseCase) withCategories(ctx context.Context, products []models.Product) ([]models.ProductDetail, error) {
	// categories repeat heavily across a catalog; resolve each id once
	cache := make(map[primitive.ObjectID]*models.Category)
	details := make([]models.ProductDetail, 0, len(products))
	for _, p := range products {
		detail := models.ProductDetail{Product: p}
		if cached, ok := cache[p.Category]; ok {
			detail.CategoryDetail = cached
		} else {
			category, err := uc.store.FindCategoryByID(ctx, p.Category)
			if err != nil && !errors.Is(err, storage.ErrNotFound) {
				return nil, httpx.Persistencef("the product list cannot be retrieved")
			}
			cache[p.Category] = category
			detail.CategoryDetail = category
		}
		details = append(details, detail)
	}
	return details, nil
}
