package product

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"eshop-api/internal/httpx"
	"eshop-api/internal/models"
	"eshop-api/internal/storage"
)

type fakeCatalog struct {
	products   map[primitive.ObjectID]models.Product
	categories map[primitive.ObjectID]models.Category
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		products:   make(map[primitive.ObjectID]models.Product),
		categories: make(map[primitive.ObjectID]models.Category),
	}
}

func (f *fakeCatalog) InsertProduct(_ context.Context, product *models.Product) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	p := *product
	p.ID = id
	f.products[id] = p
	return id, nil
}

func (f *fakeCatalog) FindProductByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &p, nil
}

func (f *fakeCatalog) ListProducts(_ context.Context, categories []primitive.ObjectID) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if len(categories) == 0 {
			out = append(out, p)
			continue
		}
		for _, c := range categories {
			if p.Category == c {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeCatalog) ListFeaturedProducts(_ context.Context, limit int64) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if p.IsFeatured {
			out = append(out, p)
			if limit > 0 && int64(len(out)) == limit {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeCatalog) CountProducts(_ context.Context) (int64, error) {
	return int64(len(f.products)), nil
}

func (f *fakeCatalog) UpdateProduct(_ context.Context, id primitive.ObjectID, product *models.Product) (*models.Product, error) {
	if _, ok := f.products[id]; !ok {
		return nil, storage.ErrNotFound
	}
	p := *product
	p.ID = id
	f.products[id] = p
	return &p, nil
}

func (f *fakeCatalog) UpdateProductImages(_ context.Context, id primitive.ObjectID, images []string) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	p.Images = images
	f.products[id] = p
	return &p, nil
}

func (f *fakeCatalog) DeleteProduct(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.products[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeCatalog) FindCategoryByID(_ context.Context, id primitive.ObjectID) (*models.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &c, nil
}

func (f *fakeCatalog) addCategory(name string) primitive.ObjectID {
	id := primitive.NewObjectID()
	f.categories[id] = models.Category{ID: id, Name: name}
	return id
}

func TestCreateProductUnknownCategory(t *testing.T) {
	uc := NewUseCase(newFakeCatalog(), zap.NewNop())

	_, err := uc.Create(context.Background(), &models.Product{
		Name:     "Novel",
		Price:    12.50,
		Category: primitive.NewObjectID(),
	})
	require.Error(t, err)
	assert.Equal(t, httpx.KindValidation, httpx.KindOf(err))
}

func TestCreateAndGetProduct(t *testing.T) {
	store := newFakeCatalog()
	uc := NewUseCase(store, zap.NewNop())
	categoryID := store.addCategory("Books")

	created, err := uc.Create(context.Background(), &models.Product{
		Name:     "Novel",
		Price:    12.50,
		Category: categoryID,
	})
	require.NoError(t, err)
	assert.False(t, created.ID.IsZero())
	assert.False(t, created.DateCreated.IsZero())

	detail, err := uc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Novel", detail.Name)
	require.NotNil(t, detail.CategoryDetail)
	assert.Equal(t, "Books", detail.CategoryDetail.Name)
}

func TestGetProductMissing(t *testing.T) {
	uc := NewUseCase(newFakeCatalog(), zap.NewNop())

	_, err := uc.Get(context.Background(), primitive.NewObjectID())
	assert.Equal(t, httpx.KindNotFound, httpx.KindOf(err))
}

func TestListProductsByCategory(t *testing.T) {
	store := newFakeCatalog()
	uc := NewUseCase(store, zap.NewNop())
	books := store.addCategory("Books")
	toys := store.addCategory("Toys")

	_, err := uc.Create(context.Background(), &models.Product{Name: "Novel", Category: books})
	require.NoError(t, err)
	_, err = uc.Create(context.Background(), &models.Product{Name: "Blocks", Category: toys})
	require.NoError(t, err)

	all, err := uc.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := uc.List(context.Background(), []primitive.ObjectID{books})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Novel", filtered[0].Name)
}

func TestUpdateProductUnknownCategory(t *testing.T) {
	store := newFakeCatalog()
	uc := NewUseCase(store, zap.NewNop())
	categoryID := store.addCategory("Books")

	created, err := uc.Create(context.Background(), &models.Product{Name: "Novel", Category: categoryID})
	require.NoError(t, err)

	_, err = uc.Update(context.Background(), created.ID, &models.Product{Name: "Novel", Category: primitive.NewObjectID()})
	assert.Equal(t, httpx.KindValidation, httpx.KindOf(err))
}
