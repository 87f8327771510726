package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"

	"eshop-api/internal/auth"
	"eshop-api/internal/httpx"
	"eshop-api/internal/models"
	"eshop-api/internal/storage"
	"eshop-api/internal/telemetry"
)

var testSecret = []byte("test-secret")

type fakeUserStore struct {
	users map[primitive.ObjectID]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[primitive.ObjectID]models.User)}
}

func (f *fakeUserStore) InsertUser(_ context.Context, user *models.User) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	u := *user
	u.ID = id
	f.users[id] = u
	return id, nil
}

func (f *fakeUserStore) FindUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUserStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeUserStore) FindUserByName(_ context.Context, name string) (*models.User, error) {
	for _, u := range f.users {
		if u.Name == name {
			return &u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeUserStore) ListUsers(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserStore) CountUsers(_ context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

func (f *fakeUserStore) DeleteUser(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.users[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func newTestUseCase(t *testing.T, store Store) *UseCase {
	t.Helper()
	metrics, err := telemetry.NewMetrics(metricnoop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)
	return NewUseCase(store, testSecret, metrics, zap.NewNop())
}

func TestRegisterHashesPassword(t *testing.T) {
	store := newFakeUserStore()
	uc := newTestUseCase(t, store)

	user, err := uc.Register(context.Background(), RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "s3cret",
	})
	require.NoError(t, err)
	assert.False(t, user.ID.IsZero())
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "s3cret", user.PasswordHash)
}

func TestRegisterDuplicates(t *testing.T) {
	store := newFakeUserStore()
	uc := newTestUseCase(t, store)

	_, err := uc.Register(context.Background(), RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = uc.Register(context.Background(), RegisterRequest{Name: "Alice", Email: "other@example.com", Password: "pw"})
	assert.Equal(t, httpx.KindValidation, httpx.KindOf(err))

	_, err = uc.Register(context.Background(), RegisterRequest{Name: "Bob", Email: "alice@example.com", Password: "pw"})
	assert.Equal(t, httpx.KindValidation, httpx.KindOf(err))
}

func TestLogin(t *testing.T) {
	store := newFakeUserStore()
	uc := newTestUseCase(t, store)

	_, err := uc.Register(context.Background(), RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "s3cret",
		IsAdmin:  true,
	})
	require.NoError(t, err)

	result, err := uc.Login(context.Background(), "alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", result.UserID)
	assert.True(t, result.IsAdmin)

	claims, err := auth.VerifyToken(testSecret, result.Token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)
}

func TestLoginWrongPassword(t *testing.T) {
	store := newFakeUserStore()
	uc := newTestUseCase(t, store)

	_, err := uc.Register(context.Background(), RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "s3cret"})
	require.NoError(t, err)

	_, err = uc.Login(context.Background(), "alice@example.com", "wrong")
	assert.Equal(t, httpx.KindValidation, httpx.KindOf(err))
}

func TestLoginUnknownEmail(t *testing.T) {
	uc := newTestUseCase(t, newFakeUserStore())

	_, err := uc.Login(context.Background(), "nobody@example.com", "pw")
	assert.Equal(t, httpx.KindValidation, httpx.KindOf(err))
}

func TestDeleteUser(t *testing.T) {
	store := newFakeUserStore()
	uc := newTestUseCase(t, store)

	user, err := uc.Register(context.Background(), RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), user.ID))
	err = uc.Delete(context.Background(), user.ID)
	assert.Equal(t, httpx.KindNotFound, httpx.KindOf(err))
}
