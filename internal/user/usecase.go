// Package user covers account CRUD plus login/registration, the two
// endpoints that mint bearer tokens.
package user

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"eshop-api/internal/auth"
	"eshop-api/internal/httpx"
	"eshop-api/internal/models"
	"eshop-api/internal/storage"
	"eshop-api/internal/telemetry"
)

const bcryptCost = 10

type Store interface {
	InsertUser(ctx context.Context, user *models.User) (primitive.ObjectID, error)
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByName(ctx context.Context, name string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	CountUsers(ctx context.Context) (int64, error)
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
}

type UseCase struct {
	store   Store
	secret  []byte
	metrics *telemetry.Metrics
	log     *zap.Logger
}

func NewUseCase(store Store, secret []byte, metrics *telemetry.Metrics, log *zap.Logger) *UseCase {
	return &UseCase{store: store, secret: secret, metrics: metrics, log: log}
}

type RegisterRequest struct {
	Name      string
	Email     string
	Password  string
	Phone     string
	IsAdmin   bool
	Street    string
	Apartment string
	City      string
	Zip       string
	Country   string
}

func (uc *UseCase) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, httpx.Validationf("name, email and password are required")
	}

	if _, err := uc.store.FindUserByName(ctx, req.Name); err == nil {
		return nil, httpx.Validationf("the user with the given name already exists")
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, httpx.Persistencef("the user cannot be created")
	}
	if _, err := uc.store.FindUserByEmail(ctx, req.Email); err == nil {
		return nil, httpx.Validationf("the user with the given email already exists")
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, httpx.Persistencef("the user cannot be created")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, httpx.Persistencef("the user cannot be created")
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Phone:        req.Phone,
		IsAdmin:      req.IsAdmin,
		Street:       req.Street,
		Apartment:    req.Apartment,
		City:         req.City,
		Zip:          req.Zip,
		Country:      req.Country,
	}
	id, err := uc.store.InsertUser(ctx, user)
	if err != nil {
		return nil, httpx.Persistencef("the user cannot be created")
	}
	user.ID = id

	uc.metrics.UsersRegistered.Add(ctx, 1)
	uc.log.Info("user registered", zap.String("user_id", id.Hex()))
	return user, nil
}

type LoginResult struct {
	UserID  string `json:"userId"`
	Token   string `json:"token"`
	IsAdmin bool   `json:"isAdmin"`
}

// Login verifies the password and mints a signed token carrying the
// user's id and admin flag.
func (uc *UseCase) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := uc.store.FindUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, httpx.Validationf("the user with the given email was not found")
	}
	if err != nil {
		return nil, httpx.Persistencef("the user cannot be retrieved")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, httpx.Validationf("the password is incorrect")
	}

	token, err := auth.IssueToken(uc.secret, user.ID.Hex(), user.IsAdmin)
	if err != nil {
		uc.log.Error("failed to issue token", zap.String("user_id", user.ID.Hex()), zap.Error(err))
		return nil, httpx.Persistencef("the user cannot be logged in")
	}

	return &LoginResult{UserID: user.Email, Token: token, IsAdmin: user.IsAdmin}, nil
}

func (uc *UseCase) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := uc.store.FindUserByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, httpx.NotFoundf("the user with the given ID was not found")
	}
	if err != nil {
		return nil, httpx.Persistencef("the user cannot be retrieved")
	}
	return user, nil
}

func (uc *UseCase) List(ctx context.Context) ([]models.User, error) {
	users, err := uc.store.ListUsers(ctx)
	if err != nil {
		return nil, httpx.Persistencef("the user list cannot be retrieved")
	}
	return users, nil
}

func (uc *UseCase) Count(ctx context.Context) (int64, error) {
	count, err := uc.store.CountUsers(ctx)
	if err != nil {
		return 0, httpx.Persistencef("the user count cannot be retrieved")
	}
	return count, nil
}

func (uc *UseCase) Delete(ctx context.Context, id primitive.ObjectID) error {
	err := uc.store.DeleteUser(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return httpx.NotFoundf("user not found")
	}
	if err != nil {
		return httpx.Persistencef("the user cannot be deleted")
	}
	return nil
}
