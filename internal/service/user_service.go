package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fathima-sithara/marketplace-service/internal/apperr"
	"github.com/fathima-sithara/marketplace-service/internal/auth"
	"github.com/fathima-sithara/marketplace-service/internal/domain"
)

type RegisterInput struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
}

type UserService struct {
	users    UserStore
	products ProductStore
}

func NewUserService(users UserStore, products ProductStore) *UserService {
	return &UserService{users: users, products: products}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: first_name, last_name, email and password are required", apperr.ErrInvalidRequest)
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", apperr.ErrInvalidRequest)
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		ID:           primitive.NewObjectID(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
		PhoneNumber:  in.PhoneNumber,
		Address:      in.Address,
		Role:         "user",
		IsActive:     true,
		DateJoined:   time.Now().UTC(),
	}
	if err := s.users.Insert(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// ProductsOf lists the products a user is selling.
func (s *UserService) ProductsOf(ctx context.Context, userID string) ([]*domain.Product, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.products.ListBySeller(ctx, u.ID.Hex())
}
