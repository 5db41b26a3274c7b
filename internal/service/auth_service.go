package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fathima-sithara/marketplace-service/internal/apperr"
	"github.com/fathima-sithara/marketplace-service/internal/auth"
)

type AuthService struct {
	users  UserStore
	tokens *auth.TokenManager
}

func NewAuthService(users UserStore, tokens *auth.TokenManager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Login exchanges credentials for an access token. The failure message
// never says which of the two fields was wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", fmt.Errorf("%w: invalid email or password", apperr.ErrUnauthorized)
		}
		return "", err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return "", fmt.Errorf("%w: invalid email or password", apperr.ErrUnauthorized)
	}
	return s.tokens.Issue(u.ID.Hex(), u.Email, u.Role)
}
