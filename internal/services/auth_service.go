package services

import (
	"context"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/badziek/logitrans-app/internal/models"
	"github.com/badziek/logitrans-app/internal/repo"
	"github.com/badziek/logitrans-app/internal/utils"
)

type AuthService struct {
	users *repo.UserRepo
}

func NewAuthService(users *repo.UserRepo) *AuthService {
	return &AuthService{users: users}
}

// Login verifies email + password against an active account. Both the
// unknown-email and wrong-password paths return the same error so the
// response never reveals which credential failed.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetActiveByEmail(ctx, email)
	if err != nil {
		return nil, utils.NewAppError(http.StatusUnauthorized, "UNAUTHORIZED", "invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, utils.NewAppError(http.StatusUnauthorized, "UNAUTHORIZED", "invalid email or password")
	}

	return user, nil
}
