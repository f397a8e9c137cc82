package services

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/badziek/logitrans-app/internal/models"
	"github.com/badziek/logitrans-app/internal/repo"
	"github.com/badziek/logitrans-app/internal/utils"
)

// UserService owns account management. Every operation takes the
// acting user so role rules are enforced in one place: ADMIN manages
// any account, SUPERVISOR may only create USER accounts, and nobody
// deletes their own account.
type UserService struct {
	users *repo.UserRepo
}

func NewUserService(users *repo.UserRepo) *UserService {
	return &UserService{users: users}
}

func (s *UserService) CreateUser(ctx context.Context, actor *models.User, email, fullName, password string, role models.Role) (*models.User, error) {
	if actor.Role == models.RoleSupervisor && role != models.RoleUser {
		return nil, utils.NewAppError(http.StatusForbidden, "FORBIDDEN", "you may only create accounts with role USER")
	}

	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, utils.NewAppError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not check existing users")
	}
	if exists {
		return nil, utils.NewAppError(http.StatusConflict, "CONFLICT", "a user with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, utils.NewAppError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not secure password")
	}

	user := &models.User{
		Email:        email,
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, utils.NewAppError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not create user")
	}
	return user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, actor *models.User, id uint, email, fullName string, role models.Role) error {
	if actor.Role != models.RoleAdmin {
		return utils.NewAppError(http.StatusForbidden, "FORBIDDEN", "only an admin may edit accounts")
	}

	if err := s.users.UpdateProfile(ctx, id, email, fullName, role); err != nil {
		if err == repo.ErrNotFound {
			return utils.NewAppError(http.StatusNotFound, "NOT_FOUND", "user not found")
		}
		return utils.NewAppError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not update user")
	}
	return nil
}

func (s *UserService) ChangePassword(ctx context.Context, actor *models.User, id uint, newPassword string) error {
	if actor.Role != models.RoleAdmin {
		return utils.NewAppError(http.StatusForbidden, "FORBIDDEN", "only an admin may change passwords")
	}

	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return utils.NewAppError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not secure password")
	}

	if err := s.users.UpdatePassword(ctx, id, string(hash)); err != nil {
		if err == repo.ErrNotFound {
			return utils.NewAppError(http.StatusNotFound, "NOT_FOUND", "user not found")
		}
		return utils.NewAppError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not change password")
	}
	return nil
}

func (s *UserService) DeleteUser(ctx context.Context, actor *models.User, id uint) error {
	if actor.Role != models.RoleAdmin {
		return utils.NewAppError(http.StatusForbidden, "FORBIDDEN", "only an admin may delete accounts")
	}
	if actor.ID == id {
		return utils.NewAppError(http.StatusBadRequest, "VALIDATION_ERROR", "you cannot delete your own account")
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if err == repo.ErrNotFound {
			return utils.NewAppError(http.StatusNotFound, "NOT_FOUND", "user not found")
		}
		return utils.NewAppError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not delete user")
	}
	return nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, utils.NewAppError(http.StatusInternalServerError, "INTERNAL_ERROR", "could not list users")
	}
	return users, nil
}
