package db

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/badziek/logitrans-app/internal/models"
)

// EnsureAdmin creates the bootstrap admin account if no user with the
// configured email exists. It never touches an existing account.
func EnsureAdmin(gormDB *gorm.DB, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	var count int64
	if err := gormDB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return fmt.Errorf("check admin exists: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := models.User{
		Email:        email,
		FullName:     "Administrator",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := gormDB.Create(&admin).Error; err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}
