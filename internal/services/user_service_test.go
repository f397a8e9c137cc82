package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/badziek/logitrans-app/internal/models"
	"github.com/badziek/logitrans-app/internal/repo"
)

func newTestService(t *testing.T) (*UserService, *repo.UserRepo) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	gormDB, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gormDB.AutoMigrate(&models.User{}, &models.Load{}))

	users := repo.NewUserRepo(gormDB, time.Second)
	return NewUserService(users), users
}

func seedActor(t *testing.T, users *repo.UserRepo, email string, role models.Role) *models.User {
	t.Helper()

	actor := &models.User{
		Email:        email,
		PasswordHash: "x",
		FullName:     "Actor",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, users.Create(context.Background(), actor))
	return actor
}

func TestSupervisorMayOnlyCreateUsers(t *testing.T) {
	svc, users := newTestService(t)
	supervisor := seedActor(t, users, "sup@example.com", models.RoleSupervisor)

	_, err := svc.CreateUser(context.Background(), supervisor, "new@example.com", "New", "Abc123", models.RoleAdmin)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "USER")

	created, err := svc.CreateUser(context.Background(), supervisor, "new@example.com", "New", "Abc123", models.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, created.Role)
}

func TestAdminMayCreateAnyRole(t *testing.T) {
	svc, users := newTestService(t)
	admin := seedActor(t, users, "admin@example.com", models.RoleAdmin)

	created, err := svc.CreateUser(context.Background(), admin, "second@example.com", "Second", "Abc123", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, created.Role)
}

func TestCreateUserRejectsWeakPassword(t *testing.T) {
	svc, users := newTestService(t)
	admin := seedActor(t, users, "admin@example.com", models.RoleAdmin)

	_, err := svc.CreateUser(context.Background(), admin, "weak@example.com", "Weak", "abc123", models.RoleUser)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "uppercase")
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	svc, users := newTestService(t)
	admin := seedActor(t, users, "admin@example.com", models.RoleAdmin)

	_, err := svc.CreateUser(context.Background(), admin, "dup@example.com", "One", "Abc123", models.RoleUser)
	require.NoError(t, err)

	_, err = svc.CreateUser(context.Background(), admin, "DUP@example.com", "Two", "Abc123", models.RoleUser)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestSelfDeleteAlwaysRejected(t *testing.T) {
	svc, users := newTestService(t)
	admin := seedActor(t, users, "admin@example.com", models.RoleAdmin)

	err := svc.DeleteUser(context.Background(), admin, admin.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "your own account")

	// still present
	got, err := users.GetByID(context.Background(), admin.ID)
	require.NoError(t, err)
	assert.Equal(t, admin.Email, got.Email)
}

func TestOnlyAdminDeletesAccounts(t *testing.T) {
	svc, users := newTestService(t)
	admin := seedActor(t, users, "admin@example.com", models.RoleAdmin)
	supervisor := seedActor(t, users, "sup@example.com", models.RoleSupervisor)
	victim := seedActor(t, users, "victim@example.com", models.RoleUser)

	err := svc.DeleteUser(context.Background(), supervisor, victim.ID)
	require.Error(t, err)

	require.NoError(t, svc.DeleteUser(context.Background(), admin, victim.ID))
	_, err = users.GetByID(context.Background(), victim.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestChangePasswordValidatesPolicy(t *testing.T) {
	svc, users := newTestService(t)
	admin := seedActor(t, users, "admin@example.com", models.RoleAdmin)
	target := seedActor(t, users, "target@example.com", models.RoleUser)

	err := svc.ChangePassword(context.Background(), admin, target.ID, "short")
	require.Error(t, err)

	require.NoError(t, svc.ChangePassword(context.Background(), admin, target.ID, "Abc123"))

	got, err := users.GetByID(context.Background(), target.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "x", got.PasswordHash)
}
