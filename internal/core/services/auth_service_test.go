package services

import (
	"context"
	"testing"

	"wecaare-insurance/internal/adapters/persistence/models"
	"wecaare-insurance/internal/adapters/persistence/repositories"
	"wecaare-insurance/internal/config"
	"wecaare-insurance/internal/core/domain"
	"wecaare-insurance/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testJWTConfig = config.JWTConfig{
	Secret:           "test-access-secret",
	RefreshSecret:    "test-refresh-secret",
	AccessTokenMins:  15,
	RefreshTokenDays: 7,
}

func newTestAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	return NewAuthService(
		repositories.NewUserRepository(db),
		repositories.NewRefreshTokenRepository(db),
		testJWTConfig,
	), db
}

func seedUser(t *testing.T, db *gorm.DB, username, plain, role string, active bool) *models.User {
	t.Helper()

	hashed, err := password.Hash(plain)
	require.NoError(t, err)

	user := &models.User{
		Username: username,
		Password: hashed,
		Role:     role,
		IsActive: active,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestLogin(t *testing.T) {
	svc, db := newTestAuthService(t)
	seedUser(t, db, "admin", "admin123456", models.RoleAdmin, true)
	ctx := context.Background()

	output, err := svc.Login(ctx, LoginInput{Username: "admin", Password: "admin123456"})
	require.NoError(t, err)
	assert.NotEmpty(t, output.AccessToken)
	assert.NotEmpty(t, output.RefreshToken)
	assert.Equal(t, "admin", output.User.Username)
	assert.Equal(t, models.RoleAdmin, output.User.Role)

	_, err = svc.Login(ctx, LoginInput{Username: "admin", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{Username: "nobody", Password: "whatever123"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginInactiveUser(t *testing.T) {
	svc, db := newTestAuthService(t)
	seedUser(t, db, "former", "former123456", models.RoleStaff, false)

	_, err := svc.Login(context.Background(), LoginInput{Username: "former", Password: "former123456"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, db := newTestAuthService(t)
	seedUser(t, db, "staff", "staff123456", models.RoleStaff, true)
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginInput{Username: "staff", Password: "staff123456"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// The rotated-out token is dead
	_, err = svc.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	// The new one still works
	_, err = svc.Refresh(ctx, refreshed.RefreshToken)
	require.NoError(t, err)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, db := newTestAuthService(t)
	seedUser(t, db, "staff", "staff123456", models.RoleStaff, true)
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginInput{Username: "staff", Password: "staff123456"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, login.RefreshToken))

	_, err = svc.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestLogoutAllRevokesEverySession(t *testing.T) {
	svc, db := newTestAuthService(t)
	user := seedUser(t, db, "staff", "staff123456", models.RoleStaff, true)
	ctx := context.Background()

	first, err := svc.Login(ctx, LoginInput{Username: "staff", Password: "staff123456"})
	require.NoError(t, err)
	second, err := svc.Login(ctx, LoginInput{Username: "staff", Password: "staff123456"})
	require.NoError(t, err)

	require.NoError(t, svc.LogoutAll(ctx, user.ID))

	_, err = svc.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	_, err = svc.Refresh(ctx, second.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
