package service

import (
	"context"
	"testing"
	"time"

	"financer/internal/dto"
	"financer/pkg/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthService() *AuthService {
	return NewAuthService(&memUserStore{}, auth.NewJWTManager("secret", time.Hour, 24*time.Hour), zap.NewNop())
}

func TestAuthService_RegisterLoginRefresh(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, &dto.RegisterRequest{Username: "nino", Email: "Nino@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "nino@example.com", registered.User.Email)
	assert.Equal(t, "Bearer", registered.TokenType)
	assert.Equal(t, int64(3600), registered.ExpiresIn)

	_, err = svc.Register(ctx, &dto.RegisterRequest{Username: "dup", Email: "nino@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrUserExists)

	loggedIn, err := svc.Login(ctx, &dto.LoginRequest{Email: "nino@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "nino@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	refreshed, err := svc.RefreshToken(ctx, loggedIn.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, refreshed.User.ID)

	_, err = svc.RefreshToken(ctx, loggedIn.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_RegisterValidates(t *testing.T) {
	svc := newAuthService()

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{Email: "not-an-email", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidUser)

	_, err = svc.Register(context.Background(), &dto.RegisterRequest{Email: "a@example.com", Password: "123"})
	assert.ErrorIs(t, err, ErrInvalidUser)
}

func TestAuthService_Profile(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	nino, err := svc.Register(ctx, &dto.RegisterRequest{Username: "nino", Email: "nino@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, &dto.RegisterRequest{Username: "giorgi", Email: "giorgi@example.com", Password: "secret1"})
	require.NoError(t, err)

	profile, err := svc.Profile(ctx, nino.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "nino", profile.Username)
	assert.NotEmpty(t, profile.CreatedAt)

	_, err = svc.Profile(ctx, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)

	name := "  Nino B. "
	email := "Nino.B@Example.com"
	updated, err := svc.UpdateProfile(ctx, nino.User.ID, &dto.UpdateProfileRequest{Username: &name, Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "Nino B.", updated.Username)
	assert.Equal(t, "nino.b@example.com", updated.Email)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "nino.b@example.com", Password: "secret1"})
	assert.NoError(t, err)

	taken := "giorgi@example.com"
	_, err = svc.UpdateProfile(ctx, nino.User.ID, &dto.UpdateProfileRequest{Email: &taken})
	assert.ErrorIs(t, err, ErrUserExists)

	blank := " "
	_, err = svc.UpdateProfile(ctx, nino.User.ID, &dto.UpdateProfileRequest{Username: &blank})
	assert.ErrorIs(t, err, ErrInvalidUser)

	bad := "nope"
	_, err = svc.UpdateProfile(ctx, nino.User.ID, &dto.UpdateProfileRequest{Email: &bad})
	assert.ErrorIs(t, err, ErrInvalidUser)
}
