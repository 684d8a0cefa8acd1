package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/loanorigination/internal/auth/domain"
	"github.com/wyfcoding/loanorigination/internal/auth/infrastructure/persistence/memory"
	"github.com/wyfcoding/loanorigination/pkg/apperrors"
)

func newAuthService(t *testing.T) (*AuthService, *memory.UserRepository) {
	t.Helper()
	repo := memory.NewUserRepository()
	svc := NewAuthService(repo, "test-secret", 15*time.Minute, 24*time.Hour)
	return svc, repo
}

func seedUser(t *testing.T, repo *memory.UserRepository, username, password string, approved bool) *domain.User {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	user := &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		IsApproved:   approved,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestLoginSuccess(t *testing.T) {
	svc, repo := newAuthService(t)
	seedUser(t, repo, "analyst", "s3cret", true)

	pair, err := svc.Login(context.Background(), "analyst", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "bearer", pair.TokenType)
	assert.Equal(t, int64((15 * time.Minute).Seconds()), pair.ExpiresIn)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, repo := newAuthService(t)
	seedUser(t, repo, "analyst", "s3cret", true)

	_, err := svc.Login(context.Background(), "analyst", "wrong")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Login(context.Background(), "ghost", "whatever")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
}

func TestLoginPendingApproval(t *testing.T) {
	svc, repo := newAuthService(t)
	seedUser(t, repo, "newbie", "s3cret", false)

	_, err := svc.Login(context.Background(), "newbie", "s3cret")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}

func TestAuthenticateAccessToken(t *testing.T) {
	svc, repo := newAuthService(t)
	seeded := seedUser(t, repo, "analyst", "s3cret", true)

	pair, err := svc.Login(context.Background(), "analyst", "s3cret")
	require.NoError(t, err)

	user, err := svc.Authenticate(context.Background(), pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, user.ID)
	assert.Equal(t, "analyst", user.Username)
}

func TestAuthenticateRejectsRefreshToken(t *testing.T) {
	svc, repo := newAuthService(t)
	seedUser(t, repo, "analyst", "s3cret", true)

	pair, err := svc.Login(context.Background(), "analyst", "s3cret")
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), pair.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
}

func TestAuthenticateGarbage(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Authenticate(context.Background(), "not-a-token")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
}

func TestRefreshFlow(t *testing.T) {
	svc, repo := newAuthService(t)
	seedUser(t, repo, "analyst", "s3cret", true)

	pair, err := svc.Login(context.Background(), "analyst", "s3cret")
	require.NoError(t, err)

	fresh, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)

	// access token 不能当 refresh token 用
	_, err = svc.Refresh(context.Background(), pair.AccessToken)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
}
