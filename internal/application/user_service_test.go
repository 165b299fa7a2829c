package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devarta/taskboard/pkg/helpers"
)

func newUserService() *UserService {
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	return NewUserService(newFakeUserRepo(), jwt, nil, nil)
}

func TestRegisterNormalizesEmail(t *testing.T) {
	svc := newUserService()

	u, err := svc.Register(context.Background(), "  Owner@Example.COM ", "password123", "Owner")
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", u.Email)
	assert.NotEqual(t, "password123", u.Password, "password must be stored hashed")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newUserService()

	_, err := svc.Register(context.Background(), "owner@example.com", "password123", "Owner")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "OWNER@example.com", "different", "Imposter")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginIssuesTokenPair(t *testing.T) {
	svc := newUserService()
	_, err := svc.Register(context.Background(), "owner@example.com", "password123", "Owner")
	require.NoError(t, err)

	resp, pair, err := svc.Login(context.Background(), "owner@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", resp.Email)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.AccessTokenExpiry.After(time.Now()))

	claims, err := svc.JWT.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, claims.UserID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newUserService()
	_, err := svc.Register(context.Background(), "owner@example.com", "password123", "Owner")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "owner@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotatesPair(t *testing.T) {
	svc := newUserService()
	_, err := svc.Register(context.Background(), "owner@example.com", "password123", "Owner")
	require.NoError(t, err)

	_, pair, err := svc.Login(context.Background(), "owner@example.com", "password123")
	require.NoError(t, err)

	rotated, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)

	_, err = svc.Refresh(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Refresh(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials, "access token must not pass as a refresh token")
}

func TestGetProfile(t *testing.T) {
	svc := newUserService()
	u, err := svc.Register(context.Background(), "owner@example.com", "password123", "Owner")
	require.NoError(t, err)

	got, err := svc.GetProfile(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	_, err = svc.GetProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
