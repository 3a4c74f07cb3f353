package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/task-manager/internal/storage/memory"
)

func newTestAuthService(t *testing.T) (AuthService, SessionService, *memory.Store) {
	t.Helper()
	store := memory.New()
	sessions := newTestSessionService(t, store, newTestClock())
	auth := NewAuthService(zerolog.Nop(), store, sessions, NewPasswordHasher(testPasswordParams))
	return auth, sessions, store
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	auth, sessions, store := newTestAuthService(t)

	result, err := auth.Register(ctx, RegisterParams{Email: " A@B.com", Password: "secret1"})
	require.NoError(t, err)

	assert.Equal(t, "a@b.com", result.User.Email)
	assert.NotEqual(t, "secret1", result.User.PasswordHash)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, result.Session.RefreshToken, result.RefreshToken)

	claims, err := sessions.ParseAccessToken(result.AccessToken.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.Subject)
	assert.Equal(t, result.Session.ID, claims.SessionID)

	stored, err := store.GetUserByID(ctx, result.User.ID)
	require.NoError(t, err)
	require.Len(t, stored.Sessions, 1)
	assert.Equal(t, result.RefreshToken, stored.Sessions[0].RefreshToken)
}

func TestRegister_Duplicate(t *testing.T) {
	ctx := context.Background()
	auth, _, _ := newTestAuthService(t)

	_, err := auth.Register(ctx, RegisterParams{Email: "a@b.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = auth.Register(ctx, RegisterParams{Email: "A@B.COM", Password: "other"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	auth, _, store := newTestAuthService(t)

	registered, err := auth.Register(ctx, RegisterParams{Email: "a@b.com", Password: "secret1"})
	require.NoError(t, err)

	result, err := auth.Login(ctx, LoginParams{Email: "a@b.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, result.User.ID)
	assert.NotEqual(t, registered.RefreshToken, result.RefreshToken)

	stored, err := store.GetUserByID(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Sessions, 2)

	_, err = auth.Login(ctx, LoginParams{Email: "a@b.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
