package service

import (
	"context"
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/domain"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestAuthService_RegisterAndLogin(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(repo, testSecret, time.Hour)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Ana", " Ana@Example.com ", "hunter22", domain.LevelBeginner)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)
	assert.False(t, user.ID.IsZero())

	stored, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", stored.PasswordHash)

	token, logged, err := svc.Login(ctx, "ana@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.Empty(t, logged.PasswordHash)

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, tokenIssuer, claims.Issuer)
}

func TestAuthService_RegisterRejects(t *testing.T) {
	svc := NewAuthService(newMemUserRepo(), testSecret, time.Hour)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "a@b.c", "pw", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.Register(ctx, "Bo", "bo@b.c", "pw", "elite")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Register(ctx, "Bo", "bo@b.c", "pw", "")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "Bo again", "BO@b.c", "pw2", "")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestAuthService_LoginFailures(t *testing.T) {
	svc := NewAuthService(newMemUserRepo(), testSecret, time.Hour)
	ctx := context.Background()
	_, err := svc.Register(ctx, "Cy", "cy@b.c", "right", "")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "cy@b.c", "wrong")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	_, _, err = svc.Login(ctx, "nobody@b.c", "right")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	_, _, err = svc.Login(ctx, "", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNewAuthService_PanicsWithoutSecret(t *testing.T) {
	assert.Panics(t, func() { NewAuthService(newMemUserRepo(), "", time.Hour) })
}
