package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/oulia/oulia/gateway/internal/application/usecase"
	"github.com/oulia/oulia/gateway/internal/infrastructure/auth"
	"github.com/oulia/oulia/gateway/internal/infrastructure/persistence"
	apperrors "github.com/oulia/oulia/gateway/pkg/errors"
)

func newAuth(t *testing.T) (*usecase.AuthUseCase, *auth.JWT) {
	t.Helper()
	repos := persistence.NewMemoryRepositories()
	signer := auth.NewJWT("test-secret", 0)
	return usecase.NewAuthUseCase(repos.Hosts, auth.NewBcrypt(bcrypt.MinCost), signer, sequentialIDs(), zap.NewNop()), signer
}

func TestAuth_RegisterLoginProfile(t *testing.T) {
	uc, signer := newAuth(t)
	ctx := context.Background()

	reg, err := uc.Register(ctx, usecase.RegisterInput{
		Email: " Host@Example.com ", Password: "long-enough", FirstName: "Ada", LastName: "Lovelace",
	})
	require.NoError(t, err)
	assert.Equal(t, "host@example.com", reg.Host.Email)
	assert.NotEqual(t, "long-enough", reg.Host.PasswordHash)

	claims, err := signer.Parse(reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.Host.ID, claims.UserID)

	login, err := uc.Login(ctx, "HOST@example.com", "long-enough")
	require.NoError(t, err)
	assert.Equal(t, reg.Host.ID, login.Host.ID)

	profile, err := uc.Profile(ctx, reg.Host.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.FirstName)
}

func TestAuth_Failures(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()
	in := usecase.RegisterInput{Email: "a@b.c", Password: "long-enough", FirstName: "A", LastName: "B"}

	_, err := uc.Register(ctx, in)
	require.NoError(t, err)

	_, err = uc.Register(ctx, in)
	assert.True(t, apperrors.IsAlreadyExists(err))

	short := in
	short.Email, short.Password = "x@y.z", "short"
	_, err = uc.Register(ctx, short)
	assert.True(t, apperrors.IsInvalidInput(err))

	_, wrongPass := uc.Login(ctx, "a@b.c", "nope-nope")
	_, unknown := uc.Login(ctx, "who@b.c", "long-enough")
	assert.True(t, apperrors.IsUnauthorized(wrongPass))
	assert.True(t, apperrors.IsUnauthorized(unknown))
	assert.Equal(t, apperrors.MessageOf(wrongPass), apperrors.MessageOf(unknown))

	_, err = uc.Profile(ctx, "missing")
	assert.True(t, apperrors.IsNotFound(err))
}
