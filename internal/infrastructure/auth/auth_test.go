package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestJWT_RoundTrip(t *testing.T) {
	j := NewJWT("secret", time.Hour)

	token, err := j.Sign("host-1", "a@b.c")
	require.NoError(t, err)

	claims, err := j.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "host-1", claims.UserID)
	assert.Equal(t, "a@b.c", claims.Email)
}

func TestJWT_Rejects(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	token, err := j.Sign("host-1", "a@b.c")
	require.NoError(t, err)

	_, err = NewJWT("other", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = j.Parse(token[:len(token)-2])
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = j.Parse("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewJWT("secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	old, err := expired.Sign("host-1", "a@b.c")
	require.NoError(t, err)
	_, err = j.Parse(old)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBcrypt(t *testing.T) {
	b := NewBcrypt(bcrypt.MinCost)

	hash, err := b.Hash("correct horse")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))

	ok, err := b.Verify(hash, "correct horse")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.Verify(hash, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = b.Verify("garbage", "x")
	assert.Error(t, err)
}

func TestNewBcrypt_ClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcrypt(0).cost)
	assert.Equal(t, 12, NewBcrypt(12).cost)
}
