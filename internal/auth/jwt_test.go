package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const secret = "test-secret"

func TestAccessToken(t *testing.T) {
	t.Run("should round trip the identity", func(t *testing.T) {
		req := require.New(t)
		token, exp, err := NewAccessToken(Identity{UserID: 7, Email: "a@example.com"}, secret, time.Hour)
		req.NoError(err)
		req.WithinDuration(time.Now().Add(time.Hour), exp, 5*time.Second)

		id, err := Verify(token, secret)
		req.NoError(err)
		req.Equal(Identity{UserID: 7, Email: "a@example.com"}, id)
	})

	t.Run("should reject a token signed with another secret", func(t *testing.T) {
		req := require.New(t)
		token, _, err := NewAccessToken(Identity{UserID: 7, Email: "a@example.com"}, "other", time.Hour)
		req.NoError(err)

		_, err = Verify(token, secret)
		req.ErrorIs(err, ErrInvalidCredential)
	})

	t.Run("should report expiry", func(t *testing.T) {
		req := require.New(t)
		token, _, err := NewAccessToken(Identity{UserID: 7, Email: "a@example.com"}, secret, -time.Minute)
		req.NoError(err)

		_, err = Verify(token, secret)
		req.ErrorIs(err, ErrTokenExpired)
		req.ErrorIs(err, ErrInvalidCredential)
	})

	t.Run("should reject garbage", func(t *testing.T) {
		req := require.New(t)
		_, err := Verify("not-a-jwt", secret)
		req.ErrorIs(err, ErrInvalidCredential)
	})

	t.Run("should reject tokens without identity claims", func(t *testing.T) {
		req := require.New(t)
		claims := CustomClaims{RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		req.NoError(err)

		_, err = Verify(token, secret)
		req.ErrorIs(err, ErrInvalidCredential)
	})
}

func TestPassword(t *testing.T) {
	PasswordCost = bcrypt.MinCost
	t.Cleanup(func() { PasswordCost = bcrypt.DefaultCost })

	t.Run("should verify only the original password", func(t *testing.T) {
		req := require.New(t)
		hash, err := HashPassword("correct horse")
		req.NoError(err)
		req.NoError(VerifyPassword(hash, "correct horse"))
		req.ErrorIs(VerifyPassword(hash, "wrong horse"), ErrPasswordMismatch)
	})

	t.Run("should measure the limit in bytes", func(t *testing.T) {
		req := require.New(t)
		// 40 runes, 80 bytes.
		_, err := HashPassword(strings.Repeat("é", 40))
		req.ErrorIs(err, ErrPasswordTooLong)
		_, err = HashPassword(strings.Repeat("a", 72))
		req.NoError(err)
	})

	t.Run("should not accept a corrupt hash", func(t *testing.T) {
		req := require.New(t)
		err := VerifyPassword("not-a-bcrypt-hash", "correct horse")
		req.Error(err)
		req.NotErrorIs(err, ErrPasswordMismatch)
	})
}

func TestIdentityContext(t *testing.T) {
	req := require.New(t)
	ctx := WithIdentity(context.Background(), Identity{UserID: 3, Email: "c@example.com"})
	id, ok := IdentityFromContext(ctx)
	req.True(ok)
	req.Equal(int64(3), id.UserID)

	_, ok = IdentityFromContext(context.Background())
	req.False(ok)
}
