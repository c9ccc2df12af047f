package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	svc, err := NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)

	token, err := svc.Issue(42, "admin@school.test", []string{"ROLE_USER", "ROLE_ADMIN"})
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, "admin@school.test", claims.Email)
	assert.Equal(t, []string{"ROLE_USER", "ROLE_ADMIN"}, claims.Roles)
}

func TestVerifyRejects(t *testing.T) {
	svc, err := NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		other, _ := NewTokenService("other-secret", time.Hour)
		token, err := other.Issue(1, "a@b.test", nil)
		require.NoError(t, err)
		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		past, _ := NewTokenService("test-secret", time.Minute)
		past.now = func() time.Time { return time.Now().Add(-time.Hour) }
		token, err := past.Issue(1, "a@b.test", nil)
		require.NoError(t, err)
		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "1"}})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = svc.Verify(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{})
		signed, err := token.SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = svc.Verify(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Verify("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	_, err := NewTokenService("", time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.NoError(t, CheckPassword(hash, "correct horse"))
	assert.ErrorIs(t, CheckPassword(hash, "battery staple"), ErrPasswordMismatch)
}
