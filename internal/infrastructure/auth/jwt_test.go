package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailpos/backend/internal/infrastructure/config"
)

func newTestService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-with-enough-length",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "retailpos-test",
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	service := newTestService()
	userID := uuid.New()

	token, expiresAt, err := service.Generate(userID, "alice", "admin")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := service.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "retailpos-test", claims.Issuer)
}

func TestJWTService_Validate_Errors(t *testing.T) {
	service := newTestService()

	t.Run("garbage token", func(t *testing.T) {
		_, err := service.Validate("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                "a-completely-different-secret-key",
			AccessTokenExpiration: 15 * time.Minute,
			Issuer:                "retailpos-test",
		})
		token, _, err := other.Generate(uuid.New(), "mallory", "admin")
		require.NoError(t, err)

		_, err = service.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                "test-secret-key-with-enough-length",
			AccessTokenExpiration: 15 * time.Minute,
			Issuer:                "someone-else",
		})
		token, _, err := other.Generate(uuid.New(), "bob", "cashier")
		require.NoError(t, err)

		_, err = service.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewJWTService(config.JWTConfig{
			Secret:                "test-secret-key-with-enough-length",
			AccessTokenExpiration: -1 * time.Minute,
			Issuer:                "retailpos-test",
		})
		token, _, err := expired.Generate(uuid.New(), "bob", "cashier")
		require.NoError(t, err)

		_, err = service.Validate(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("missing user id", func(t *testing.T) {
		now := time.Now()
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "retailpos-test",
				Audience:  jwt.ClaimStrings{"retailpos-test"},
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
				IssuedAt:  jwt.NewNumericDate(now),
			},
			Username: "ghost",
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString([]byte("test-secret-key-with-enough-length"))
		require.NoError(t, err)

		_, err = service.Validate(signed)
		assert.ErrorIs(t, err, ErrMissingUserID)
	})

	t.Run("malformed user id", func(t *testing.T) {
		now := time.Now()
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "retailpos-test",
				Audience:  jwt.ClaimStrings{"retailpos-test"},
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
				IssuedAt:  jwt.NewNumericDate(now),
			},
			UserID:   "not-a-uuid",
			Username: "ghost",
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString([]byte("test-secret-key-with-enough-length"))
		require.NoError(t, err)

		_, err = service.Validate(signed)
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})

	t.Run("rejects non-HMAC signing method", func(t *testing.T) {
		// alg=none style token
		token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: uuid.New().String()})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = service.Validate(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
