package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/inquizitor/inquizitor-backend/internal/config"
)

func newTestAuthService() *AuthService {
	cfg := &config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  15 * time.Minute,
		BcryptCost: bcrypt.MinCost,
	}
	return NewAuthService(cfg, nil, nil, nil, zerolog.Nop())
}

func TestPasswordHashRoundTrip(t *testing.T) {
	s := newTestAuthService()

	hash, err := s.HashPassword("zaq1@WSX")
	require.NoError(t, err)
	assert.NotEqual(t, "zaq1@WSX", hash)

	assert.NoError(t, s.CheckPassword(hash, "zaq1@WSX"))
	assert.ErrorIs(t, s.CheckPassword(hash, "inne-hasło"), ErrInvalidCredentials)
}

func TestNewRawTokenIsHexAndHashed(t *testing.T) {
	raw, hash, err := newRawToken()
	require.NoError(t, err)

	assert.Len(t, raw, 64)
	assert.Len(t, hash, 64)
	assert.NotEqual(t, raw, hash)
	assert.Equal(t, hash, hashToken(raw))
}

func TestNewRawTokenIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		raw, _, err := newRawToken()
		require.NoError(t, err)
		assert.False(t, seen[raw], "token repeated")
		seen[raw] = true
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	s := newTestAuthService()

	_, err := s.ValidateToken("not-a-jwt")
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	s := newTestAuthService()
	other := newTestAuthService()
	other.cfg.JWTSecret = "different-secret"

	token := signTestToken(t, other, uuid.New())
	_, err := s.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenAcceptsOwnToken(t *testing.T) {
	s := newTestAuthService()
	userID := uuid.New()

	claims, err := s.ValidateToken(signTestToken(t, s, userID))
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "jan@inquizitor.pl", claims.Email)
}

// signTestToken mints an access token the same way issueTokenPair does,
// without touching the refresh token store.
func signTestToken(t *testing.T, s *AuthService, userID uuid.UUID) string {
	t.Helper()
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		UserID: userID,
		Email:  "jan@inquizitor.pl",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	require.NoError(t, err)
	return token
}
