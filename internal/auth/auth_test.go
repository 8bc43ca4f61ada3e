package auth

import (
	"serwer-kont/internal/models"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	password := "mySecretPassword123"
	hash, err := HashPassword(password)

	require.NoError(t, err)
	require.NotEmpty(t, hash)
	require.NotEqual(t, password, hash)
}

func TestCheckPasswordHash(t *testing.T) {
	password := "mySecretPassword123"
	hash, err := HashPassword(password)
	require.NoError(t, err)

	match := CheckPasswordHash(password, hash)
	require.True(t, match, "Password should match the hash")

	wrongPassword := "wrongPassword"
	match = CheckPasswordHash(wrongPassword, hash)
	require.False(t, match, "Wrong password should not match the hash")
}

func TestGenerateAndVerifyAccessToken(t *testing.T) {
	secret := "my_super_secret_key_for_testing"
	user := &models.User{
		ID:       uuid.New(),
		Username: "testuser",
	}

	tokenString, err := GenerateAccessToken(user, secret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := VerifyAccessToken(tokenString, secret)
	require.NoError(t, err)
	require.NotNil(t, claims)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, user.Username, claims.Username)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)

	_, err = VerifyAccessToken(tokenString, "wrong_secret")
	require.Error(t, err)
	require.ErrorIs(t, err, jwt.ErrSignatureInvalid)

	expirationTime := time.Now().Add(-1 * time.Minute)
	claimsExpired := &AccessClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}
	tokenExpired := jwt.NewWithClaims(jwt.SigningMethodHS256, claimsExpired)
	tokenStringExpired, err := tokenExpired.SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = VerifyAccessToken(tokenStringExpired, secret)
	require.Error(t, err)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestGenerateAndVerifyRefreshToken(t *testing.T) {
	secret := "refresh_secret_for_testing"
	userID := uuid.New()

	tokenString, err := GenerateRefreshToken(userID, secret, 240*time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := VerifyRefreshToken(tokenString, secret)
	require.NoError(t, err)
	require.Equal(t, userID, claims.UserID)
	require.WithinDuration(t, time.Now().Add(240*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenSecretsAreNotInterchangeable(t *testing.T) {
	accessSecret := "access_secret"
	refreshSecret := "refresh_secret"
	user := &models.User{ID: uuid.New(), Username: "testuser"}

	accessToken, err := GenerateAccessToken(user, accessSecret, time.Hour)
	require.NoError(t, err)
	refreshToken, err := GenerateRefreshToken(user.ID, refreshSecret, time.Hour)
	require.NoError(t, err)

	_, err = VerifyRefreshToken(accessToken, refreshSecret)
	require.Error(t, err, "Access token must not verify as a refresh token")

	_, err = VerifyAccessToken(refreshToken, accessSecret)
	require.Error(t, err, "Refresh token must not verify as an access token")
}
