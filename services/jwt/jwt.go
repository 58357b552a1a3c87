package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

// AccessTokenValidity is how long an access token stays usable.
const AccessTokenValidity = time.Hour * 24

// RefreshTokenValidity is how long a refresh token stays usable.
const RefreshTokenValidity = time.Hour * 24 * 7

// GenerateTokenPair returns signed access and refresh tokens for a user.
func GenerateTokenPair(email string, secret string, userID uint, roleName string) (string, string, error) {
	if secret == "" {
		return "", "", errors.New("JWT secret key is missing")
	}

	accessClaims := jwt.MapClaims{
		"id":    userID,
		"email": email,
		"role":  roleName,
		"type":  "access",
		"exp":   time.Now().Add(AccessTokenValidity).Unix(),
	}
	accessToken, err := signClaims(accessClaims, secret)
	if err != nil {
		return "", "", err
	}

	refreshClaims := jwt.MapClaims{
		"id":    userID,
		"email": email,
		"type":  "refresh",
		"exp":   time.Now().Add(RefreshTokenValidity).Unix(),
	}
	refreshToken, err := signClaims(refreshClaims, secret)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// GeneratePasswordResetToken creates a short-lived token embedded in the
// password-reset link mailed to the user.
func GeneratePasswordResetToken(userID uint, secret string) (string, error) {
	if secret == "" {
		return "", errors.New("JWT secret key is missing")
	}
	claims := jwt.MapClaims{
		"id":   userID,
		"type": "password_reset_token",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	return signClaims(claims, secret)
}

// ValidateAndGetClaims parses and verifies a token, returning its claims.
func ValidateAndGetClaims(tokenString string, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func signClaims(claims jwt.MapClaims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
