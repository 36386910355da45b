package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/ougirez/keuda/internal/pkg/constants"
	"github.com/spf13/viper"
)

const AdminSubject = "admin"

type AuthTokenWrapper struct {
	Subject   string
	ExpiresAt time.Time
}

type authClaims struct {
	jwt.StandardClaims
}

func secretKey() ([]byte, error) {
	secret := viper.GetString(constants.ViperSecretKey)
	if secret == "" {
		return nil, fmt.Errorf("%w: admin secret is not configured", constants.ErrUnauthorized)
	}
	return []byte(secret), nil
}

// GenerateAuthToken signs a token with the configured admin secret. A zero ExpiresAt
// issues a token that does not expire.
func GenerateAuthToken(w *AuthTokenWrapper) (string, error) {
	key, err := secretKey()
	if err != nil {
		return "", err
	}

	claims := authClaims{StandardClaims: jwt.StandardClaims{
		Subject:  w.Subject,
		IssuedAt: time.Now().Unix(),
	}}
	if !w.ExpiresAt.IsZero() {
		claims.ExpiresAt = w.ExpiresAt.Unix()
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("SignedString: %w", err)
	}
	return token, nil
}

func ParseAuthToken(tokenString string) (*AuthTokenWrapper, error) {
	key, err := secretKey()
	if err != nil {
		return nil, err
	}

	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return key, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", constants.ErrUnauthorized, err)
	}

	w := &AuthTokenWrapper{Subject: claims.Subject}
	if claims.ExpiresAt != 0 {
		w.ExpiresAt = time.Unix(claims.ExpiresAt, 0)
	}
	return w, nil
}
