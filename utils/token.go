package utils

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ErrInvalidServiceToken is returned when a presented token fails
// signature or claim validation.
var ErrInvalidServiceToken = errors.New("invalid service token")

func serviceSecret() (string, error) {
	secret := os.Getenv("SERVICE_JWT_SECRET")
	if secret == "" {
		return "", errors.New("SERVICE_JWT_SECRET is not set")
	}
	return secret, nil
}

// GenerateServiceToken creates the bearer token the bot presents on admin
// API calls. HS256 with a shared secret; the subject identifies the caller
// as a service, not an end user.
func GenerateServiceToken() (string, error) {
	secret, err := serviceSecret()
	if err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "svc",
		"exp": time.Now().Add(time.Hour * 24 * 7).Unix(),
	})

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateServiceToken checks signature, expiry and the service subject.
func ValidateServiceToken(tokenString string) error {
	secret, err := serviceSecret()
	if err != nil {
		return err
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidServiceToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return ErrInvalidServiceToken
	}
	if sub, _ := claims["sub"].(string); sub != "svc" {
		return ErrInvalidServiceToken
	}
	return nil
}
