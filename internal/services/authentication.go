package services

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

type AuthClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Authentication validates the opaque user id handed over by the
// external identity provider as an HS256 bearer token.
type Authentication struct {
	secret string
}

func NewAuthentication(secret string) (*Authentication, error) {
	if secret == "" {
		return nil, errors.New("empty JWT secret")
	}

	return &Authentication{secret}, nil
}

func (authentication *Authentication) CreateToken(userID string) (string, error) {
	claims := AuthClaims{UserID: userID}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(authentication.secret))
}

func (authentication *Authentication) Validate(token string) (string, error) {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		return []byte(authentication.secret), nil
	}

	jwtToken, err := jwt.ParseWithClaims(token, &AuthClaims{}, keyFunc)
	if err != nil {
		return "", err
	}

	claims, ok := jwtToken.Claims.(*AuthClaims)
	if !ok || claims.UserID == "" {
		return "", errors.New("invalid token claims")
	}

	return claims.UserID, nil
}
