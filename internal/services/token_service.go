package services

import (
	"fmt"
	"time"

	"rental/internal/apperr"

	"github.com/dgrijalva/jwt-go"
)

// Claims is the identity carried by a session token.
type Claims struct {
	UserID string
	Email  string
}

// TokenService issues and verifies HS256 session tokens.
type TokenService struct {
	jwtSecret []byte
	ttl       time.Duration // zero means tokens carry no exp claim
}

// NewTokenService creates a TokenService signing with secret.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		jwtSecret: []byte(secret),
		ttl:       ttl,
	}
}

// TTL is the lifetime given to issued tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for claims.
func (s *TokenService) Issue(claims Claims) (string, error) {
	now := time.Now()
	mapClaims := jwt.MapClaims{
		"id":    claims.UserID,
		"email": claims.Email,
		"iat":   now.Unix(),
	}
	if s.ttl != 0 {
		mapClaims["exp"] = now.Add(s.ttl).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// Verify parses tokenString and returns its claims. Every failure matches
// apperr.ErrUnauthorized.
func (s *TokenService) Verify(tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: invalid token: %v", apperr.ErrUnauthorized, err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Claims{}, fmt.Errorf("%w: invalid token", apperr.ErrUnauthorized)
	}

	userID, _ := mapClaims["id"].(string)
	if userID == "" {
		return Claims{}, fmt.Errorf("%w: token has no subject", apperr.ErrUnauthorized)
	}
	email, _ := mapClaims["email"].(string)
	return Claims{UserID: userID, Email: email}, nil
}
