package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/signalpanel/auth-service/internal/models"
)

// TokenGenerator handles JWT access token generation and validation.
// The signing secret and token lifetime are fixed at construction and
// never change for the process lifetime.
type TokenGenerator struct {
	secret      string
	tokenExpiry time.Duration
}

// NewTokenGenerator creates a new token generator
func NewTokenGenerator(secret string, tokenExpiry time.Duration) *TokenGenerator {
	return &TokenGenerator{
		secret:      secret,
		tokenExpiry: tokenExpiry,
	}
}

// GenerateToken creates an access token carrying account and role
func (tg *TokenGenerator) GenerateToken(account string, role models.Role) (string, error) {
	claims := jwt.MapClaims{
		"account": account,
		"role":    int(role),
		"exp":     time.Now().Add(tg.tokenExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(tg.secret))
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrTokenCreation, err)
	}

	return tokenString, nil
}

// ValidateToken validates an access token and returns the account and role.
// Malformed tokens, bad signatures and expired tokens all surface as
// ErrInvalidToken; callers cannot tell the cases apart.
func (tg *TokenGenerator) ValidateToken(tokenString string) (string, models.Role, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tg.secret), nil
	})

	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", models.ErrInvalidToken, err)
	}

	if !token.Valid {
		return "", 0, models.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", 0, models.ErrInvalidToken
	}

	account, ok := claims["account"].(string)
	if !ok || account == "" {
		return "", 0, fmt.Errorf("%w: account claim missing", models.ErrInvalidToken)
	}

	// JWT claims decode numbers as float64
	role, ok := claims["role"].(float64)
	if !ok {
		return "", 0, fmt.Errorf("%w: role claim missing", models.ErrInvalidToken)
	}

	return account, models.Role(role), nil
}
