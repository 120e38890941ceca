package utils

import (
	"errors" // Error values
	"time"   // Time for token expiration

	"bookstore/internal/domain" // Role type

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// JWT Claims
type Claims struct {
	UserID               uint        `json:"user_id"`  // Custom claim for user ID
	Username             string      `json:"username"` // Custom claim for username
	Role                 domain.Role `json:"role"`     // Custom claim for role
	jwt.RegisteredClaims             // Standard JWT claims
}

// TokenManager issues and validates HS256 bearer tokens with fixed settings
type TokenManager struct {
	secret   []byte        // Signing key
	issuer   string        // iss claim
	audience string        // aud claim
	ttl      time.Duration // Token lifetime
	now      func() time.Time
}

// NewTokenManager builds a TokenManager from immutable settings
func NewTokenManager(secret, issuer, audience string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Generate creates a JWT token for the given user
func (m *TokenManager) Generate(user domain.User) (string, error) {
	now := m.now() // Current time
	// Set token claims
	claims := Claims{
		UserID:   user.ID,       // Custom claim for user ID
		Username: user.Username, // Custom claim for username
		Role:     user.Role,     // Custom claim for role
		// Standard claims
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,                           // Token issuer
			Audience:  jwt.ClaimStrings{m.audience},       // Intended audience
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)), // Token expiry
			IssuedAt:  jwt.NewNumericDate(now),            // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString(m.secret)                        // Sign the token with the secret
}

// Parse parses and validates a JWT token string
func (m *TokenManager) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return m.secret, nil // Return the secret key for validation
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
		jwt.WithTimeFunc(m.now),
	)
	// Check for parsing errors
	if err != nil {
		return nil, err // Return error if parsing fails
	}
	// Validate token and extract claims
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	if claims.UserID == 0 || !claims.Role.Valid() {
		return nil, errors.New("token is missing identity claims")
	}
	return claims, nil
}
