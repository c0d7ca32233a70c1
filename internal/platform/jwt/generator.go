package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired is returned by VerifyToken when the token's expiry has passed.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid is returned by VerifyToken for every other failure:
	// tampered signature, wrong signing algorithm, malformed token, missing claims.
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims is the identity data embedded in a token.
type Claims struct {
	// UserID is the subject of the token.
	UserID uint

	// Name is the user's display name at issue time.
	Name string

	// Email is the user's email address at issue time.
	Email string
}

// Generator defines the interface for token generation and verification.
type Generator interface {
	// GenerateToken creates a signed JWT token for the given user.
	GenerateToken(userID uint, name, email string) (string, error)

	// VerifyToken checks the token's signature and expiry and returns its claims.
	VerifyToken(tokenStr string) (*Claims, error)
}

// generator implements the Generator interface.
type generator struct {
	secret     []byte
	expiration time.Duration
}

// NewGenerator creates a new JWT generator with the provided secret and expiration duration.
// An empty secret is a configuration error; callers are expected to treat it as
// fatal at startup rather than continue with an unsigned token service.
func NewGenerator(secret string, expiration time.Duration) (Generator, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is not configured")
	}
	return &generator{
		secret:     []byte(secret),
		expiration: expiration,
	}, nil
}

// GenerateToken creates a signed JWT token with standard claims.
func (g *generator) GenerateToken(userID uint, name, email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"name":  name,
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(g.expiration).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// VerifyToken parses and verifies a signed token.
// Expired tokens yield ErrTokenExpired; all other failures yield ErrTokenInvalid,
// so callers can report the two cases with distinct messages.
func (g *generator) VerifyToken(tokenStr string) (*Claims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// Check signing algorithm (only HMAC allowed)
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return g.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}

	sub, ok := mapClaims["sub"].(float64) // JWT numbers are decoded as float64
	if !ok {
		return nil, ErrTokenInvalid
	}

	claims := &Claims{UserID: uint(sub)}
	if name, ok := mapClaims["name"].(string); ok {
		claims.Name = name
	}
	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}

	return claims, nil
}
