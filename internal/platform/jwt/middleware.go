package jwtmw

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"auth_backend/internal/feature/auth/domain/entity"
	"auth_backend/internal/feature/auth/usecase"
)

// CookieName is the name of the cookie carrying the bearer token.
const CookieName = "token"

// ContextUserKey is the gin context key under which the authenticated user is stored.
const ContextUserKey = "currentUser"

// TokenVerifier verifies a bearer token and returns its claims.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*Claims, error)
}

// UserResolver resolves a token's subject claim to a user record.
type UserResolver interface {
	FindByID(ctx context.Context, id uint) (*entity.User, error)
}

// AuthRequired returns a Gin middleware function that validates the token
// cookie and restricts access to authenticated users only.
// The resolved user is attached to the request context under ContextUserKey;
// no ambient state is consulted beyond the injected verifier and resolver.
func AuthRequired(verifier TokenVerifier, users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get token from the cookie
		tokenStr, err := c.Cookie(CookieName)
		if err != nil || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token provided"})
			return
		}

		// 2. Verify signature and expiry
		claims, err := verifier.VerifyToken(tokenStr)
		if err != nil {
			switch {
			case errors.Is(err, ErrTokenExpired):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, token expired"})
			case errors.Is(err, ErrTokenInvalid):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, invalid token"})
			default:
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Authorization failed"})
			}
			return
		}

		// 3. Resolve the subject claim to a user record
		user, err := users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, usecase.ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "No user found with this ID"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Authorization failed"})
			return
		}

		// 4. Attach the user and pass control to the next handler
		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user attached to the context by AuthRequired.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*entity.User)
	return user, ok
}
