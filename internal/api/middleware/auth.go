package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fairhold/marketplace/internal/auth"
	"fairhold/marketplace/internal/models"
	"fairhold/marketplace/internal/services"
)

const (
	// ContextKeyPrincipal holds the authenticated caller in the Gin context.
	ContextKeyPrincipal = "principal"
)

// AuthMiddleware creates a Gin middleware for JWT authentication. Requests
// without a valid token are rejected.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := principalFromHeader(c, jwtSecret)
		if err != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": err})
			return
		}
		c.Set(ContextKeyPrincipal, principal)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves the caller's identity when a token is
// present but lets anonymous requests through. Handlers that need a user
// surface their own authentication errors, which keeps the wording of
// those errors in one place.
func OptionalAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			principal, errMsg := principalFromHeader(c, jwtSecret)
			if errMsg != "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": errMsg})
				return
			}
			c.Set(ContextKeyPrincipal, principal)
		}
		c.Next()
	}
}

// RequireModerator rejects callers whose role cannot moderate.
// Assumes AuthMiddleware runs first.
func RequireModerator() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := GetPrincipal(c)
		if principal == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication required"})
			return
		}
		if !principal.Role.CanModerate() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "moderator privileges required"})
			return
		}
		c.Next()
	}
}

// GetPrincipal returns the authenticated caller, or nil for anonymous
// requests.
func GetPrincipal(c *gin.Context) *services.Principal {
	v, exists := c.Get(ContextKeyPrincipal)
	if !exists {
		return nil
	}
	principal, ok := v.(*services.Principal)
	if !ok {
		return nil
	}
	return principal
}

func principalFromHeader(c *gin.Context, jwtSecret string) (*services.Principal, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, "Authorization header required"
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, "Authorization header format must be Bearer {token}"
	}

	claims, err := auth.ValidateJWT(parts[1], jwtSecret)
	if err != nil {
		return nil, "Invalid or expired token"
	}

	return &services.Principal{
		UserID: claims.UserID,
		Role:   models.Role(claims.Role),
	}, ""
}
