package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/researchhub/core/internal/pkg/jwt"
	"github.com/researchhub/core/internal/pkg/response"
)

const ContextKeyUserID = "user_id"

// Auth returns a middleware that enforces bearer-token authentication.
// Tokens are minted by the external auth provider and verified here
// against the shared secret.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := validateToken(extractToken(c))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		c.Set(ContextKeyUserID, claims.UserID)
		c.Next()
	}
}

// OptionalAuth sets the user ID if a valid token is present, but does not
// block the request.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := validateToken(extractToken(c)); err == nil && claims.UserID != "" {
			c.Set(ContextKeyUserID, claims.UserID)
		}
		c.Next()
	}
}

func validateToken(rawToken string) (*jwt.Claims, error) {
	token := NormalizeToken(rawToken)
	if token == "" {
		return nil, errors.New("token is required")
	}
	return jwt.Parse(token)
}

// CurrentUserID extracts the authenticated user ID from context.
func CurrentUserID(c *gin.Context) string {
	v, _ := c.Get(ContextKeyUserID)
	id, _ := v.(string)
	return id
}

// IsAuthenticated returns true if the request has a valid auth token.
func IsAuthenticated(c *gin.Context) bool {
	return CurrentUserID(c) != ""
}

func extractToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if auth != "" {
		return NormalizeToken(auth)
	}
	return NormalizeToken(c.Query("token"))
}

// NormalizeToken trims spaces and strips the optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
