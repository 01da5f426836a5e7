package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Authenticate attaches the bearer token's session to the request context.
// Requests without a token pass through anonymously; a bad token is rejected.
func Authenticate(m *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		s, err := m.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired session"})
			return
		}
		c.Request = c.Request.WithContext(WithSession(c.Request.Context(), s))
		c.Next()
	}
}

// RequireStore admits store sessions. Admins pass too when they name the
// store with ?storeId=.
func RequireStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := FromContext(c.Request.Context())
		switch {
		case s == nil:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "login required"})
			return
		case s.IsAdmin():
			storeID := c.Query("storeId")
			if storeID == "" {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "storeId is required for admin requests"})
				return
			}
			scoped := &Session{StoreID: storeID, Role: RoleAdmin, ExpiresAt: s.ExpiresAt}
			c.Request = c.Request.WithContext(WithSession(c.Request.Context(), scoped))
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := FromContext(c.Request.Context())
		if s == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "login required"})
			return
		}
		if !s.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "admin only"})
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	// EventSource cannot set headers.
	return c.Query("access_token")
}
