package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/estate/internal/helpers"
	"github.com/joshua-takyi/estate/internal/services"
)

const UserKey = "user"

// RequireAuth rejects requests without a valid session cookie.
func RequireAuth(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(services.SessionCookie)
		claims, err := auth.ValidateSession(token)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Set(UserKey, claims)
		c.Next()
	}
}

// OptionalAuth attaches the session when one is present and valid, and lets
// anonymous requests through otherwise.
func OptionalAuth(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(services.SessionCookie); err == nil && token != "" {
			if claims, err := auth.ValidateSession(token); err == nil {
				c.Set(UserKey, claims)
			}
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (*helpers.SessionClaims, bool) {
	v, exists := c.Get(UserKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*helpers.SessionClaims)
	return claims, ok && claims != nil
}
