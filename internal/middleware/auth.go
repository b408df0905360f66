package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/taskdeck/taskdeck-api/internal/auth"
	"github.com/taskdeck/taskdeck-api/internal/constants"
	apierrors "github.com/taskdeck/taskdeck-api/internal/errors"
)

// RequireAuth verifies the session cookie and attaches the user identity to
// the request context. CORS preflight requests pass through untouched; no
// handler returns data on those.
func RequireAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		tokenString, err := c.Cookie(constants.SessionCookieName)
		if err != nil || tokenString == "" {
			apierrors.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(tokenString, secret)
		if err != nil {
			// Expired and tampered tokens get the same response; the
			// distinction is only logged.
			if errors.Is(err, jwt.ErrTokenExpired) {
				log.Printf("auth: expired session token: %v", err)
			} else {
				log.Printf("auth: invalid session token: %v", err)
			}
			apierrors.Unauthorized(c, "Invalid or expired session")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, claims.UserID)
		c.Set(constants.ContextKeyUserEmail, claims.Email)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
