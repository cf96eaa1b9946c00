package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	utils "userhub-backend/shared/utils/auth"
)

// AuthMiddleware validates the bearer token and stores the authenticated
// user id in the context. The token subject is normalized to an integer
// here so handlers never compare a string subject against integer ids.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format. Expected Bearer {token}"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(tokenParts[1], jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		userID, err := claims.SubjectUserID()
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID in token"})
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Set("userEmail", claims.Email)

		c.Next()
	}
}

// UserID returns the authenticated user id set by AuthMiddleware
func UserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get("userID")
	if !exists {
		return 0, false
	}
	userID, ok := value.(uint)
	return userID, ok
}
