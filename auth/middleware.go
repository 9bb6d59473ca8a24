package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// StudentIDKey is the gin context key the middleware stores the
// authenticated student id under.
const StudentIDKey = "studentID"

// RequireAuth guards mobile endpoints with a Bearer token check.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		claims, err := ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(StudentIDKey, claims.StudentID)
		c.Next()
	}
}
