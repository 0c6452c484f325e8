package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/farmwise/farmwise/internal/pkg/jwt"
)

const ContextUserIDKey = "user_id"

// JWTAuth gates the prediction and history routes. The three failure modes
// produce distinct 401 bodies: missing/malformed header, bad token, expired
// token.
func JWTAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "Missing or invalid JWT", "missing authorization header")
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, "Missing or invalid JWT", "authorization header must be a bearer token")
			return
		}
		claims, err := jwt.ParseToken(parts[1], secret)
		if err != nil {
			if errors.Is(err, jwt.ErrExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "JWT token expired"})
				return
			}
			abortInvalid(c, err.Error())
			return
		}
		c.Set(ContextUserIDKey, claims.UserID)
		if claims.Email != "" {
			c.Set("user_email", claims.Email)
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, errMsg, detail string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errMsg, "message": detail})
}

func abortInvalid(c *gin.Context, detail string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid JWT token", "message": detail})
}
