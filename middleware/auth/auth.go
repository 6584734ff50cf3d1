package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sortieapp/sortie/internal/storage"
	"github.com/sortieapp/sortie/middleware/jwt"
)

const (
	ContextUserID = "user_id"
	ContextClaims = "claims"
)

// Middleware validates the bearer token and checks its version against
// the store, so a logout or a fresh login kills older tokens.
func Middleware(tm *jwt.TokenManager, tokens *storage.TokenStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ExtractToken(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "authorization header required",
			})
			c.Abort()
			return
		}

		claims, err := tm.ParseToken(tokenString)
		if err != nil {
			logger.Warn("token validation failed",
				zap.String("error", err.Error()),
				zap.String("ip", c.ClientIP()),
			)

			var message string
			switch err {
			case jwt.ErrExpiredToken:
				message = "token has expired"
			case jwt.ErrTokenNotYetValid:
				message = "token not yet valid"
			default:
				message = "invalid token"
			}

			c.JSON(http.StatusUnauthorized, gin.H{
				"error": message,
			})
			c.Abort()
			return
		}

		version, err := tokens.Version(c.Request.Context(), claims.UserID)
		if err != nil {
			logger.Error("token version lookup failed",
				zap.Uint("user_id", claims.UserID),
				zap.String("error", err.Error()),
			)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "internal server error",
			})
			c.Abort()
			return
		}
		if version != claims.TokenVersion {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "token has been revoked",
			})
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextClaims, claims)

		c.Next()
	}
}

// UserID reads the authenticated user from the gin context. It only
// returns false on routes that skipped the middleware.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// Claims reads the parsed token claims from the gin context.
func Claims(c *gin.Context) (*jwt.Claims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	return claims, ok
}

// ExtractToken pulls the raw bearer token from the Authorization
// header, falling back to the token query parameter. The refresh
// handler reuses it outside the middleware because an expired token
// must still reach the service there.
func ExtractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	return c.Query("token")
}
