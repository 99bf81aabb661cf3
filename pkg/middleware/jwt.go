package middleware

import (
	"net/http"
	"strings"

	"linx/social-api/internal/reqctx"
	"linx/social-api/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TokenValidator interface {
	Validate(tokenStr string) (*security.Claims, error)
}

// NewIdentityMiddleware resolves the caller from an "Authorization: Bearer"
// header. Requests without a valid token continue anonymously, routes that
// need a user add RequireAuth.
func NewIdentityMiddleware(v TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearer(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}

		claims, err := v.Validate(tokenStr)
		if err != nil {
			zap.L().Debug("Ignoring invalid bearer token",
				zap.String("requestID", c.GetString(reqctx.RequestIDKey)),
				zap.Error(err),
			)
			c.Next()
			return
		}

		c.Set(reqctx.UserIDKey, claims.Subject)
		c.Next()
	}
}

// RequireAuth rejects requests that NewIdentityMiddleware couldn't resolve
// to a user
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(reqctx.UserIDKey) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Invalid or missing token",
				"requestID": c.GetString(reqctx.RequestIDKey),
			})
			return
		}

		c.Next()
	}
}

func bearer(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}
