// Package middleware contains any custom middleware used in the app
package middleware

import (
	"linx/social-api/internal/reqctx"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const requestIDHeader = "X-Request-ID"

// NewRequestIDMiddleware returns a new middleware function that generates a request ID for
// each incoming request and sets it as requestID
func NewRequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := gonanoid.New(12)
		if err != nil {
			id = "unknown"
		}

		c.Set(reqctx.RequestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}
