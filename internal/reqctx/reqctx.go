// Package reqctx carries the per-request identity through the service layer
package reqctx

import (
	"github.com/gin-gonic/gin"
)

// Keys set on the gin context by the middleware
const (
	RequestIDKey = "requestID"
	UserIDKey    = "userID"
)

// RequestContext is built once per request and never modified afterwards.
// UserID is empty when no valid bearer token was supplied.
type RequestContext struct {
	RequestID string
	UserID    string
}

func New(requestID, userID string) RequestContext {
	return RequestContext{RequestID: requestID, UserID: userID}
}

// FromGin builds the request context from the values the middleware left
// on c.
func FromGin(c *gin.Context) RequestContext {
	return RequestContext{
		RequestID: c.GetString(RequestIDKey),
		UserID:    c.GetString(UserIDKey),
	}
}

func (r RequestContext) HasUser() bool {
	return r.UserID != ""
}
