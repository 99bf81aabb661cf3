// Package respond writes the JSON responses shared by every handler
package respond

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"unicode"

	"linx/social-api/internal/apperr"
	"linx/social-api/internal/reqctx"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

func init() {
	// Report JSON field names in validation errors
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" || name == "" {
				return f.Name
			}

			return name
		})
	}
}

// Status maps an error kind to its HTTP status
func Status(k apperr.Kind) int {
	switch k {
	case apperr.BadRequest:
		return http.StatusBadRequest
	case apperr.Unauthorized:
		return http.StatusUnauthorized
	case apperr.Forbidden:
		return http.StatusForbidden
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error aborts the request with the status matching err's kind. Internal
// errors are logged and their details never reach the client.
func Error(c *gin.Context, err error) {
	requestID := c.GetString(reqctx.RequestIDKey)
	kind := apperr.KindOf(err)

	if kind == apperr.Internal {
		zap.L().Error("Request failed",
			zap.String("requestID", requestID),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	} else {
		zap.L().Debug("Request rejected",
			zap.String("requestID", requestID),
			zap.String("kind", kind.String()),
			zap.Error(err),
		)
	}

	c.AbortWithStatusJSON(Status(kind), gin.H{
		"error":     apperr.Message(err),
		"requestID": requestID,
	})
}

// Invalid rejects the request with a 400 built from a validation error
func Invalid(c *gin.Context, err error) {
	Error(c, apperr.NewBadRequest(capitalize(err.Error())))
}

// Bind decodes the JSON body into obj and validates it. On failure the
// request is already answered and false is returned.
func Bind(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		Error(c, apperr.NewBadRequest(bindMessage(err)))
		return false
	}

	return true
}

func bindMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "Invalid request body"
	}

	fe := ve[0]

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Invalid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
		}

		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
		}

		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be positive", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}

	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
