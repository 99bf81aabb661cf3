package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"linx/social-api/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		code int
		msg  string
	}{
		{apperr.NewBadRequest("bad"), http.StatusBadRequest, "bad"},
		{apperr.NewUnauthorized("who"), http.StatusUnauthorized, "who"},
		{apperr.NewForbidden("no"), http.StatusForbidden, "no"},
		{apperr.NewNotFound("gone"), http.StatusNotFound, "gone"},
		{apperr.NewConflict("taken"), http.StatusConflict, "taken"},
		{apperr.Wrap(errors.New("db down"), "query"), http.StatusInternalServerError, "Internal server error"},
		{errors.New("untagged"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("requestID", "r1")

		Error(c, tt.err)

		assert.Equal(t, tt.code, w.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, tt.msg, body["error"])
		assert.Equal(t, "r1", body["requestID"])
	}
}

type signupBody struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func TestBind(t *testing.T) {
	tests := []struct {
		body string
		msg  string
	}{
		{`{`, "Invalid request body"},
		{`{"email":"a@x.com","password":"secret123"}`, "name is required"},
		{`{"name":"Ana","email":"nope","password":"secret123"}`, "Invalid email address"},
		{`{"name":"Ana","email":"a@x.com","password":"abc"}`, "password must be at least 6 characters"},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
		c.Request.Header.Set("Content-Type", "application/json")

		var b signupBody
		assert.False(t, Bind(c, &b))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), tt.msg)
	}
}
