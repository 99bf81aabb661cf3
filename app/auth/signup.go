// Package auth holds the account endpoints
package auth

import (
	"net/http"

	"linx/social-api/app/respond"
	"linx/social-api/internal"
	"linx/social-api/internal/reqctx"
	"linx/social-api/internal/service"
	"linx/social-api/pkg/validators"

	"github.com/gin-gonic/gin"
)

type signupBody struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func AuthSignup(c *gin.Context, d *internal.Deps) {
	var data signupBody
	if !respond.Bind(c, &data) {
		return
	}

	if err := validators.PasswordValidator(data.Password, d.Config.Security.PasswordMinLength); err != nil {
		respond.Invalid(c, err)
		return
	}

	res, err := d.Auth.Signup(c.Request.Context(), reqctx.FromGin(c), service.SignupInput{
		Name:     data.Name,
		Email:    data.Email,
		Password: data.Password,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}
