package auth

import (
	"net/http"

	"linx/social-api/app/respond"
	"linx/social-api/internal"
	"linx/social-api/internal/reqctx"
	"linx/social-api/pkg/validators"

	"github.com/gin-gonic/gin"
)

type emailBody struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordBody struct {
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

type updatePasswordBody struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

func AuthForgotPassword(c *gin.Context, d *internal.Deps) {
	var data emailBody
	if !respond.Bind(c, &data) {
		return
	}

	res, err := d.Auth.ForgotPassword(c.Request.Context(), reqctx.FromGin(c), data.Email)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func AuthResetPassword(c *gin.Context, d *internal.Deps) {
	var data resetPasswordBody
	if !respond.Bind(c, &data) {
		return
	}

	if err := validators.PasswordValidator(data.NewPassword, d.Config.Security.PasswordMinLength); err != nil {
		respond.Invalid(c, err)
		return
	}

	res, err := d.Auth.ResetPassword(c.Request.Context(), reqctx.FromGin(c), data.Code, data.NewPassword)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func AuthUpdatePassword(c *gin.Context, d *internal.Deps) {
	var data updatePasswordBody
	if !respond.Bind(c, &data) {
		return
	}

	if err := validators.PasswordValidator(data.NewPassword, d.Config.Security.PasswordMinLength); err != nil {
		respond.Invalid(c, err)
		return
	}

	res, err := d.Auth.UpdatePassword(c.Request.Context(), reqctx.FromGin(c), data.CurrentPassword, data.NewPassword)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
