package auth

import (
	"net/http"

	"linx/social-api/app/respond"
	"linx/social-api/internal"
	"linx/social-api/internal/reqctx"

	"github.com/gin-gonic/gin"
)

type verifyEmailBody struct {
	Code string `json:"code" binding:"required"`
}

type updateEmailBody struct {
	NewEmail string `json:"newEmail" binding:"required,email"`
}

func AuthSendVerificationEmail(c *gin.Context, d *internal.Deps) {
	var data emailBody
	if !respond.Bind(c, &data) {
		return
	}

	res, err := d.Auth.SendVerificationEmail(c.Request.Context(), reqctx.FromGin(c), data.Email)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func AuthVerifyEmail(c *gin.Context, d *internal.Deps) {
	var data verifyEmailBody
	if !respond.Bind(c, &data) {
		return
	}

	res, err := d.Auth.VerifyEmail(c.Request.Context(), reqctx.FromGin(c), data.Code)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func AuthUpdateEmail(c *gin.Context, d *internal.Deps) {
	var data updateEmailBody
	if !respond.Bind(c, &data) {
		return
	}

	res, err := d.Auth.UpdateEmail(c.Request.Context(), reqctx.FromGin(c), data.NewEmail)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
