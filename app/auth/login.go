package auth

import (
	"net/http"

	"linx/social-api/app/respond"
	"linx/social-api/internal"
	"linx/social-api/internal/reqctx"

	"github.com/gin-gonic/gin"
)

type loginBody struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func AuthLogin(c *gin.Context, d *internal.Deps) {
	var data loginBody
	if !respond.Bind(c, &data) {
		return
	}

	res, err := d.Auth.Login(c.Request.Context(), reqctx.FromGin(c), data.Email, data.Password)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func AuthMe(c *gin.Context, d *internal.Deps) {
	user, err := d.Auth.Me(c.Request.Context(), reqctx.FromGin(c))
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
