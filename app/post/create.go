// Package post holds the post endpoints
package post

import (
	"net/http"

	"linx/social-api/app/respond"
	"linx/social-api/internal"
	"linx/social-api/internal/reqctx"
	"linx/social-api/internal/service"

	"github.com/gin-gonic/gin"
)

type createBody struct {
	Content  string  `json:"content" binding:"required,max=5000"`
	UploadID *string `json:"uploadId"`
}

func PostCreate(c *gin.Context, d *internal.Deps) {
	var data createBody
	if !respond.Bind(c, &data) {
		return
	}

	post, err := d.Posts.Create(c.Request.Context(), reqctx.FromGin(c), service.PostInput{
		Content:  data.Content,
		UploadID: data.UploadID,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}
