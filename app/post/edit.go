package post

import (
	"net/http"

	"linx/social-api/app/respond"
	"linx/social-api/internal"
	"linx/social-api/internal/reqctx"

	"github.com/gin-gonic/gin"
)

type editBody struct {
	Content *string `json:"content" binding:"omitempty,min=1,max=5000"`
}

func PostEdit(c *gin.Context, d *internal.Deps) {
	var data editBody
	if !respond.Bind(c, &data) {
		return
	}

	post, err := d.Posts.Update(c.Request.Context(), reqctx.FromGin(c), c.Param("id"), data.Content)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func PostDelete(c *gin.Context, d *internal.Deps) {
	if err := d.Posts.Delete(c.Request.Context(), reqctx.FromGin(c), c.Param("id")); err != nil {
		respond.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
