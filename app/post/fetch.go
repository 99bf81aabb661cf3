package post

import (
	"net/http"
	"strconv"

	"linx/social-api/app/respond"
	"linx/social-api/internal"
	"linx/social-api/internal/reqctx"

	"github.com/gin-gonic/gin"
)

func PostFetch(c *gin.Context, d *internal.Deps) {
	post, err := d.Posts.Get(c.Request.Context(), reqctx.FromGin(c), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// PostFetchBulk lists every post, newest first
func PostFetchBulk(c *gin.Context, d *internal.Deps) {
	list(c, d, "")
}

func PostFetchByUser(c *gin.Context, d *internal.Deps) {
	list(c, d, c.Param("userId"))
}

func list(c *gin.Context, d *internal.Deps, userID string) {
	// Bad numbers fall back to the defaults
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	res, err := d.Posts.List(c.Request.Context(), reqctx.FromGin(c), userID, page, limit)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
