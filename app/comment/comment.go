// Package comment holds the comment endpoints
package comment

import (
	"net/http"

	"linx/social-api/app/respond"
	"linx/social-api/internal"
	"linx/social-api/internal/reqctx"
	"linx/social-api/internal/service"

	"github.com/gin-gonic/gin"
)

type createBody struct {
	Content   string  `json:"content" binding:"required,max=2000"`
	PostID    *string `json:"postId"`
	CommentID *string `json:"commentId"`
}

func CommentCreate(c *gin.Context, d *internal.Deps) {
	var data createBody
	if !respond.Bind(c, &data) {
		return
	}

	comment, err := d.Comments.Create(c.Request.Context(), reqctx.FromGin(c), service.CommentInput{
		Content: data.Content,
		Target: service.Target{
			PostID:    data.PostID,
			CommentID: data.CommentID,
		},
	})
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func CommentFetch(c *gin.Context, d *internal.Deps) {
	comment, err := d.Comments.Get(c.Request.Context(), reqctx.FromGin(c), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

func CommentFetchForPost(c *gin.Context, d *internal.Deps) {
	res, err := d.Comments.ForPost(c.Request.Context(), reqctx.FromGin(c), c.Param("postId"))
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func CommentFetchReplies(c *gin.Context, d *internal.Deps) {
	res, err := d.Comments.Replies(c.Request.Context(), reqctx.FromGin(c), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func CommentDelete(c *gin.Context, d *internal.Deps) {
	if err := d.Comments.Delete(c.Request.Context(), reqctx.FromGin(c), c.Param("id")); err != nil {
		respond.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
