// Package reaction holds the reaction endpoints
package reaction

import (
	"net/http"

	"linx/social-api/app/respond"
	"linx/social-api/internal"
	"linx/social-api/internal/model"
	"linx/social-api/internal/reqctx"
	"linx/social-api/internal/service"

	"github.com/gin-gonic/gin"
)

type createBody struct {
	Type      model.ReactionType `json:"type" binding:"required,oneof=like love laugh angry sad"`
	PostID    *string            `json:"postId"`
	CommentID *string            `json:"commentId"`
}

func ReactionCreate(c *gin.Context, d *internal.Deps) {
	var data createBody
	if !respond.Bind(c, &data) {
		return
	}

	reaction, err := d.Reactions.Create(c.Request.Context(), reqctx.FromGin(c), service.ReactionInput{
		Type: data.Type,
		Target: service.Target{
			PostID:    data.PostID,
			CommentID: data.CommentID,
		},
	})
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, reaction)
}

func ReactionFetchForPost(c *gin.Context, d *internal.Deps) {
	fetch(c, d, service.PostTarget(c.Param("postId")))
}

func ReactionFetchForComment(c *gin.Context, d *internal.Deps) {
	fetch(c, d, service.CommentTarget(c.Param("commentId")))
}

func fetch(c *gin.Context, d *internal.Deps, t service.Target) {
	res, err := d.Reactions.List(c.Request.Context(), reqctx.FromGin(c), t)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func ReactionDelete(c *gin.Context, d *internal.Deps) {
	if err := d.Reactions.Delete(c.Request.Context(), reqctx.FromGin(c), c.Param("id")); err != nil {
		respond.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ReactionDeleteOnPost removes the caller's own reaction from a post
func ReactionDeleteOnPost(c *gin.Context, d *internal.Deps) {
	deleteMine(c, d, service.PostTarget(c.Param("postId")))
}

func ReactionDeleteOnComment(c *gin.Context, d *internal.Deps) {
	deleteMine(c, d, service.CommentTarget(c.Param("commentId")))
}

func deleteMine(c *gin.Context, d *internal.Deps, t service.Target) {
	if err := d.Reactions.DeleteMine(c.Request.Context(), reqctx.FromGin(c), t); err != nil {
		respond.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
