// Package upload holds the image upload endpoints
package upload

import (
	"net/http"

	"linx/social-api/app/respond"
	"linx/social-api/internal"
	"linx/social-api/internal/reqctx"
	"linx/social-api/internal/service"

	"github.com/gin-gonic/gin"
)

type presignBody struct {
	FileName string `json:"fileName" binding:"required,max=255"`
	FileType string `json:"fileType" binding:"required"`
	FileSize int64  `json:"fileSize" binding:"required,gt=0"`
}

type confirmBody struct {
	Key              string `json:"key" binding:"required"`
	OriginalFileName string `json:"originalFileName" binding:"required,max=255"`
	MimeType         string `json:"mimeType" binding:"required"`
	FileSize         int64  `json:"fileSize" binding:"required,gt=0"`
}

func UploadPresign(c *gin.Context, d *internal.Deps) {
	var data presignBody
	if !respond.Bind(c, &data) {
		return
	}

	res, err := d.Uploads.PresignedURL(c.Request.Context(), reqctx.FromGin(c), service.PresignInput{
		FileName: data.FileName,
		FileType: data.FileType,
		FileSize: data.FileSize,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func UploadConfirm(c *gin.Context, d *internal.Deps) {
	var data confirmBody
	if !respond.Bind(c, &data) {
		return
	}

	upload, err := d.Uploads.Confirm(c.Request.Context(), reqctx.FromGin(c), service.ConfirmInput{
		Key:              data.Key,
		OriginalFileName: data.OriginalFileName,
		MimeType:         data.MimeType,
		FileSize:         data.FileSize,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, upload)
}

func UploadFetchMine(c *gin.Context, d *internal.Deps) {
	res, err := d.Uploads.Mine(c.Request.Context(), reqctx.FromGin(c))
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func UploadDelete(c *gin.Context, d *internal.Deps) {
	res, err := d.Uploads.Delete(c.Request.Context(), reqctx.FromGin(c), c.Param("uploadId"))
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
