package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// POST /api/admin/uploads (multipart field "image")
func UploadImage(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "missing_image", "multipart field \"image\" is required", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_image", "could not read image upload", nil)
		return
	}
	defer f.Close()

	stored, err := storageService(c).Upload(fh.Filename, f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, stored)
}
