package handlers

import (
	"net/http"

	"bistro-backend/storage"
	"bistro-backend/utils"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	Storage storage.Client
}

// CreateUploadURL issues a presigned PUT URL so the dashboard uploads the
// image straight to the bucket and only sends the resulting key back with
// the menu item.
func (h *UploadHandler) CreateUploadURL(c *gin.Context) {
	var req struct {
		ContentType string `json:"content_type" binding:"required"`
		Filename    string `json:"filename"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if !utils.AllowedImageContentTypes[req.ContentType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content_type must be an allowed image type"})
		return
	}

	key := storage.NewMenuObjectKey(req.Filename, req.ContentType)
	url, err := h.Storage.SignedUploadURL(key, req.ContentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create upload URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"upload_url": url,
		"key":        key,
		"public_url": h.Storage.PublicURL(key),
	})
}
