package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sortieapp/sortie/internal/service"
)

type ImageHandler struct {
	imageService service.IImageService
}

func NewImageHandler(imageService service.IImageService) *ImageHandler {
	return &ImageHandler{imageService: imageService}
}

// Delete removes an image, uploader only.
func (h *ImageHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	imageID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.imageService.Delete(c.Request.Context(), userID, imageID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "image deleted"})
}
