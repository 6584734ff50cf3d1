package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sortieapp/sortie/internal/service"
	"github.com/sortieapp/sortie/middleware/auth"
)

// respondError maps service error categories onto HTTP status codes.
// Anything outside the known categories is reported as a 500 without
// leaking the underlying error.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrTokenNotRefreshable):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// currentUserID reads the authenticated user set by the auth
// middleware. Routes reaching a handler without it are a wiring bug,
// answered with a 401 rather than a panic.
func currentUserID(c *gin.Context) (uint, bool) {
	id, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return 0, false
	}
	return id, true
}

// pathID parses a numeric path parameter, answering 400 on garbage.
func pathID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

type boundUpload struct {
	*service.Upload
	file multipart.File
}

func (u *boundUpload) close() {
	if u.file != nil {
		u.file.Close()
	}
}

// bindUpload reads the multipart "image" field, answering 422 when it
// is missing or unreadable.
func bindUpload(c *gin.Context) (*boundUpload, bool) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "image file is required"})
		return nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "failed to read image file"})
		return nil, false
	}

	return &boundUpload{
		Upload: &service.Upload{
			FileName: fileHeader.Filename,
			Reader:   file,
			Size:     fileHeader.Size,
		},
		file: file,
	}, true
}
