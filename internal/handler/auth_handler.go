package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sortieapp/sortie/internal/service"
	"github.com/sortieapp/sortie/middleware/auth"
)

type AuthHandler struct {
	authService  service.IAuthService
	imageService service.IImageService
	logger       *zap.Logger
}

func NewAuthHandler(authService service.IAuthService, imageService service.IImageService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		imageService: imageService,
		logger:       logger,
	}
}

// Register creates an account and signs the user in. An avatar may be
// attached as the multipart "image" field.
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("registration failed", zap.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register"})
		return
	}

	if fileHeader, err := c.FormFile("image"); err == nil {
		if err := h.attachAvatar(c, resp.User.ID, fileHeader); err != nil {
			h.logger.Warn("avatar upload failed",
				zap.Uint("user_id", resp.User.ID),
				zap.String("error", err.Error()),
			)
		}
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) attachAvatar(c *gin.Context, userID uint, fileHeader *multipart.FileHeader) error {
	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = h.imageService.AddUserImage(c.Request.Context(), userID, &service.Upload{
		FileName: fileHeader.Filename,
		Reader:   file,
		Size:     fileHeader.Size,
	})
	return err
}

// Login verifies credentials and issues a fresh token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout revokes every outstanding token for the user.
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.authService.Logout(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Refresh issues a new token against the presented one. The route is
// public on purpose: the old token may already be expired, as long as
// it is still inside the refresh window.
func (h *AuthHandler) Refresh(c *gin.Context) {
	token := auth.ExtractToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
		return
	}

	resp, err := h.authService.Refresh(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
