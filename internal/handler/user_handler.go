package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sortieapp/sortie/internal/service"
)

type UserHandler struct {
	userService  service.IUserService
	imageService service.IImageService
}

func NewUserHandler(userService service.IUserService, imageService service.IImageService) *UserHandler {
	return &UserHandler{
		userService:  userService,
		imageService: imageService,
	}
}

// Me returns the authenticated user's profile.
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Get returns another user's public profile.
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Groups lists the groups the authenticated user belongs to.
func (h *UserHandler) Groups(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	groups, err := h.userService.Groups(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, groups)
}

// Events lists the events the authenticated user participates in.
func (h *UserHandler) Events(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	events, err := h.userService.Events(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

// Images lists the authenticated user's images.
func (h *UserHandler) Images(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	images, err := h.userService.Images(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, images)
}

// AddImage uploads a new image for the authenticated user.
func (h *UserHandler) AddImage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	up, ok := bindUpload(c)
	if !ok {
		return
	}
	defer up.close()

	image, err := h.imageService.AddUserImage(c.Request.Context(), userID, up.Upload)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, image)
}

// Update changes the authenticated user's profile fields.
func (h *UserHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Update(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Delete removes the authenticated user's account.
func (h *UserHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}
