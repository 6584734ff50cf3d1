package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sortieapp/sortie/internal/service"
)

type GroupHandler struct {
	groupService      service.IGroupService
	membershipService service.IMembershipService
	imageService      service.IImageService
}

func NewGroupHandler(
	groupService service.IGroupService,
	membershipService service.IMembershipService,
	imageService service.IImageService,
) *GroupHandler {
	return &GroupHandler{
		groupService:      groupService,
		membershipService: membershipService,
		imageService:      imageService,
	}
}

// Create makes a new group with the caller as its creator.
func (h *GroupHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req service.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	group, err := h.groupService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, group)
}

// Get returns a group visible to the caller.
func (h *GroupHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}

	group, err := h.groupService.Get(c.Request.Context(), userID, groupID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, group)
}

// Events lists the group's events.
func (h *GroupHandler) Events(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}

	events, err := h.groupService.Events(c.Request.Context(), userID, groupID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

// Images lists the group's images.
func (h *GroupHandler) Images(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}

	images, err := h.groupService.Images(c.Request.Context(), userID, groupID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, images)
}

// AddImage uploads an image into the group.
func (h *GroupHandler) AddImage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}

	up, ok := bindUpload(c)
	if !ok {
		return
	}
	defer up.close()

	image, err := h.imageService.AddGroupImage(c.Request.Context(), userID, groupID, up.Upload)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, image)
}

// Members lists the group's approved members.
func (h *GroupHandler) Members(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}

	members, err := h.membershipService.GroupMembers(c.Request.Context(), groupID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, members)
}

// Join records the caller's request to join the group.
func (h *GroupHandler) Join(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}

	membership, err := h.membershipService.RequestToJoin(c.Request.Context(), groupID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, membership)
}

// Invite lets the group creator invite another user.
func (h *GroupHandler) Invite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		UserID uint `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	membership, err := h.membershipService.Invite(c.Request.Context(), groupID, userID, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, membership)
}

// UpdateMembershipStatus lets an invited user answer their invitation.
func (h *GroupHandler) UpdateMembershipStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req service.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	membership, err := h.membershipService.UpdateStatus(c.Request.Context(), groupID, userID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	if membership == nil {
		c.JSON(http.StatusOK, gin.H{"message": "invitation rejected"})
		return
	}

	c.JSON(http.StatusOK, membership)
}

// Leave removes the caller from the group.
func (h *GroupHandler) Leave(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.membershipService.Leave(c.Request.Context(), groupID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "left group"})
}

// Update renames a group, creator only.
func (h *GroupHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req service.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	group, err := h.groupService.Update(c.Request.Context(), userID, groupID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, group)
}

// Delete removes a group, creator only.
func (h *GroupHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.groupService.Delete(c.Request.Context(), userID, groupID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "group deleted"})
}
