package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/buddyboard/buddyboard/internal/database"
	"github.com/buddyboard/buddyboard/internal/handlers/dto"
	"github.com/buddyboard/buddyboard/internal/middleware"
	"github.com/buddyboard/buddyboard/internal/models"
	"github.com/buddyboard/buddyboard/pkg/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type GroupHandler struct {
	db  *database.Database
	log *zap.SugaredLogger
}

func NewGroupHandler(db *database.Database, log *zap.SugaredLogger) *GroupHandler {
	return &GroupHandler{db: db, log: log}
}

// Discover lists every group with its full member list.
func (h *GroupHandler) Discover(c *gin.Context) {
	groups, err := h.db.ListGroups()
	if err != nil {
		h.log.Errorw("list groups", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list groups"})
		return
	}

	result := make([]dto.GroupResponse, len(groups))
	for i := range groups {
		result[i] = formatGroupResponse(&groups[i])
	}

	c.JSON(http.StatusOK, gin.H{"groups": result})
}

// Create makes a new group with the caller as its first member. The group
// row and the membership row are written atomically.
func (h *GroupHandler) Create(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debugw("create group validation failed", "detail", validator.FormatValidationError(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and description are required"})
		return
	}

	group, err := h.db.CreateGroup(req.Name, req.Description, identity.UserID)
	if err != nil {
		h.log.Errorw("create group", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create group"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"group": formatGroupResponse(group)})
}

// Join adds the caller to a group. Joining a group again is reported as a
// benign message, never a duplicate row.
func (h *GroupHandler) Join(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	groupID, ok := groupIDParam(c)
	if !ok {
		return
	}

	exists, err := h.db.GroupExists(groupID)
	if err != nil {
		h.log.Errorw("check group", "group_id", groupID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to join group"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	isMember, err := h.db.IsMember(identity.UserID, groupID)
	if err != nil {
		h.log.Errorw("check membership", "group_id", groupID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to join group"})
		return
	}
	if isMember {
		c.JSON(http.StatusOK, gin.H{"message": "Already a member"})
		return
	}

	if err := h.db.AddMember(identity.UserID, groupID); err != nil {
		// Lost a race with another request from the same user; the unique
		// index kept the data right.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusOK, gin.H{"message": "Already a member"})
			return
		}
		h.log.Errorw("add member", "group_id", groupID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to join group"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Joined group successfully"})
}

func formatGroupResponse(group *models.Group) dto.GroupResponse {
	members := make([]dto.GroupMemberInfo, len(group.Members))
	for i, member := range group.Members {
		members[i] = dto.GroupMemberInfo{
			ID:        member.User.ID,
			Name:      member.User.Name,
			Email:     member.User.Email,
			UserImage: member.User.Picture,
		}
	}

	return dto.GroupResponse{
		ID:          group.ID,
		Name:        group.Name,
		Description: group.Description,
		Members:     members,
	}
}

// groupIDParam parses the :id path segment; on failure it writes the error
// response itself.
func groupIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return 0, false
	}
	return uint(id), true
}
