package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/campus-works/internal/dto"
	apierrors "github.com/yukikurage/campus-works/internal/errors"
	"github.com/yukikurage/campus-works/internal/services"
)

type GroupHandler struct {
	groupService *services.GroupService
}

func NewGroupHandler(groupService *services.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

// CreateGroup creates a group led by its first member
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateGroupRequest
	if !bindJSON(c, &req) {
		return
	}

	group, err := h.groupService.CreateGroup(c.Request.Context(), services.CreateGroupInput{
		ActorID:     userID,
		Name:        req.Name,
		Description: req.Description,
		MemberIDs:   req.MemberIDs,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToGroupDTO(*group))
}

// ListGroupsForUser returns the groups a user belongs to
func (h *GroupHandler) ListGroupsForUser(c *gin.Context) {
	groups, err := h.groupService.ListGroupsForUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"groups": dto.ToGroupDTOs(groups),
	})
}
