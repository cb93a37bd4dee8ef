package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/campus-works/internal/dto"
	apierrors "github.com/yukikurage/campus-works/internal/errors"
	"github.com/yukikurage/campus-works/internal/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetUser returns a profile. Contact and payout details are only shown to
// their owner.
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	if user.ID == userID {
		c.JSON(http.StatusOK, dto.ToProfileDTO(*user))
		return
	}
	c.JSON(http.StatusOK, dto.ToPublicProfileDTO(*user))
}

// UpdateProfile changes the signed-in user's profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, c.Param("id"), services.UpdateProfileInput{
		Name:          req.Name,
		Email:         req.Email,
		Department:    req.Department,
		Year:          req.Year,
		Skills:        req.Skills,
		Bio:           req.Bio,
		Phone:         req.Phone,
		Portfolio:     req.Portfolio,
		PayoutAddress: req.PayoutAddress,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProfileDTO(*user))
}
