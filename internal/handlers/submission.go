package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/campus-works/internal/dto"
	apierrors "github.com/yukikurage/campus-works/internal/errors"
	"github.com/yukikurage/campus-works/internal/models"
	"github.com/yukikurage/campus-works/internal/services"
)

type SubmissionHandler struct {
	submissionService *services.SubmissionService
}

func NewSubmissionHandler(submissionService *services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService}
}

// SubmitWork delivers the accepted bidder's work for a task
func (h *SubmissionHandler) SubmitWork(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitWorkRequest
	if !bindJSON(c, &req) {
		return
	}

	submission, err := h.submissionService.SubmitWork(c.Request.Context(), services.SubmitWorkInput{
		TaskID:      req.TaskID,
		SubmitterID: userID,
		Description: req.Description,
		LinkURL:     req.LinkURL,
		FileURL:     req.FileURL,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToSubmissionDTO(*submission))
}

// GetSubmissionForTask returns a task's submission to its poster or submitter
func (h *SubmissionHandler) GetSubmissionForTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	submission, err := h.submissionService.GetSubmissionForTask(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSubmissionDTO(*submission))
}

// UpdateSubmissionStatus records the poster's review of a submission
func (h *SubmissionHandler) UpdateSubmissionStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.StatusRequest
	if !bindJSON(c, &req) {
		return
	}

	status := models.SubmissionStatus(strings.ToUpper(req.Status))
	submission, err := h.submissionService.UpdateSubmissionStatus(c.Request.Context(), c.Param("id"), userID, status)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSubmissionDTO(*submission))
}
