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

type ProposalHandler struct {
	proposalService *services.ProposalService
}

func NewProposalHandler(proposalService *services.ProposalService) *ProposalHandler {
	return &ProposalHandler{proposalService: proposalService}
}

// SubmitProposal places a bid on the task in the path
func (h *ProposalHandler) SubmitProposal(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitProposalRequest
	if !bindJSON(c, &req) {
		return
	}

	proposal, err := h.proposalService.SubmitProposal(c.Request.Context(), services.SubmitProposalInput{
		TaskID:   c.Param("id"),
		BidderID: userID,
		GroupID:  req.GroupID,
		Amount:   req.Amount,
		Text:     req.Proposal,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProposalDTO(*proposal))
}

// ListProposals returns the bids on a task, oldest first
func (h *ProposalHandler) ListProposals(c *gin.Context) {
	proposals, err := h.proposalService.ListProposals(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"proposals": dto.ToProposalDTOs(proposals),
	})
}

// DecideProposal accepts or rejects a bid. Only the task poster may decide.
func (h *ProposalHandler) DecideProposal(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.StatusRequest
	if !bindJSON(c, &req) {
		return
	}

	proposal, err := h.proposalService.DecideProposal(c.Request.Context(), services.DecideProposalInput{
		ProposalID: c.Param("id"),
		ActorID:    userID,
		Decision:   parseDecision(req.Status),
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProposalDTO(*proposal))
}

// parseDecision accepts both the verb and the resulting status
func parseDecision(value string) models.ProposalStatus {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "ACCEPT", string(models.ProposalStatusAccepted):
		return models.ProposalStatusAccepted
	case "REJECT", string(models.ProposalStatusRejected):
		return models.ProposalStatusRejected
	default:
		return models.ProposalStatus(value)
	}
}
