package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/campus-works/internal/constants"
	"github.com/yukikurage/campus-works/internal/dto"
	apierrors "github.com/yukikurage/campus-works/internal/errors"
	"github.com/yukikurage/campus-works/internal/notify"
	"github.com/yukikurage/campus-works/internal/services"
	"github.com/yukikurage/campus-works/internal/utils"
)

// EventSubscriber opens a stream of a task's events
type EventSubscriber interface {
	Subscribe(taskID string) (<-chan notify.Event, func())
}

type ConversationHandler struct {
	conversationService *services.ConversationService
	events              EventSubscriber
}

func NewConversationHandler(conversationService *services.ConversationService, events EventSubscriber) *ConversationHandler {
	return &ConversationHandler{
		conversationService: conversationService,
		events:              events,
	}
}

// AddComment posts a public comment on a task
func (h *ConversationHandler) AddComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.BodyRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.conversationService.AddComment(c.Request.Context(), c.Param("id"), userID, req.Body)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

// ListComments returns a task's comments, oldest first
func (h *ConversationHandler) ListComments(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	comments, total, err := h.conversationService.ListComments(c.Request.Context(), c.Param("id"), params)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments":   dto.ToCommentDTOs(comments),
		"pagination": params.Response(total),
	})
}

// SendMessage posts a chat message between the poster and the accepted bidder
func (h *ConversationHandler) SendMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.BodyRequest
	if !bindJSON(c, &req) {
		return
	}

	message, err := h.conversationService.SendMessage(c.Request.Context(), c.Param("id"), userID, req.Body)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToMessageDTO(*message))
}

// ListMessages returns a task's chat, oldest first
func (h *ConversationHandler) ListMessages(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	messages, total, err := h.conversationService.ListMessages(c.Request.Context(), c.Param("id"), userID, params)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages":   dto.ToMessageDTOs(messages),
		"pagination": params.Response(total),
	})
}

// Events streams a task's events to its participants as server-sent events.
// Events addressed to another user are skipped.
func (h *ConversationHandler) Events(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	taskID := c.Param("id")
	if err := h.conversationService.EnsureParticipant(c.Request.Context(), taskID, userID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	events, cancel := h.events.Subscribe(taskID)
	defer cancel()

	heartbeat := time.NewTicker(constants.EventStreamHeartbeat)
	defer heartbeat.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			if event.VisibleTo(userID) {
				c.SSEvent(string(event.Kind), event)
			}
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", gin.H{"time": time.Now().UTC()})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
