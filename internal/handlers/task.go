package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/campus-works/internal/dto"
	apierrors "github.com/yukikurage/campus-works/internal/errors"
	"github.com/yukikurage/campus-works/internal/middleware"
	"github.com/yukikurage/campus-works/internal/models"
	"github.com/yukikurage/campus-works/internal/services"
	"github.com/yukikurage/campus-works/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns tasks, newest first
// Can filter by status, category and poster_id
func (h *TaskHandler) ListTasks(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	input := services.ListTasksInput{
		Page:     params.Page,
		PageSize: params.Limit,
	}

	if status := c.Query("status"); status != "" {
		s := models.TaskStatus(status)
		input.Status = &s
	}
	if category := c.Query("category"); category != "" {
		cat := models.TaskCategory(category)
		input.Category = &cat
	}
	if posterID := c.Query("poster_id"); posterID != "" {
		input.PosterID = &posterID
	}

	tasks, total, err := h.taskService.ListTasks(c.Request.Context(), input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks":      dto.ToTaskDTOs(tasks),
		"pagination": params.Response(total),
	})
}

// GetTask returns a specific task by ID
// Task is already loaded by the LoadTask middleware
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), services.CreateTaskInput{
		PosterID:     userID,
		Title:        req.Title,
		Description:  req.Description,
		Category:     models.TaskCategory(req.Category),
		BudgetMin:    req.BudgetMin,
		BudgetMax:    req.BudgetMax,
		Deadline:     req.Deadline,
		ReferenceURL: req.ReferenceURL,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// DeleteTask removes an OPEN task together with its proposals
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), c.Param("id"), userID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// DraftTask uses AI to draft a task posting from free text
func (h *TaskHandler) DraftTask(c *gin.Context) {
	var req dto.DraftTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	draft, err := h.taskService.DraftTask(c.Request.Context(), req.Text)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, draft)
}
