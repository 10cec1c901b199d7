package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minhtran-dev/taskdesk/internal/dto"
	apierrors "github.com/minhtran-dev/taskdesk/internal/errors"
	"github.com/minhtran-dev/taskdesk/internal/middleware"
	"github.com/minhtran-dev/taskdesk/internal/models"
	"github.com/minhtran-dev/taskdesk/internal/repository"
	"github.com/minhtran-dev/taskdesk/internal/services"
	"github.com/minhtran-dev/taskdesk/internal/utils"
)

// TaskHandler coordinates task-related HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the task list annotated with thread status and urgency.
//
// Employees always see their own tasks. Managers see everything by default
// and can narrow with assigned_to_me=true, assignee_id or status. Passing
// group_by=project|assignee returns sectioned groups (optionally narrowed to
// one group with group=<key>); otherwise the flat list is paginated.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	role, _ := middleware.GetRole(c)

	var filter repository.TaskFilter
	if assigned := c.Query("assigned_to_me"); role == models.RoleEmployee || assigned == "1" || assigned == "true" {
		uid := userID
		filter.AssigneeID = &uid
	} else if assigneeStr := c.Query("assignee_id"); assigneeStr != "" {
		assigneeID, err := strconv.ParseUint(assigneeStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid assignee_id")
			return
		}
		filter.AssigneeID = &assigneeID
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := models.TaskStatus(statusStr)
		if !models.ValidTaskStatus(status) {
			apierrors.Validation(c, "Invalid task status")
			return
		}
		filter.Status = &status
	}
	if projectStr := c.Query("project_id"); projectStr != "" {
		projectID, err := strconv.ParseUint(projectStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project_id")
			return
		}
		filter.ProjectID = &projectID
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), filter)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	views, err := h.taskService.AnnotateTasks(c.Request.Context(), userID, tasks)
	if err != nil {
		apierrors.InternalError(c, "Failed to annotate tasks")
		return
	}

	groupBy := c.Query("group_by")
	if groupBy != "" {
		var mode services.GroupMode
		switch groupBy {
		case "project":
			mode = services.GroupByProject
		case "assignee":
			mode = services.GroupByAssignee
		default:
			apierrors.BadRequest(c, "group_by must be project or assignee")
			return
		}

		groups := services.GroupTasks(tasks, mode)
		if key := c.Query("group"); key != "" {
			groups = services.FilterGroups(groups, key)
		}

		viewsByID := make(map[uint64]services.TaskView, len(views))
		for _, v := range views {
			viewsByID[v.ID] = v
		}

		c.JSON(http.StatusOK, dto.GroupedTaskListResponse{
			GroupBy: groupBy,
			Groups:  dto.ToTaskGroupDTOs(groups, viewsByID),
		})
		return
	}

	params := utils.GetPaginationParams(c)
	total := int64(len(views))
	start := params.Offset
	if start > len(views) {
		start = len(views)
	}
	end := start + params.Limit
	if end > len(views) {
		end = len(views)
	}

	c.JSON(http.StatusOK, dto.TaskListResponse{
		Tasks: dto.ToTaskViewDTOs(views[start:end]),
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetTask returns a single task with relations and the viewer's thread status.
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	task, err := h.taskService.GetTask(taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	views, err := h.taskService.AnnotateTasks(c.Request.Context(), userID, []models.Task{*task})
	if err != nil {
		apierrors.InternalError(c, "Failed to annotate task")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskViewDTO(views[0]))
}

// CreateTask creates a new task assigned to an employee.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Name        string              `json:"name" binding:"required"`
		Description string              `json:"description"`
		Priority    models.TaskPriority `json:"priority"`
		DueDate     *time.Time          `json:"due_date"`
		ProjectID   *uint64             `json:"project_id"`
		AssigneeID  uint64              `json:"assignee_id" binding:"required"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), services.CreateTaskInput{
		Name:        req.Name,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		ProjectID:   req.ProjectID,
		AssigneeID:  req.AssigneeID,
		CreatorID:   userID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask edits or reassigns a task. Only fields present in the request
// body change; an explicit null due_date clears the deadline.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	// Parse raw JSON to detect which fields were sent
	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var input services.UpdateTaskInput
	if name, ok := rawReq["name"].(string); ok {
		input.Name = &name
	}
	if description, ok := rawReq["description"].(string); ok {
		input.Description = &description
	}
	if priority, ok := rawReq["priority"].(string); ok {
		p := models.TaskPriority(priority)
		input.Priority = &p
	}
	if _, ok := rawReq["due_date"]; ok {
		// due_date was provided (might be null)
		if rawReq["due_date"] == nil {
			input.ClearDueDate = true
		} else if dueDateStr, ok := rawReq["due_date"].(string); ok {
			parsedTime, err := time.Parse(time.RFC3339, dueDateStr)
			if err != nil {
				apierrors.Validation(c, "due_date must be RFC3339")
				return
			}
			input.DueDate = &parsedTime
		}
	}
	if projectID, ok := rawReq["project_id"].(float64); ok {
		id := uint64(projectID)
		input.ProjectID = &id
	}
	if assigneeID, ok := rawReq["assignee_id"].(float64); ok {
		id := uint64(assigneeID)
		input.AssigneeID = &id
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), taskID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateStatus moves a task between the three workflow statuses.
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	role, _ := middleware.GetRole(c)

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	type UpdateStatusRequest struct {
		Status models.TaskStatus `json:"status" binding:"required"`
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateStatus(c.Request.Context(), taskID, userID, role, req.Status)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// MarkRead records that the viewer acknowledged the task's thread. Repeated
// calls just advance the timestamp.
func (h *TaskHandler) MarkRead(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	if err := h.taskService.MarkRead(userID, taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task marked as read",
	})
}

// CompleteTask records the manager's rating and review and locks the task.
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	type CompleteTaskRequest struct {
		Rating int    `json:"rating" binding:"required"`
		Review string `json:"review"`
	}

	var req CompleteTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CompleteTask(c.Request.Context(), taskID, services.CompleteTaskInput{
		Rating: req.Rating,
		Review: req.Review,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task along with its comments and stored attachments.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTaskNameRequired),
		errors.Is(err, services.ErrInvalidTaskStatus),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrInvalidRating),
		errors.Is(err, services.ErrAssigneeNotFound),
		errors.Is(err, services.ErrAssigneeInactive),
		errors.Is(err, services.ErrProjectNotFound):
		apierrors.Validation(c, err.Error())
	case errors.Is(err, services.ErrTaskLocked):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrNotTaskAssignee):
		apierrors.Authorization(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
