package dto

import (
	"time"

	"github.com/minhtran-dev/taskdesk/internal/deadline"
	"github.com/minhtran-dev/taskdesk/internal/models"
	"github.com/minhtran-dev/taskdesk/internal/services"
	"github.com/minhtran-dev/taskdesk/internal/thread"
	"github.com/minhtran-dev/taskdesk/internal/utils"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	DueDate     *time.Time          `json:"due_date"`
	ProjectID   *uint64             `json:"project_id"`
	AssigneeID  uint64              `json:"assignee_id"`
	CreatorID   uint64              `json:"creator_id"`

	ManagerCompleted bool   `json:"manager_completed"`
	ManagerRating    *int   `json:"manager_rating,omitempty"`
	ManagerReview    string `json:"manager_review,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Project  *ProjectDTO `json:"project,omitempty"`
	Assignee *ProfileDTO `json:"assignee,omitempty"`
	Creator  *ProfileDTO `json:"creator,omitempty"`
}

// TaskViewDTO is a task annotated with the viewer-specific thread status and
// the deadline urgency bucket
type TaskViewDTO struct {
	TaskDTO
	ThreadStatus thread.Status   `json:"thread_status"`
	Urgency      deadline.Bucket `json:"urgency"`
	Unread       bool            `json:"unread"`
}

// TaskGroupDTO is one section of a grouped task list
type TaskGroupDTO struct {
	Key       string        `json:"key"`
	LegacyRef *string       `json:"legacy_ref,omitempty"`
	Tasks     []TaskViewDTO `json:"tasks"`
}

// TaskListResponse represents a paginated flat list of tasks
type TaskListResponse struct {
	Tasks      []TaskViewDTO            `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// GroupedTaskListResponse represents a grouped task list
type GroupedTaskListResponse struct {
	GroupBy string         `json:"group_by"`
	Groups  []TaskGroupDTO `json:"groups"`
}

// Conversion functions

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:               task.ID,
		Name:             task.Name,
		Description:      task.Description,
		Status:           task.Status,
		Priority:         task.Priority,
		DueDate:          task.DueDate,
		ProjectID:        task.ProjectID,
		AssigneeID:       task.AssigneeID,
		CreatorID:        task.CreatorID,
		ManagerCompleted: task.ManagerCompleted,
		ManagerRating:    task.ManagerRating,
		ManagerReview:    task.ManagerReview,
		CreatedAt:        task.CreatedAt,
		UpdatedAt:        task.UpdatedAt,
	}

	// Include relations if preloaded
	if task.Project != nil && task.Project.ID != 0 {
		project := ToProjectDTO(*task.Project)
		dto.Project = &project
	}
	if task.Assignee.ID != 0 {
		assignee := ToProfileDTO(task.Assignee)
		dto.Assignee = &assignee
	}
	if task.Creator.ID != 0 {
		creator := ToProfileDTO(task.Creator)
		dto.Creator = &creator
	}

	return dto
}

// ToTaskViewDTO converts an annotated task view to TaskViewDTO. The unread
// flag mirrors the only thread state that shows a mark-as-read control.
func ToTaskViewDTO(view services.TaskView) TaskViewDTO {
	return TaskViewDTO{
		TaskDTO:      ToTaskDTO(view.Task),
		ThreadStatus: view.ThreadStatus,
		Urgency:      view.Urgency,
		Unread:       view.ThreadStatus == thread.StatusUnread,
	}
}

// ToTaskViewDTOs converts a slice of annotated task views
func ToTaskViewDTOs(views []services.TaskView) []TaskViewDTO {
	out := make([]TaskViewDTO, len(views))
	for i, v := range views {
		out[i] = ToTaskViewDTO(v)
	}
	return out
}

// ToTaskGroupDTOs converts grouped views into the response shape. The views
// map carries the annotation for each task by ID.
func ToTaskGroupDTOs(groups []services.TaskGroup, views map[uint64]services.TaskView) []TaskGroupDTO {
	out := make([]TaskGroupDTO, len(groups))
	for i, g := range groups {
		items := make([]TaskViewDTO, len(g.Tasks))
		for j, task := range g.Tasks {
			if view, ok := views[task.ID]; ok {
				items[j] = ToTaskViewDTO(view)
			} else {
				items[j] = TaskViewDTO{TaskDTO: ToTaskDTO(task)}
			}
		}
		out[i] = TaskGroupDTO{
			Key:       g.Key,
			LegacyRef: g.LegacyRef,
			Tasks:     items,
		}
	}
	return out
}
