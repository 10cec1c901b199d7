package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/minhtran-dev/taskdesk/internal/cache"
	"github.com/minhtran-dev/taskdesk/internal/constants"
	"github.com/minhtran-dev/taskdesk/internal/deadline"
	"github.com/minhtran-dev/taskdesk/internal/models"
	"github.com/minhtran-dev/taskdesk/internal/repository"
	"github.com/minhtran-dev/taskdesk/internal/storage"
	"github.com/minhtran-dev/taskdesk/internal/thread"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrTaskNameRequired  = errors.New("task name is required")
	ErrInvalidTaskStatus = errors.New("invalid task status")
	ErrInvalidPriority   = errors.New("invalid task priority")
	ErrAssigneeNotFound  = errors.New("assignee not found")
	ErrAssigneeInactive  = errors.New("assignee account is inactive")
	ErrTaskLocked        = errors.New("task has been completed by a manager and is locked")
	ErrNotTaskAssignee   = errors.New("only the assignee can update this task's status")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
)

// TaskView is a task annotated with the per-viewer thread status and the
// deadline urgency bucket, both derived at read time.
type TaskView struct {
	models.Task
	ThreadStatus thread.Status   `json:"thread_status"`
	Urgency      deadline.Bucket `json:"urgency"`
}

// TaskService handles task business logic.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	profileRepo repository.ProfileRepository
	commentRepo repository.CommentRepository
	readRepo    repository.ReadStatusRepository
	store       storage.ObjectStore
	cache       cache.Cache
	loc         *time.Location
}

// NewTaskService creates a new TaskService. loc is the timezone in which
// deadline urgency is evaluated.
func NewTaskService(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	profileRepo repository.ProfileRepository,
	commentRepo repository.CommentRepository,
	readRepo repository.ReadStatusRepository,
	store storage.ObjectStore,
	c cache.Cache,
	loc *time.Location,
) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		profileRepo: profileRepo,
		commentRepo: commentRepo,
		readRepo:    readRepo,
		store:       store,
		cache:       c,
		loc:         loc,
	}
}

// ListTasks retrieves tasks matching the filter, due-date ascending with
// undated tasks last. The unfiltered list and the per-assignee list are
// cached under their query signatures; other filter combinations go straight
// to the database.
func (s *TaskService) ListTasks(ctx context.Context, filter repository.TaskFilter) ([]models.Task, error) {
	key := ""
	switch {
	case filter.AssigneeID == nil && filter.ProjectID == nil && filter.Status == nil:
		key = cache.KeyTasksAll()
	case filter.AssigneeID != nil && filter.ProjectID == nil && filter.Status == nil:
		key = cache.KeyTasksByAssignee(*filter.AssigneeID)
	}

	var tasks []models.Task
	if key != "" {
		if hit, err := s.cache.Get(ctx, key, &tasks); err == nil && hit {
			return tasks, nil
		}
	}

	tasks, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	if key != "" {
		_ = s.cache.Set(ctx, key, tasks)
	}
	return tasks, nil
}

// GetTask retrieves a single task with its relations loaded.
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Project", "Assignee", "Creator")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// AnnotateTasks derives the thread status and urgency bucket for each task as
// seen by viewerID. Read statuses are loaded once; per-thread comment lists
// come through the comment cache.
func (s *TaskService) AnnotateTasks(ctx context.Context, viewerID uint64, tasks []models.Task) ([]TaskView, error) {
	statuses, err := s.readRepo.ListByProfile(viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load read statuses: %w", err)
	}
	lastReadByTask := make(map[uint64]time.Time, len(statuses))
	for _, rs := range statuses {
		lastReadByTask[rs.TaskID] = rs.LastReadAt
	}

	now := time.Now().In(s.loc)
	views := make([]TaskView, 0, len(tasks))
	for _, task := range tasks {
		comments, err := s.cachedComments(ctx, task.ID)
		if err != nil {
			return nil, err
		}

		in := thread.Input{
			ViewerID:      viewerID,
			TaskCreatedAt: task.CreatedAt,
			LastReadAt:    lastReadByTask[task.ID],
			CommentCount:  len(comments),
		}
		if len(comments) > 0 {
			// Comments come back newest-first.
			in.LatestCommentAt = comments[0].CreatedAt
			in.LatestCommentBy = comments[0].AuthorID
		}

		views = append(views, TaskView{
			Task:         task,
			ThreadStatus: thread.Derive(in),
			Urgency:      deadline.Classify(task.DueDate, now),
		})
	}
	return views, nil
}

// cachedComments reads a task's comment thread through the cache.
func (s *TaskService) cachedComments(ctx context.Context, taskID uint64) ([]models.Comment, error) {
	var comments []models.Comment
	if hit, err := s.cache.Get(ctx, cache.KeyComments(taskID), &comments); err == nil && hit {
		return comments, nil
	}

	comments, err := s.commentRepo.ListByTask(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	_ = s.cache.Set(ctx, cache.KeyComments(taskID), comments)
	return comments, nil
}

// CreateTaskInput holds the fields for a new task.
type CreateTaskInput struct {
	Name        string
	Description string
	Priority    models.TaskPriority
	DueDate     *time.Time
	ProjectID   *uint64
	AssigneeID  uint64
	CreatorID   uint64
}

// CreateTask creates a task assigned to an active account. Priority defaults
// to Medium and status to To Do.
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTaskNameRequired
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.ValidTaskPriority(priority) {
		return nil, ErrInvalidPriority
	}

	assignee, err := s.profileRepo.FindByID(input.AssigneeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssigneeNotFound
		}
		return nil, fmt.Errorf("failed to find assignee: %w", err)
	}
	if assignee.AccountStatus == models.AccountInactive {
		return nil, ErrAssigneeInactive
	}

	if input.ProjectID != nil {
		if _, err := s.projectRepo.FindByID(*input.ProjectID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProjectNotFound
			}
			return nil, fmt.Errorf("failed to find project: %w", err)
		}
	}

	task := &models.Task{
		Name:        name,
		Description: input.Description,
		Status:      models.TaskStatusTodo,
		Priority:    priority,
		DueDate:     input.DueDate,
		ProjectID:   input.ProjectID,
		AssigneeID:  input.AssigneeID,
		CreatorID:   input.CreatorID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	_ = s.cache.Invalidate(ctx, cache.TaskMutationKeys(task.AssigneeID)...)
	return task, nil
}

// UpdateTaskInput holds the updatable fields of a task. Nil pointers leave
// the current value unchanged; ClearDueDate removes an existing due date.
type UpdateTaskInput struct {
	Name         *string
	Description  *string
	Priority     *models.TaskPriority
	DueDate      *time.Time
	ClearDueDate bool
	ProjectID    *uint64
	AssigneeID   *uint64
}

// UpdateTask edits or reassigns a task. A manager-completed task is locked
// against further edits.
func (s *TaskService) UpdateTask(ctx context.Context, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if task.ManagerCompleted {
		return nil, ErrTaskLocked
	}

	previousAssignee := task.AssigneeID

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrTaskNameRequired
		}
		task.Name = name
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		if !models.ValidTaskPriority(*input.Priority) {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.ProjectID != nil {
		if _, err := s.projectRepo.FindByID(*input.ProjectID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProjectNotFound
			}
			return nil, fmt.Errorf("failed to find project: %w", err)
		}
		task.ProjectID = input.ProjectID
	}
	if input.AssigneeID != nil {
		assignee, err := s.profileRepo.FindByID(*input.AssigneeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAssigneeNotFound
			}
			return nil, fmt.Errorf("failed to find assignee: %w", err)
		}
		if assignee.AccountStatus == models.AccountInactive {
			return nil, ErrAssigneeInactive
		}
		task.AssigneeID = *input.AssigneeID
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	keys := cache.TaskMutationKeys(task.AssigneeID)
	if previousAssignee != task.AssigneeID {
		keys = append(keys, cache.KeyTasksByAssignee(previousAssignee))
	}
	_ = s.cache.Invalidate(ctx, keys...)
	return task, nil
}

// UpdateStatus moves a task between statuses. Employees may only move their
// own tasks; managers and admins may move any. A manager-completed task is
// locked.
func (s *TaskService) UpdateStatus(ctx context.Context, taskID, actorID uint64, actorRole models.Role, status models.TaskStatus) (*models.Task, error) {
	if !models.ValidTaskStatus(status) {
		return nil, ErrInvalidTaskStatus
	}

	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if task.ManagerCompleted {
		return nil, ErrTaskLocked
	}
	if actorRole == models.RoleEmployee && task.AssigneeID != actorID {
		return nil, ErrNotTaskAssignee
	}

	task.Status = status
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	_ = s.cache.Invalidate(ctx, cache.TaskMutationKeys(task.AssigneeID)...)
	return task, nil
}

// CompleteTaskInput holds a manager's completion verdict.
type CompleteTaskInput struct {
	Rating int
	Review string
}

// CompleteTask records the manager's rating and review, marks the task Done
// and locks it against further employee mutations.
func (s *TaskService) CompleteTask(ctx context.Context, taskID uint64, input CompleteTaskInput) (*models.Task, error) {
	if input.Rating < constants.MinTaskRating || input.Rating > constants.MaxTaskRating {
		return nil, ErrInvalidRating
	}

	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if task.ManagerCompleted {
		return nil, ErrTaskLocked
	}

	rating := input.Rating
	task.ManagerCompleted = true
	task.ManagerRating = &rating
	task.ManagerReview = input.Review
	task.Status = models.TaskStatusDone

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}

	_ = s.cache.Invalidate(ctx, cache.TaskMutationKeys(task.AssigneeID)...)
	return task, nil
}

// DeleteTask removes a task's stored attachments, then the row and its
// comments. Attachment cleanup is best effort: a storage failure is logged
// and the row delete proceeds, since an orphaned object is recoverable but a
// wedged delete is not.
func (s *TaskService) DeleteTask(ctx context.Context, taskID uint64) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	prefix := fmt.Sprintf("task_%d/", taskID)
	if paths, listErr := s.store.ListPrefix(ctx, prefix); listErr != nil {
		log.Printf("Failed to list attachments for task %d: %v", taskID, listErr)
	} else if len(paths) > 0 {
		if removeErr := s.store.Remove(ctx, paths); removeErr != nil {
			log.Printf("Failed to remove attachments for task %d: %v", taskID, removeErr)
		}
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	keys := append(cache.TaskMutationKeys(task.AssigneeID), cache.KeyComments(taskID))
	_ = s.cache.Invalidate(ctx, keys...)
	return nil
}

// MarkRead records that the viewer has acknowledged the task's thread as of
// now. The write is an idempotent last-write-wins upsert; marking an already
// read task simply advances the timestamp. A manager-completed task is locked
// against it like any other mutation.
func (s *TaskService) MarkRead(profileID, taskID uint64) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}
	if task.ManagerCompleted {
		return ErrTaskLocked
	}

	if err := s.readRepo.Upsert(profileID, taskID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to mark task read: %w", err)
	}
	return nil
}
