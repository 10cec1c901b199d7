package repository

import (
	"time"

	"github.com/minhtran-dev/taskdesk/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering, ordered by due date with null due
	// dates last
	List(filter TaskFilter) ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete deletes a task and cascades to its comments
	Delete(id uint64) error

	// CountByProject counts tasks referencing a project
	CountByProject(projectID uint64) (int64, error)

	// CountByProfile counts tasks created by or assigned to a profile
	CountByProfile(profileID uint64) (int64, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	AssigneeID *uint64
	ProjectID  *uint64
	Status     *models.TaskStatus
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID
	FindByID(id uint64) (*models.Project, error)

	// FindByLegacyRef finds a project by its legacy reference code
	FindByLegacyRef(ref string) (*models.Project, error)

	// List retrieves all projects, newest first
	List() ([]models.Project, error)

	// Delete deletes a project row
	Delete(id uint64) error
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// Create creates a new comment
	Create(comment *models.Comment) error

	// ListByTask retrieves a task's comments newest-first with authors loaded
	ListByTask(taskID uint64) ([]models.Comment, error)

	// CountByAuthor counts comments written by a profile
	CountByAuthor(profileID uint64) (int64, error)
}

// ReadStatusRepository defines the interface for read-status data access
type ReadStatusRepository interface {
	// Upsert writes the last-read timestamp for a (profile, task) pair,
	// last-write-wins on conflict
	Upsert(profileID, taskID uint64, lastReadAt time.Time) error

	// Find retrieves the read status for a (profile, task) pair
	Find(profileID, taskID uint64) (*models.ReadStatus, error)

	// ListByProfile retrieves all read statuses for a profile
	ListByProfile(profileID uint64) ([]models.ReadStatus, error)
}

// ProfileRepository defines the interface for profile data access
type ProfileRepository interface {
	// Create creates a new profile
	Create(profile *models.Profile) error

	// FindByID finds a profile by ID
	FindByID(id uint64) (*models.Profile, error)

	// FindByEmail finds a profile by email
	FindByEmail(email string) (*models.Profile, error)

	// List retrieves all profiles ordered by full name
	List() ([]models.Profile, error)

	// Update updates a profile
	Update(profile *models.Profile) error

	// Delete deletes a profile row
	Delete(id uint64) error
}
