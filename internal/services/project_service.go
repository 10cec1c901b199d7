package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/minhtran-dev/taskdesk/internal/cache"
	"github.com/minhtran-dev/taskdesk/internal/models"
	"github.com/minhtran-dev/taskdesk/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProjectNameRequired = errors.New("project name is required")
	ErrProjectNotFound     = errors.New("project not found")
	ErrProjectHasTasks     = errors.New("project still has referencing tasks")
	ErrLegacyRefRequired   = errors.New("legacy reference code is required")
)

// ProjectService handles project business logic, including the sync path that
// mirrors records from the legacy system into local projects.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	cache       cache.Cache
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository, c cache.Cache) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		cache:       c,
	}
}

// ListProjects returns all projects, newest first.
func (s *ProjectService) ListProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if hit, err := s.cache.Get(ctx, cache.KeyProjects(), &projects); err == nil && hit {
		return projects, nil
	}

	projects, err := s.projectRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	_ = s.cache.Set(ctx, cache.KeyProjects(), projects)
	return projects, nil
}

// CreateProjectInput holds the fields for a new project.
type CreateProjectInput struct {
	Name        string
	Description string
}

// CreateProject creates a new project.
func (s *ProjectService) CreateProject(ctx context.Context, input CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProjectNameRequired
	}

	project := &models.Project{
		Name:        name,
		Description: input.Description,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	_ = s.cache.Invalidate(ctx, cache.KeyProjects())
	return project, nil
}

// DeleteProject deletes a project only when zero tasks reference it. The
// pre-check turns the constraint into a specific, human-readable error.
func (s *ProjectService) DeleteProject(ctx context.Context, projectID uint64) error {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	count, err := s.taskRepo.CountByProject(projectID)
	if err != nil {
		return fmt.Errorf("failed to count project tasks: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %d remaining", ErrProjectHasTasks, count)
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	_ = s.cache.Invalidate(ctx, cache.KeyProjects())
	return nil
}

// SyncLegacyInput describes a record from the legacy system to mirror.
type SyncLegacyInput struct {
	LegacyRef    string
	CustomerName string
	ProjectType  string
}

// SyncLegacyProject returns the local project mirroring a legacy record,
// creating it on first sight. The legacy reference code is the identity key.
func (s *ProjectService) SyncLegacyProject(ctx context.Context, input SyncLegacyInput) (*models.Project, error) {
	ref := strings.TrimSpace(input.LegacyRef)
	if ref == "" {
		return nil, ErrLegacyRefRequired
	}

	existing, err := s.projectRepo.FindByLegacyRef(ref)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up legacy project: %w", err)
	}

	project := &models.Project{
		Name:        fmt.Sprintf("%s - %s", input.CustomerName, input.ProjectType),
		Description: fmt.Sprintf("Synced from the legacy system with reference code: %s", ref),
		LegacyRef:   &ref,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create synced project: %w", err)
	}

	_ = s.cache.Invalidate(ctx, cache.KeyProjects())
	return project, nil
}
