package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/minhtran-dev/taskdesk/internal/cache"
	"github.com/minhtran-dev/taskdesk/internal/constants"
	"github.com/minhtran-dev/taskdesk/internal/models"
	"github.com/minhtran-dev/taskdesk/internal/repository"
	"github.com/minhtran-dev/taskdesk/internal/storage"
	"github.com/minhtran-dev/taskdesk/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrCommentEmpty       = errors.New("comment requires text content or an attachment")
	ErrAttachmentTooLarge = errors.New("attachment exceeds the maximum allowed size")
	ErrAttachmentUpload   = errors.New("failed to upload attachment")
)

// ThreadService handles a task's discussion thread: listing comments and
// posting new ones, with optional file attachments stored in the object store.
type ThreadService struct {
	taskRepo    repository.TaskRepository
	commentRepo repository.CommentRepository
	profileRepo repository.ProfileRepository
	store       storage.ObjectStore
	cache       cache.Cache
}

// NewThreadService creates a new ThreadService.
func NewThreadService(
	taskRepo repository.TaskRepository,
	commentRepo repository.CommentRepository,
	profileRepo repository.ProfileRepository,
	store storage.ObjectStore,
	c cache.Cache,
) *ThreadService {
	return &ThreadService{
		taskRepo:    taskRepo,
		commentRepo: commentRepo,
		profileRepo: profileRepo,
		store:       store,
		cache:       c,
	}
}

// ListComments returns a task's comments newest-first with authors loaded.
func (s *ThreadService) ListComments(ctx context.Context, taskID uint64) ([]models.Comment, error) {
	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

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

// AddCommentInput holds a new comment. AttachmentData is nil when the comment
// is text-only.
type AddCommentInput struct {
	TaskID         uint64
	AuthorID       uint64
	Content        string
	AttachmentName string
	AttachmentData []byte
	ContentType    string
}

// AddComment posts a comment on a task's thread. A comment needs text, an
// attachment, or both. The attachment is uploaded first and the row inserted
// after; if the insert fails the uploaded object is removed so the store does
// not accumulate orphans.
func (s *ThreadService) AddComment(ctx context.Context, input AddCommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" && len(input.AttachmentData) == 0 {
		return nil, ErrCommentEmpty
	}
	if len(input.AttachmentData) > constants.MaxAttachmentSize {
		return nil, ErrAttachmentTooLarge
	}

	task, err := s.taskRepo.FindByID(input.TaskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	comment := &models.Comment{
		TaskID:   input.TaskID,
		AuthorID: input.AuthorID,
		Content:  content,
	}

	var uploadedPath string
	if len(input.AttachmentData) > 0 {
		safeName := utils.SanitizeFilename(input.AttachmentName)
		if safeName == "" {
			safeName = "attachment"
		}

		uploadedPath = fmt.Sprintf("task_%d/%s_%s", input.TaskID, uuid.NewString(), safeName)
		if err := s.store.Upload(ctx, uploadedPath, input.AttachmentData, input.ContentType); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAttachmentUpload, err)
		}

		url := s.store.PublicURL(uploadedPath)
		displayName := input.AttachmentName
		comment.AttachmentURL = &url
		comment.AttachmentName = &displayName
		comment.AttachmentPath = &uploadedPath
	}

	if err := s.commentRepo.Create(comment); err != nil {
		if uploadedPath != "" {
			if removeErr := s.store.Remove(ctx, []string{uploadedPath}); removeErr != nil {
				log.Printf("Failed to remove orphaned attachment %s: %v", uploadedPath, removeErr)
			}
		}
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if author, err := s.profileRepo.FindByID(input.AuthorID); err == nil {
		comment.Author = *author
	}

	_ = s.cache.Invalidate(ctx, cache.CommentMutationKeys(input.TaskID, task.AssigneeID)...)
	return comment, nil
}
