package repository

import (
	"github.com/minhtran-dev/taskdesk/internal/models"
	"gorm.io/gorm"
)

// GormCommentRepository is a GORM implementation of CommentRepository
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &GormCommentRepository{db: db}
}

// Create creates a new comment
func (r *GormCommentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// ListByTask retrieves a task's comments newest-first with authors loaded.
// The first element is the thread's latest comment for freshness checks.
func (r *GormCommentRepository) ListByTask(taskID uint64) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.
		Preload("Author").
		Where("task_id = ?", taskID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// CountByAuthor counts comments written by a profile
func (r *GormCommentRepository) CountByAuthor(profileID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).
		Where("author_id = ?", profileID).
		Count(&count).Error
	return count, err
}
