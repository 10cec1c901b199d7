package repository

import (
	"time"

	"github.com/minhtran-dev/taskdesk/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormReadStatusRepository is a GORM implementation of ReadStatusRepository
type GormReadStatusRepository struct {
	db *gorm.DB
}

// NewReadStatusRepository creates a new ReadStatusRepository
func NewReadStatusRepository(db *gorm.DB) ReadStatusRepository {
	return &GormReadStatusRepository{db: db}
}

// Upsert writes the last-read timestamp for a (profile, task) pair. Conflicts
// on the composite key resolve last-write-wins, so repeated marks from the
// same user are idempotent and leave exactly one row.
func (r *GormReadStatusRepository) Upsert(profileID, taskID uint64, lastReadAt time.Time) error {
	status := models.ReadStatus{
		ProfileID:  profileID,
		TaskID:     taskID,
		LastReadAt: lastReadAt,
	}

	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "profile_id"}, {Name: "task_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_read_at"}),
		}).
		Create(&status).Error
}

// Find retrieves the read status for a (profile, task) pair
func (r *GormReadStatusRepository) Find(profileID, taskID uint64) (*models.ReadStatus, error) {
	var status models.ReadStatus
	err := r.db.
		Where("profile_id = ? AND task_id = ?", profileID, taskID).
		First(&status).Error
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// ListByProfile retrieves all read statuses for a profile
func (r *GormReadStatusRepository) ListByProfile(profileID uint64) ([]models.ReadStatus, error) {
	var statuses []models.ReadStatus
	err := r.db.
		Where("profile_id = ?", profileID).
		Find(&statuses).Error
	if err != nil {
		return nil, err
	}
	return statuses, nil
}
