package repository

import (
	"python_tutor_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type ActivityRepository struct {
	DB *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

func (r *ActivityRepository) Create(log *model.ActivityLog) error {
	return r.DB.Create(log).Error
}

func (r *ActivityRepository) FindByUserAndType(userID uint, eventType model.EventType) ([]model.ActivityLog, error) {
	var logs []model.ActivityLog
	err := r.DB.Where("user_id = ? AND event_type = ?", userID, eventType).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}

type lastActivityRow struct {
	UserID uint
	Last   time.Time
}

// LastActivityByUser maps each user to the time of their latest logged event.
func (r *ActivityRepository) LastActivityByUser() (map[uint]time.Time, error) {
	var rows []lastActivityRow
	err := r.DB.Model(&model.ActivityLog{}).
		Select("user_id, MAX(created_at) AS last").
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[uint]time.Time, len(rows))
	for _, row := range rows {
		result[row.UserID] = row.Last
	}
	return result, nil
}

func (r *ActivityRepository) CountActiveUsersSince(since time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ActivityLog{}).
		Where("created_at >= ?", since).
		Distinct("user_id").
		Count(&count).Error
	return count, err
}
