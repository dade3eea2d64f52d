package repository

import (
	"python_tutor_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) FindByID(id uint) (*model.Progress, error) {
	var progress model.Progress
	err := r.DB.First(&progress, id).Error
	return &progress, err
}

func (r *ProgressRepository) FindByUser(userID uint) ([]model.Progress, error) {
	var list []model.Progress
	err := r.DB.Where("user_id = ?", userID).Order("updated_at DESC").Find(&list).Error
	return list, err
}

func (r *ProgressRepository) FindAll() ([]model.Progress, error) {
	var list []model.Progress
	err := r.DB.Find(&list).Error
	return list, err
}

// Upsert stores the row keyed by (user_id, lesson_id). A nil score or empty code keeps the stored value.
func (r *ProgressRepository) Upsert(progress *model.Progress) error {
	updates := []string{"completed", "updated_at"}
	if progress.LastSubmittedCode != "" {
		updates = append(updates, "last_submitted_code")
	}
	if progress.LastScore != nil {
		updates = append(updates, "last_score")
	}

	err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.AssignmentColumns(updates),
	}).Create(progress).Error
	if err != nil {
		return err
	}

	// the conflict path does not return the stored id on every driver
	var stored model.Progress
	if err := r.DB.Where("user_id = ? AND lesson_id = ?", progress.UserID, progress.LessonID).
		First(&stored).Error; err != nil {
		return err
	}
	*progress = stored
	return nil
}

func (r *ProgressRepository) CountCompleted() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Progress{}).Where("completed = ?", true).Count(&count).Error
	return count, err
}
