package repository

import (
	"python_tutor_backend/internal/model"

	"gorm.io/gorm"
)

type FeedbackRepository struct {
	DB *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{DB: db}
}

func (r *FeedbackRepository) Create(feedback *model.Feedback) error {
	return r.DB.Create(feedback).Error
}

// FindByStudent returns the student's feedback newest first with its professor, lesson (and module) and progress.
func (r *FeedbackRepository) FindByStudent(studentID uint) ([]model.Feedback, error) {
	var list []model.Feedback
	err := r.DB.Where("student_id = ?", studentID).
		Preload("Professor").
		Preload("Lesson.Module").
		Preload("Progress").
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}
