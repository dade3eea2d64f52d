package repository

import (
	"python_tutor_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

// UserProgressStats aggregates one student's progress rows.
type UserProgressStats struct {
	UserID       uint
	Completed    int
	ScoreSum     int
	ScoredCount  int
	LastProgress *time.Time
}

// LessonCompletion counts the students that completed a lesson.
type LessonCompletion struct {
	LessonID  uint
	Completed int
}

type DashboardRepository struct {
	DB *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{DB: db}
}

func (r *DashboardRepository) ProgressStatsByUser() (map[uint]UserProgressStats, error) {
	var rows []UserProgressStats
	err := r.DB.Model(&model.Progress{}).
		Select(`user_id,
			SUM(CASE WHEN completed THEN 1 ELSE 0 END) AS completed,
			COALESCE(SUM(last_score), 0) AS score_sum,
			COUNT(last_score) AS scored_count,
			MAX(updated_at) AS last_progress`).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[uint]UserProgressStats, len(rows))
	for _, row := range rows {
		result[row.UserID] = row
	}
	return result, nil
}

func (r *DashboardRepository) CompletionsByLesson() (map[uint]int, error) {
	var rows []LessonCompletion
	err := r.DB.Model(&model.Progress{}).
		Select("lesson_id, COUNT(*) AS completed").
		Where("completed = ?", true).
		Group("lesson_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[uint]int, len(rows))
	for _, row := range rows {
		result[row.LessonID] = row.Completed
	}
	return result, nil
}
