package service

import (
	"errors"
	"python_tutor_backend/internal/model"
	"python_tutor_backend/internal/util"
	"unicode/utf8"

	"gorm.io/gorm"
)

type lessonViewedDetails struct {
	LessonID    uint   `json:"lessonId"`
	LessonTitle string `json:"lessonTitle"`
	Completed   bool   `json:"completed"`
	HasCode     bool   `json:"hasCode"`
}

type codeSubmittedDetails struct {
	LessonID    uint   `json:"lessonId"`
	LessonTitle string `json:"lessonTitle"`
	CodeLength  int    `json:"codeLength"`
	Success     bool   `json:"success"`
}

var ErrInvalidScore = errors.New("score must be between 0 and 100")

// ProgressSummary is what a student needs to render their own course progress.
type ProgressSummary struct {
	Progress           []model.Progress `json:"progress"`
	CompletedLessonIDs []uint           `json:"completedLessonIds"`
}

type ProgressService struct {
	ProgressRepo ProgressStore
	LessonRepo   LessonStore
	Activity     *ActivityService
}

func NewProgressService(progressRepo ProgressStore, lessonRepo LessonStore, activity *ActivityService) *ProgressService {
	return &ProgressService{
		ProgressRepo: progressRepo,
		LessonRepo:   lessonRepo,
		Activity:     activity,
	}
}

// Complete marks the lesson as completed for the user and logs the view (and the submission, when code is sent).
func (s *ProgressService) Complete(userID, lessonID uint, code string, score *int) (*model.Progress, error) {
	if score != nil && (*score < 0 || *score > 100) {
		return nil, ErrInvalidScore
	}

	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	progress := &model.Progress{
		UserID:            userID,
		LessonID:          lessonID,
		Completed:         true,
		LastSubmittedCode: code,
		LastScore:         score,
	}
	if err := s.ProgressRepo.Upsert(progress); err != nil {
		return nil, err
	}
	progress.Lesson = lesson

	s.Activity.Record(userID, model.EventLessonViewed, lessonViewedDetails{
		LessonID:    lessonID,
		LessonTitle: lesson.Title,
		Completed:   true,
		HasCode:     code != "",
	})
	if code != "" {
		s.Activity.Record(userID, model.EventCodeSubmitted, codeSubmittedDetails{
			LessonID:    lessonID,
			LessonTitle: lesson.Title,
			CodeLength:  utf8.RuneCountInString(code),
			Success:     true,
		})
	}
	return progress, nil
}

func (s *ProgressService) ForUser(userID uint) (*ProgressSummary, error) {
	list, err := s.ProgressRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	summary := &ProgressSummary{Progress: list, CompletedLessonIDs: []uint{}}
	if summary.Progress == nil {
		summary.Progress = []model.Progress{}
	}
	for _, p := range list {
		if p.Completed {
			summary.CompletedLessonIDs = append(summary.CompletedLessonIDs, p.LessonID)
		}
	}
	return summary, nil
}
