package service

import (
	"errors"
	"python_tutor_backend/internal/model"
	"python_tutor_backend/internal/util"
	"python_tutor_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type FeedbackService struct {
	FeedbackRepo FeedbackStore
	ProgressRepo ProgressStore
	UserRepo     UserStore
}

func NewFeedbackService(feedbackRepo FeedbackStore, progressRepo ProgressStore, userRepo UserStore) *FeedbackService {
	return &FeedbackService{
		FeedbackRepo: feedbackRepo,
		ProgressRepo: progressRepo,
		UserRepo:     userRepo,
	}
}

// Create attaches a professor comment to a progress row. Student and lesson come from the progress row.
func (s *FeedbackService) Create(authorID, progressID uint, content string, rating *int) (*model.Feedback, error) {
	if strings.TrimSpace(content) == "" {
		return nil, util.ErrEmptyContent
	}
	if rating != nil && (*rating < 1 || *rating > 5) {
		return nil, util.ErrInvalidRating
	}

	progress, err := s.ProgressRepo.FindByID(progressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProgressNotFound
		}
		return nil, err
	}

	author, err := s.UserRepo.FindByID(authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotProfessor
		}
		return nil, err
	}
	if author.Role != model.Professor && author.Role != model.Admin {
		return nil, util.ErrNotProfessor
	}

	feedback := &model.Feedback{
		StudentID:   progress.UserID,
		ProfessorID: authorID,
		LessonID:    progress.LessonID,
		ProgressID:  progress.ID,
		Comment:     content,
		Rating:      rating,
	}
	if err := s.FeedbackRepo.Create(feedback); err != nil {
		return nil, err
	}
	feedback.Professor = author
	feedback.Progress = progress

	logger.Log.Info("Feedback created",
		zap.Uint("feedbackId", feedback.ID),
		zap.Uint("professorId", authorID),
		zap.Uint("studentId", progress.UserID))
	return feedback, nil
}

// ForStudent lists the student's feedback. A student may only read their own.
func (s *FeedbackService) ForStudent(requester *util.Claims, studentID uint) (*model.User, []model.Feedback, error) {
	if requester != nil && !requester.IsProfessor() && requester.UserID != studentID {
		return nil, nil, util.ErrPermissionDenied
	}

	student, err := s.UserRepo.FindByID(studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrUserNotFound
		}
		return nil, nil, err
	}

	list, err := s.FeedbackRepo.FindByStudent(studentID)
	if err != nil {
		return nil, nil, err
	}
	if list == nil {
		list = []model.Feedback{}
	}
	return student, list, nil
}
