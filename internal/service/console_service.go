package service

import (
	"errors"
	"python_tutor_backend/internal/console"
	"python_tutor_backend/internal/model"
	"python_tutor_backend/pkg/monitoring"
	"unicode/utf8"
)

// MaxSnippetLength bounds the code accepted by the playground.
const MaxSnippetLength = 20000

var ErrSnippetTooLong = errors.New("code is too long")

type codeRunDetails struct {
	LessonID   uint           `json:"lessonId,omitempty"`
	CodeLength int            `json:"codeLength"`
	Status     console.Status `json:"status"`
}

type ConsoleService struct {
	Activity *ActivityService
}

func NewConsoleService(activity *ActivityService) *ConsoleService {
	return &ConsoleService{Activity: activity}
}

// Run evaluates the snippet. userID 0 means an anonymous caller and nothing is logged.
func (s *ConsoleService) Run(userID, lessonID uint, code string) (console.Result, error) {
	if utf8.RuneCountInString(code) > MaxSnippetLength {
		return console.Result{}, ErrSnippetTooLong
	}

	result := console.Evaluate(code)
	monitoring.ConsoleEvaluations.WithLabelValues(string(result.Status)).Inc()

	if userID != 0 && s.Activity != nil {
		s.Activity.Record(userID, model.EventCodeRun, codeRunDetails{
			LessonID:   lessonID,
			CodeLength: utf8.RuneCountInString(code),
			Status:     result.Status,
		})
	}
	return result, nil
}
