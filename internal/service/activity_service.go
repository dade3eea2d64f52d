package service

import (
	"encoding/json"
	"python_tutor_backend/internal/model"
	"python_tutor_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// ActivityService appends to the activity log. Logging is best effort: failures are reported, never returned.
type ActivityService struct {
	Repo ActivityStore
}

func NewActivityService(repo ActivityStore) *ActivityService {
	return &ActivityService{Repo: repo}
}

// Record is a no-op on a nil service.
func (s *ActivityService) Record(userID uint, event model.EventType, details interface{}) {
	if s == nil || s.Repo == nil {
		return
	}
	raw, err := json.Marshal(details)
	if err != nil {
		logger.Log.Warn("Failed to encode activity details", zap.String("event", string(event)), zap.Error(err))
		raw = []byte("{}")
	}

	entry := &model.ActivityLog{
		UserID:    userID,
		EventType: event,
		Details:   datatypes.JSON(raw),
		CreatedAt: time.Now(),
	}
	if err := s.Repo.Create(entry); err != nil {
		logger.Log.Warn("Failed to record activity",
			zap.Uint("userId", userID),
			zap.String("event", string(event)),
			zap.Error(err))
	}
}
