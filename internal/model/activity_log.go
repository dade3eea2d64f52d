package model

import (
	"time"

	"gorm.io/datatypes"
)

type EventType string

const (
	EventLessonViewed  EventType = "LESSON_VIEWED"
	EventCodeSubmitted EventType = "CODE_SUBMITTED"
	EventAIQueryAsked  EventType = "AI_QUERY_ASKED"
	EventCodeRun       EventType = "CODE_RUN"
)

// ActivityLog is an append-only event stream used by the professor analytics.
type ActivityLog struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint           `gorm:"index" json:"userId"`
	EventType EventType      `gorm:"size:40;index" json:"eventType"`
	Details   datatypes.JSON `json:"details"`
	CreatedAt time.Time      `gorm:"index" json:"createdAt"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
