package model

import "time"

type MessageStatus string

const (
	MessagePending  MessageStatus = "pending"
	MessageRead     MessageStatus = "read"
	MessageAnswered MessageStatus = "answered"
	MessageClosed   MessageStatus = "closed"
)

func (s MessageStatus) Valid() bool {
	switch s {
	case MessagePending, MessageRead, MessageAnswered, MessageClosed:
		return true
	}
	return false
}

// StudentMessage is a question sent by a student to the professors.
// swagger:model StudentMessage
type StudentMessage struct {
	BaseModel
	StudentID   uint          `gorm:"index;not null" json:"studentId"`
	Subject     string        `gorm:"size:255;not null" json:"subject"`
	Message     string        `gorm:"type:text;not null" json:"message"`
	Category    string        `gorm:"size:50;not null" json:"category"`
	Status      MessageStatus `gorm:"size:20;index;not null" json:"status"`
	Response    string        `gorm:"type:text" json:"response,omitempty"`
	RespondedBy *uint         `json:"respondedBy"`
	RespondedAt *time.Time    `json:"respondedAt"`
	LessonID    *uint         `json:"lessonId"`
	ModuleID    *uint         `json:"moduleId"`
	Student     *User         `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

func (StudentMessage) TableName() string {
	return "student_messages"
}
