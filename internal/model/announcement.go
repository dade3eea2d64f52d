package model

type AnnouncementPriority string

const (
	PriorityLow    AnnouncementPriority = "low"
	PriorityNormal AnnouncementPriority = "normal"
	PriorityHigh   AnnouncementPriority = "high"
)

func (p AnnouncementPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh:
		return true
	}
	return false
}

// swagger:model Announcement
type Announcement struct {
	BaseModel
	Title       string               `gorm:"size:255;not null" json:"title"`
	Message     string               `gorm:"type:text;not null" json:"message"`
	Priority    AnnouncementPriority `gorm:"size:20;not null" json:"priority"`
	Published   bool                 `gorm:"index" json:"published"`
	ProfessorID uint                 `gorm:"index;not null" json:"professorId"`
	LessonID    *uint                `json:"lessonId"`
	ModuleID    *uint                `json:"moduleId"`
	Professor   *User                `gorm:"foreignKey:ProfessorID" json:"professor,omitempty"`
}

func (Announcement) TableName() string {
	return "announcements"
}
