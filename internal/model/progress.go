package model

// Progress records one student's state on one lesson; (UserID, LessonID) is unique.
// swagger:model Progress
type Progress struct {
	BaseModel
	UserID            uint    `gorm:"uniqueIndex:idx_user_lesson;not null" json:"userId"`
	LessonID          uint    `gorm:"uniqueIndex:idx_user_lesson;not null" json:"lessonId"`
	Completed         bool    `gorm:"index" json:"completed"`
	LastSubmittedCode string  `gorm:"type:text" json:"lastSubmittedCode,omitempty"`
	LastScore         *int    `json:"lastScore"`
	User              *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Lesson            *Lesson `gorm:"foreignKey:LessonID" json:"lesson,omitempty"`
}

func (Progress) TableName() string {
	return "progress"
}
