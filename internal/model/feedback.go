package model

// swagger:model Feedback
type Feedback struct {
	BaseModel
	StudentID   uint      `gorm:"index;not null" json:"studentId"`
	ProfessorID uint      `gorm:"index;not null" json:"professorId"`
	LessonID    uint      `gorm:"index;not null" json:"lessonId"`
	ProgressID  uint      `gorm:"index;not null" json:"progressId"`
	Comment     string    `gorm:"type:text;not null" json:"comment"`
	Rating      *int      `json:"rating"`
	Student     *User     `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Professor   *User     `gorm:"foreignKey:ProfessorID" json:"professor,omitempty"`
	Lesson      *Lesson   `gorm:"foreignKey:LessonID" json:"lesson,omitempty"`
	Progress    *Progress `gorm:"foreignKey:ProgressID" json:"progress,omitempty"`
}

func (Feedback) TableName() string {
	return "feedback"
}
