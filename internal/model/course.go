package model

// Module groups lessons of the course. Order is stored as sort_order since ORDER is reserved in SQL.
// swagger:model Module
type Module struct {
	BaseModel
	Title     string   `gorm:"size:255;not null" json:"title"`
	Order     int      `gorm:"column:sort_order;index" json:"order"`
	Published bool     `json:"published"`
	Lessons   []Lesson `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE" json:"lessons"`
}

func (Module) TableName() string {
	return "modules"
}

// swagger:model Lesson
type Lesson struct {
	BaseModel
	ModuleID  uint    `gorm:"index;not null" json:"moduleId"`
	Title     string  `gorm:"size:255;not null" json:"title"`
	Content   string  `gorm:"type:text" json:"content"`
	Order     int     `gorm:"column:sort_order;index" json:"order"`
	Published bool    `json:"published"`
	Module    *Module `gorm:"foreignKey:ModuleID" json:"module,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// ModuleOrder is one entry of a bulk reorder request.
type ModuleOrder struct {
	ID    uint `json:"id" binding:"required"`
	Order int  `json:"order"`
}

// LessonOrder is one entry of a bulk reorder request; ModuleID moves the lesson when set.
type LessonOrder struct {
	ID       uint  `json:"id" binding:"required"`
	Order    int   `json:"order"`
	ModuleID *uint `json:"moduleId"`
}
