package model

import "gorm.io/datatypes"

type ResourceType string

const (
	ResourcePDF   ResourceType = "pdf"
	ResourceCode  ResourceType = "code"
	ResourceVideo ResourceType = "video"
	ResourceLink  ResourceType = "link"
)

// Resource is an entry of the professor's content library.
// swagger:model Resource
type Resource struct {
	BaseModel
	Title           string                      `gorm:"size:255;not null" json:"title"`
	Type            ResourceType                `gorm:"size:20;index;not null" json:"type"`
	Category        string                      `gorm:"size:50" json:"category"`
	URL             string                      `gorm:"size:512" json:"url"`
	ObjectKey       string                      `gorm:"size:255" json:"-"`
	Size            int64                       `json:"size"`
	Description     string                      `gorm:"type:text" json:"description"`
	Tags            datatypes.JSONSlice[string] `json:"tags"`
	LessonIDs       datatypes.JSONSlice[uint]   `json:"lessonIds"`
	DurationSeconds float64                     `json:"durationSeconds,omitempty"`
	UploadedBy      uint                        `gorm:"index" json:"uploadedBy"`
}

func (Resource) TableName() string {
	return "resources"
}
