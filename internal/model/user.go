package model

import (
	"time"
)

type UserRole string

const (
	Student   UserRole = "STUDENT"
	Professor UserRole = "PROFESSOR"
	Admin     UserRole = "ADMIN"
)

// swagger:model User
type User struct {
	BaseModel
	Name     string     `gorm:"size:100;not null" json:"name"`
	Email    string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password string     `gorm:"size:100;not null" json:"-"`
	Role     UserRole   `gorm:"size:20;index;not null" json:"role"`
	LastSeen *time.Time `json:"lastSeen,omitempty"`

	Progress []Progress `gorm:"foreignKey:UserID" json:"progress,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// UserSummary is the public projection of a user embedded in other responses.
type UserSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}
