package service

import (
	"python_tutor_backend/internal/model"
	"python_tutor_backend/internal/repository"
	"time"
)

// Storage contracts the services depend on. The gorm repositories satisfy them; tests use in-memory fakes.

type UserStore interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByRole(role model.UserRole) ([]model.User, error)
	CountByRole(role model.UserRole) (int64, error)
	Update(user *model.User) error
	TouchLastSeen(userID uint, at time.Time) error
}

type ModuleStore interface {
	FindStructure(publishedOnly bool) ([]model.Module, error)
	FindByID(id uint) (*model.Module, error)
	Create(module *model.Module) error
	Update(module *model.Module) error
	Delete(id uint) error
	Reorder(orders []model.ModuleOrder) error
	Count() (int64, error)
}

type LessonStore interface {
	FindByID(id uint) (*model.Lesson, error)
	FindAll() ([]model.Lesson, error)
	Create(lesson *model.Lesson) error
	Update(lesson *model.Lesson) error
	Delete(id uint) error
	Reorder(orders []model.LessonOrder) error
	Count() (int64, error)
}

type ProgressStore interface {
	FindByID(id uint) (*model.Progress, error)
	FindByUser(userID uint) ([]model.Progress, error)
	Upsert(progress *model.Progress) error
	CountCompleted() (int64, error)
}

type FeedbackStore interface {
	Create(feedback *model.Feedback) error
	FindByStudent(studentID uint) ([]model.Feedback, error)
}

type AnnouncementStore interface {
	FindAll(publishedOnly bool) ([]model.Announcement, error)
	FindByID(id uint) (*model.Announcement, error)
	Create(a *model.Announcement) error
	Update(a *model.Announcement) error
	Delete(id uint) error
	Count() (int64, error)
}

type MessageStore interface {
	List(filter repository.MessageFilter) ([]model.StudentMessage, error)
	FindByID(id uint) (*model.StudentMessage, error)
	Create(msg *model.StudentMessage) error
	Update(msg *model.StudentMessage) error
	Delete(id uint) error
	CountByStatus(status model.MessageStatus) (int64, error)
}

type ActivityStore interface {
	Create(log *model.ActivityLog) error
	FindByUserAndType(userID uint, eventType model.EventType) ([]model.ActivityLog, error)
	LastActivityByUser() (map[uint]time.Time, error)
	CountActiveUsersSince(since time.Time) (int64, error)
}

type DashboardStore interface {
	ProgressStatsByUser() (map[uint]repository.UserProgressStats, error)
	CompletionsByLesson() (map[uint]int, error)
}

type ResourceStore interface {
	Create(resource *model.Resource) error
	FindByID(id uint) (*model.Resource, error)
	FindAll(resourceType model.ResourceType) ([]model.Resource, error)
	Delete(id uint) error
}
