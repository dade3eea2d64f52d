package service

import (
	"errors"
	"python_tutor_backend/internal/model"
	"python_tutor_backend/internal/util"
	"strings"

	"gorm.io/gorm"
)

// Notifier delivers live events to connected clients. NotificationHub implements it.
type Notifier interface {
	PushToUsers(userIDs []uint, msg Notification)
	PushToRole(role model.UserRole, msg Notification)
	Broadcast(msg Notification)
}

var ErrInvalidPriority = errors.New("priority must be one of low, normal, high")

type AnnouncementPatch struct {
	Title     *string
	Message   *string
	Priority  *model.AnnouncementPriority
	Published *bool
}

type AnnouncementService struct {
	Repo     AnnouncementStore
	Notifier Notifier
}

func NewAnnouncementService(repo AnnouncementStore, notifier Notifier) *AnnouncementService {
	return &AnnouncementService{Repo: repo, Notifier: notifier}
}

func (s *AnnouncementService) List(includeUnpublished bool) ([]model.Announcement, error) {
	list, err := s.Repo.FindAll(!includeUnpublished)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []model.Announcement{}
	}
	return list, nil
}

// Create stores the announcement; published ones are pushed to every connected client.
func (s *AnnouncementService) Create(a *model.Announcement, published *bool) (*model.Announcement, error) {
	a.Title = strings.TrimSpace(a.Title)
	a.Message = strings.TrimSpace(a.Message)
	if a.Title == "" || a.Message == "" {
		return nil, util.ErrEmptyContent
	}
	if a.Priority == "" {
		a.Priority = model.PriorityNormal
	}
	if !a.Priority.Valid() {
		return nil, ErrInvalidPriority
	}
	a.Published = true
	if published != nil {
		a.Published = *published
	}

	if err := s.Repo.Create(a); err != nil {
		return nil, err
	}

	if a.Published {
		s.announce(a)
	}
	return a, nil
}

func (s *AnnouncementService) Update(id uint, patch AnnouncementPatch) (*model.Announcement, error) {
	a, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAnnouncementNotFound
		}
		return nil, err
	}
	wasPublished := a.Published

	if patch.Title != nil && strings.TrimSpace(*patch.Title) != "" {
		a.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Message != nil && strings.TrimSpace(*patch.Message) != "" {
		a.Message = strings.TrimSpace(*patch.Message)
	}
	if patch.Priority != nil && *patch.Priority != "" {
		if !patch.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		a.Priority = *patch.Priority
	}
	if patch.Published != nil {
		a.Published = *patch.Published
	}

	if err := s.Repo.Update(a); err != nil {
		return nil, err
	}

	if a.Published && !wasPublished {
		s.announce(a)
	}
	return a, nil
}

func (s *AnnouncementService) Delete(id uint) error {
	if err := s.Repo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrAnnouncementNotFound
		}
		return err
	}
	return nil
}

func (s *AnnouncementService) announce(a *model.Announcement) {
	if s.Notifier == nil {
		return
	}
	s.Notifier.Broadcast(Notification{
		Type: NotifyAnnouncement,
		Data: map[string]interface{}{
			"id":       a.ID,
			"title":    a.Title,
			"message":  a.Message,
			"priority": a.Priority,
		},
	})
}
