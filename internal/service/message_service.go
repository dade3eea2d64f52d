package service

import (
	"errors"
	"python_tutor_backend/internal/model"
	"python_tutor_backend/internal/repository"
	"python_tutor_backend/internal/util"
	"strings"
	"time"

	"gorm.io/gorm"
)

var ErrInvalidStatus = errors.New("status must be one of pending, read, answered, closed")

type MessageService struct {
	Repo     MessageStore
	Notifier Notifier
}

func NewMessageService(repo MessageStore, notifier Notifier) *MessageService {
	return &MessageService{Repo: repo, Notifier: notifier}
}

// List applies the filter; students are always restricted to their own messages.
func (s *MessageService) List(requester *util.Claims, filter repository.MessageFilter) ([]model.StudentMessage, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if !requester.IsProfessor() {
		own := requester.UserID
		filter.StudentID = &own
	}

	list, err := s.Repo.List(filter)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []model.StudentMessage{}
	}
	return list, nil
}

func (s *MessageService) Create(requester *util.Claims, msg *model.StudentMessage) (*model.StudentMessage, error) {
	if requester.Role != model.Student {
		return nil, util.ErrNotStudent
	}

	msg.Subject = strings.TrimSpace(msg.Subject)
	msg.Message = strings.TrimSpace(msg.Message)
	if msg.Subject == "" || msg.Message == "" {
		return nil, util.ErrEmptyContent
	}
	if msg.Category == "" {
		msg.Category = "general"
	}
	msg.StudentID = requester.UserID
	msg.Status = model.MessagePending

	if err := s.Repo.Create(msg); err != nil {
		return nil, err
	}

	if s.Notifier != nil {
		s.Notifier.PushToRole(model.Professor, Notification{
			Type: NotifyNewMessage,
			Data: map[string]interface{}{
				"id":        msg.ID,
				"studentId": msg.StudentID,
				"subject":   msg.Subject,
				"category":  msg.Category,
			},
		})
	}
	return msg, nil
}

// Respond updates response and/or status. Omitted fields keep their stored values; a response without
// an explicit status marks the message as answered.
func (s *MessageService) Respond(requester *util.Claims, id uint, response string, status model.MessageStatus) (*model.StudentMessage, error) {
	if status != "" && !status.Valid() {
		return nil, ErrInvalidStatus
	}

	msg, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrMessageNotFound
		}
		return nil, err
	}

	response = strings.TrimSpace(response)
	if response != "" {
		now := time.Now()
		responder := requester.UserID
		msg.Response = response
		msg.RespondedBy = &responder
		msg.RespondedAt = &now
		if status == "" {
			status = model.MessageAnswered
		}
	}
	if status != "" {
		msg.Status = status
	}

	if err := s.Repo.Update(msg); err != nil {
		return nil, err
	}

	if response != "" && s.Notifier != nil {
		s.Notifier.PushToUsers([]uint{msg.StudentID}, Notification{
			Type: NotifyMessageAnswered,
			Data: map[string]interface{}{
				"id":       msg.ID,
				"subject":  msg.Subject,
				"response": msg.Response,
				"status":   msg.Status,
			},
		})
	}
	return msg, nil
}

func (s *MessageService) Delete(id uint) error {
	if err := s.Repo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrMessageNotFound
		}
		return err
	}
	return nil
}
