package repository

import (
	"python_tutor_backend/internal/model"

	"gorm.io/gorm"
)

type MessageFilter struct {
	StudentID *uint
	Status    model.MessageStatus
}

type MessageRepository struct {
	DB *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{DB: db}
}

func (r *MessageRepository) List(filter MessageFilter) ([]model.StudentMessage, error) {
	var list []model.StudentMessage
	query := r.DB.Preload("Student").Order("created_at DESC")
	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	err := query.Find(&list).Error
	return list, err
}

func (r *MessageRepository) FindByID(id uint) (*model.StudentMessage, error) {
	var msg model.StudentMessage
	err := r.DB.Preload("Student").First(&msg, id).Error
	return &msg, err
}

func (r *MessageRepository) Create(msg *model.StudentMessage) error {
	return r.DB.Create(msg).Error
}

func (r *MessageRepository) Update(msg *model.StudentMessage) error {
	return r.DB.Omit("Student").Save(msg).Error
}

func (r *MessageRepository) Delete(id uint) error {
	res := r.DB.Delete(&model.StudentMessage{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *MessageRepository) CountByStatus(status model.MessageStatus) (int64, error) {
	var count int64
	err := r.DB.Model(&model.StudentMessage{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
