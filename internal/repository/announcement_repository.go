package repository

import (
	"python_tutor_backend/internal/model"

	"gorm.io/gorm"
)

type AnnouncementRepository struct {
	DB *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) *AnnouncementRepository {
	return &AnnouncementRepository{DB: db}
}

func (r *AnnouncementRepository) FindAll(publishedOnly bool) ([]model.Announcement, error) {
	var list []model.Announcement
	query := r.DB.Preload("Professor").Order("created_at DESC")
	if publishedOnly {
		query = query.Where("published = ?", true)
	}
	err := query.Find(&list).Error
	return list, err
}

func (r *AnnouncementRepository) FindByID(id uint) (*model.Announcement, error) {
	var a model.Announcement
	err := r.DB.Preload("Professor").First(&a, id).Error
	return &a, err
}

func (r *AnnouncementRepository) Create(a *model.Announcement) error {
	return r.DB.Create(a).Error
}

func (r *AnnouncementRepository) Update(a *model.Announcement) error {
	return r.DB.Omit("Professor").Save(a).Error
}

func (r *AnnouncementRepository) Delete(id uint) error {
	res := r.DB.Delete(&model.Announcement{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *AnnouncementRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Announcement{}).Count(&count).Error
	return count, err
}
