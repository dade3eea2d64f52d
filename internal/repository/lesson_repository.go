package repository

import (
	"python_tutor_backend/internal/model"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) FindByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.Preload("Module").First(&lesson, id).Error
	return &lesson, err
}

// FindAll returns the lessons in course order: by module, then by lesson order.
func (r *LessonRepository) FindAll() ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.
		Joins("JOIN modules ON modules.id = lessons.module_id AND modules.deleted_at IS NULL").
		Order("modules.sort_order ASC, lessons.sort_order ASC, lessons.id ASC").
		Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *LessonRepository) Update(lesson *model.Lesson) error {
	return r.DB.Omit("Module").Save(lesson).Error
}

func (r *LessonRepository) Delete(id uint) error {
	res := r.DB.Delete(&model.Lesson{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *LessonRepository) Reorder(orders []model.LessonOrder) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for _, o := range orders {
			updates := map[string]interface{}{"sort_order": o.Order}
			if o.ModuleID != nil {
				updates["module_id"] = *o.ModuleID
			}
			if err := tx.Model(&model.Lesson{}).Where("id = ?", o.ID).Updates(updates).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *LessonRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Lesson{}).Count(&count).Error
	return count, err
}
