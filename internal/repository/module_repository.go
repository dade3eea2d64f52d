package repository

import (
	"python_tutor_backend/internal/model"

	"gorm.io/gorm"
)

type ModuleRepository struct {
	DB *gorm.DB
}

func NewModuleRepository(db *gorm.DB) *ModuleRepository {
	return &ModuleRepository{DB: db}
}

// FindStructure loads every module with its lessons, both ordered by sort_order.
func (r *ModuleRepository) FindStructure(publishedOnly bool) ([]model.Module, error) {
	var modules []model.Module

	query := r.DB.Order("sort_order ASC, id ASC")
	if publishedOnly {
		query = query.Where("published = ?", true)
	}

	err := query.Preload("Lessons", func(db *gorm.DB) *gorm.DB {
		if publishedOnly {
			db = db.Where("published = ?", true)
		}
		return db.Order("sort_order ASC, id ASC")
	}).Find(&modules).Error
	return modules, err
}

func (r *ModuleRepository) FindByID(id uint) (*model.Module, error) {
	var module model.Module
	err := r.DB.First(&module, id).Error
	return &module, err
}

func (r *ModuleRepository) Create(module *model.Module) error {
	return r.DB.Create(module).Error
}

func (r *ModuleRepository) Update(module *model.Module) error {
	return r.DB.Save(module).Error
}

// Delete removes the module together with its lessons.
func (r *ModuleRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("module_id = ?", id).Delete(&model.Lesson{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Module{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *ModuleRepository) Reorder(orders []model.ModuleOrder) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for _, o := range orders {
			if err := tx.Model(&model.Module{}).
				Where("id = ?", o.ID).
				Update("sort_order", o.Order).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ModuleRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Module{}).Count(&count).Error
	return count, err
}
