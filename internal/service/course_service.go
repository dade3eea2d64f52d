package service

import (
	"context"
	"encoding/json"
	"errors"
	"python_tutor_backend/internal/model"
	"python_tutor_backend/internal/util"
	"python_tutor_backend/pkg/logger"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	courseCachePrefix = "course:structure:"
	courseCacheTTL    = 10 * time.Minute
)

// ModulePatch carries a partial module update; nil fields keep their stored value.
type ModulePatch struct {
	Title     *string
	Order     *int
	Published *bool
}

type LessonPatch struct {
	Title     *string
	Content   *string
	Order     *int
	Published *bool
	ModuleID  *uint
}

type CourseService struct {
	ModuleRepo ModuleStore
	LessonRepo LessonStore
	Redis      *redis.Client
}

func NewCourseService(moduleRepo ModuleStore, lessonRepo LessonStore, rdb *redis.Client) *CourseService {
	return &CourseService{
		ModuleRepo: moduleRepo,
		LessonRepo: lessonRepo,
		Redis:      rdb,
	}
}

func structureScope(includeUnpublished bool) string {
	if includeUnpublished {
		return "all"
	}
	return "published"
}

// Structure returns every module with its lessons ordered ascending. Students only see published content.
func (s *CourseService) Structure(ctx context.Context, includeUnpublished bool) ([]model.Module, error) {
	key := courseCachePrefix + structureScope(includeUnpublished)

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, key).Bytes(); err == nil {
			var modules []model.Module
			if err := json.Unmarshal(cached, &modules); err == nil {
				return modules, nil
			}
		} else if err != redis.Nil {
			logger.Log.Debug("Course cache read failed", zap.Error(err))
		}
	}

	modules, err := s.ModuleRepo.FindStructure(!includeUnpublished)
	if err != nil {
		return nil, err
	}
	if modules == nil {
		modules = []model.Module{}
	}

	if s.Redis != nil {
		if data, err := json.Marshal(modules); err == nil {
			if err := s.Redis.Set(ctx, key, data, courseCacheTTL).Err(); err != nil {
				logger.Log.Debug("Course cache write failed", zap.Error(err))
			}
		}
	}
	return modules, nil
}

func (s *CourseService) invalidate(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, courseCachePrefix+"all", courseCachePrefix+"published").Err(); err != nil {
		logger.Log.Warn("Course cache invalidation failed", zap.Error(err))
	}
}

func (s *CourseService) CreateModule(ctx context.Context, title string, order *int, published *bool) (*model.Module, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, util.ErrEmptyContent
	}

	module := &model.Module{Title: title, Order: 1, Published: true, Lessons: []model.Lesson{}}
	if order != nil && *order != 0 {
		module.Order = *order
	}
	if published != nil {
		module.Published = *published
	}

	if err := s.ModuleRepo.Create(module); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return module, nil
}

func (s *CourseService) UpdateModule(ctx context.Context, id uint, patch ModulePatch) (*model.Module, error) {
	module, err := s.ModuleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, util.ErrEmptyContent
		}
		module.Title = title
	}
	if patch.Order != nil {
		module.Order = *patch.Order
	}
	if patch.Published != nil {
		module.Published = *patch.Published
	}

	if err := s.ModuleRepo.Update(module); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return module, nil
}

func (s *CourseService) DeleteModule(ctx context.Context, id uint) error {
	if err := s.ModuleRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrModuleNotFound
		}
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CourseService) ReorderModules(ctx context.Context, orders []model.ModuleOrder) error {
	if err := s.ModuleRepo.Reorder(orders); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CourseService) GetLesson(id uint) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	return lesson, nil
}

func (s *CourseService) CreateLesson(ctx context.Context, lesson *model.Lesson, order *int, published *bool) (*model.Lesson, error) {
	lesson.Title = strings.TrimSpace(lesson.Title)
	if lesson.Title == "" {
		return nil, util.ErrEmptyContent
	}
	if _, err := s.ModuleRepo.FindByID(lesson.ModuleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}

	lesson.Order = 1
	if order != nil && *order != 0 {
		lesson.Order = *order
	}
	lesson.Published = true
	if published != nil {
		lesson.Published = *published
	}

	if err := s.LessonRepo.Create(lesson); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return lesson, nil
}

func (s *CourseService) UpdateLesson(ctx context.Context, id uint, patch LessonPatch) (*model.Lesson, error) {
	lesson, err := s.GetLesson(id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, util.ErrEmptyContent
		}
		lesson.Title = title
	}
	if patch.Content != nil {
		lesson.Content = *patch.Content
	}
	if patch.Order != nil {
		lesson.Order = *patch.Order
	}
	if patch.Published != nil {
		lesson.Published = *patch.Published
	}
	if patch.ModuleID != nil && *patch.ModuleID != lesson.ModuleID {
		if _, err := s.ModuleRepo.FindByID(*patch.ModuleID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrModuleNotFound
			}
			return nil, err
		}
		lesson.ModuleID = *patch.ModuleID
		lesson.Module = nil
	}

	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return lesson, nil
}

func (s *CourseService) DeleteLesson(ctx context.Context, id uint) error {
	if err := s.LessonRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrLessonNotFound
		}
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CourseService) ReorderLessons(ctx context.Context, orders []model.LessonOrder) error {
	if err := s.LessonRepo.Reorder(orders); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}
