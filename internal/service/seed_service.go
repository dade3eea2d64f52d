package service

import (
	_ "embed"
	"errors"
	"fmt"
	"python_tutor_backend/internal/model"
	"python_tutor_backend/pkg/logger"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

const (
	DemoStudentEmail   = "estudiante@test.com"
	DemoProfessorEmail = "profesor@test.com"
	DemoPassword       = "password123"
)

//go:embed seed_data.yaml
var seedData []byte

type seedFixture struct {
	Module struct {
		Title   string `yaml:"title"`
		Order   int    `yaml:"order"`
		Lessons []struct {
			Title   string `yaml:"title"`
			Content string `yaml:"content"`
		} `yaml:"lessons"`
	} `yaml:"module"`
	Announcements []struct {
		Title    string                     `yaml:"title"`
		Message  string                     `yaml:"message"`
		Priority model.AnnouncementPriority `yaml:"priority"`
	} `yaml:"announcements"`
}

func loadSeedFixture() (*seedFixture, error) {
	var f seedFixture
	if err := yaml.Unmarshal(seedData, &f); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	return &f, nil
}

type SeedUser struct {
	Email   string         `json:"email"`
	Role    model.UserRole `json:"role"`
	Created bool           `json:"created"`
}

// SeedResult reports what the demo seed created; existing data is left untouched.
type SeedResult struct {
	Users              []SeedUser `json:"users"`
	Module             string     `json:"module,omitempty"`
	LessonsCount       int        `json:"lessonsCount"`
	AnnouncementsCount int        `json:"announcementsCount"`
}

type SeedService struct {
	UserRepo         UserStore
	ModuleRepo       ModuleStore
	LessonRepo       LessonStore
	AnnouncementRepo AnnouncementStore
}

func NewSeedService(userRepo UserStore, moduleRepo ModuleStore, lessonRepo LessonStore, announcementRepo AnnouncementStore) *SeedService {
	return &SeedService{
		UserRepo:         userRepo,
		ModuleRepo:       moduleRepo,
		LessonRepo:       lessonRepo,
		AnnouncementRepo: announcementRepo,
	}
}

func (s *SeedService) Seed() (*SeedResult, error) {
	fixture, err := loadSeedFixture()
	if err != nil {
		return nil, err
	}
	result := &SeedResult{}

	student, created, err := s.ensureUser(DemoStudentEmail, "Estudiante Demo", model.Student)
	if err != nil {
		return nil, err
	}
	result.Users = append(result.Users, SeedUser{Email: student.Email, Role: student.Role, Created: created})

	professor, created, err := s.ensureUser(DemoProfessorEmail, "Profesor Demo", model.Professor)
	if err != nil {
		return nil, err
	}
	result.Users = append(result.Users, SeedUser{Email: professor.Email, Role: professor.Role, Created: created})

	modules, err := s.ModuleRepo.Count()
	if err != nil {
		return nil, err
	}
	if modules == 0 {
		if err := s.seedCourse(fixture, result); err != nil {
			return nil, err
		}
	}

	announcements, err := s.AnnouncementRepo.Count()
	if err != nil {
		return nil, err
	}
	if announcements == 0 {
		if err := s.seedAnnouncements(fixture, professor.ID, result); err != nil {
			return nil, err
		}
	}

	logger.Log.Info("Demo data seeded",
		zap.String("module", result.Module),
		zap.Int("lessons", result.LessonsCount),
		zap.Int("announcements", result.AnnouncementsCount))
	return result, nil
}

func (s *SeedService) ensureUser(email, name string, role model.UserRole) (*model.User, bool, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	hashed, err := HashPassword(DemoPassword)
	if err != nil {
		return nil, false, err
	}
	user = &model.User{Name: name, Email: email, Password: hashed, Role: role}
	if err := s.UserRepo.Create(user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (s *SeedService) seedCourse(fixture *seedFixture, result *SeedResult) error {
	module := &model.Module{Title: fixture.Module.Title, Order: fixture.Module.Order, Published: true}
	if err := s.ModuleRepo.Create(module); err != nil {
		return err
	}
	result.Module = module.Title

	for i, l := range fixture.Module.Lessons {
		lesson := &model.Lesson{
			ModuleID:  module.ID,
			Title:     l.Title,
			Content:   l.Content,
			Order:     i + 1,
			Published: true,
		}
		if err := s.LessonRepo.Create(lesson); err != nil {
			return err
		}
	}
	result.LessonsCount = len(fixture.Module.Lessons)
	return nil
}

func (s *SeedService) seedAnnouncements(fixture *seedFixture, professorID uint, result *SeedResult) error {
	for _, a := range fixture.Announcements {
		announcement := &model.Announcement{
			Title:       a.Title,
			Message:     a.Message,
			Priority:    a.Priority,
			Published:   true,
			ProfessorID: professorID,
		}
		if err := s.AnnouncementRepo.Create(announcement); err != nil {
			return err
		}
	}
	result.AnnouncementsCount = len(fixture.Announcements)
	return nil
}
