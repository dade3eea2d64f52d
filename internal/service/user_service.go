package service

import (
	"errors"
	"python_tutor_backend/internal/model"
	"python_tutor_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

type UserService struct {
	UserRepo UserStore
}

func NewUserService(userRepo UserStore) *UserService {
	return &UserService{
		UserRepo: userRepo,
	}
}

func (s *UserService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateLastSeen(userID uint) error {
	return s.UserRepo.TouchLastSeen(userID, time.Now())
}

func (s *UserService) Students() ([]model.User, error) {
	return s.UserRepo.FindByRole(model.Student)
}
