package util

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailRegistered      = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrModuleNotFound       = errors.New("module not found")
	ErrLessonNotFound       = errors.New("lesson not found")
	ErrProgressNotFound     = errors.New("progress not found")
	ErrAnnouncementNotFound = errors.New("announcement not found")
	ErrMessageNotFound      = errors.New("message not found")
	ErrResourceNotFound     = errors.New("resource not found")
	ErrNotProfessor         = errors.New("only professors can perform this action")
	ErrNotStudent           = errors.New("only students can perform this action")
	ErrInvalidRating        = errors.New("rating must be a number between 1 and 5")
	ErrEmptyContent         = errors.New("content must not be empty")
	ErrAINotConfigured      = errors.New("generative AI API key is not configured")
	ErrUnsupportedFile      = errors.New("unsupported file type")
)
