package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"os"
	"path/filepath"
	"python_tutor_backend/internal/model"
	"python_tutor_backend/internal/util"
	"python_tutor_backend/pkg/logger"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrInvalidResourceURL = errors.New("a valid http(s) url is required for link resources")

type ResourceInput struct {
	Title       string
	Type        model.ResourceType
	Category    string
	Description string
	URL         string
	Tags        []string
	LessonIDs   []uint
}

type ResourceService struct {
	Repo    ResourceStore
	Storage *StorageService

	probe func(path string) (*util.VideoInfo, error)
}

func NewResourceService(repo ResourceStore, storage *StorageService) *ResourceService {
	return &ResourceService{Repo: repo, Storage: storage, probe: util.GetVideoInfo}
}

func (s *ResourceService) List(resourceType model.ResourceType) ([]model.Resource, error) {
	list, err := s.Repo.FindAll(resourceType)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []model.Resource{}
	}
	return list, nil
}

// Create stores a link resource, or uploads file and stores it with its detected type.
func (s *ResourceService) Create(ctx context.Context, uploaderID uint, in ResourceInput, file *multipart.FileHeader) (*model.Resource, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, util.ErrEmptyContent
	}

	res := &model.Resource{
		Title:       in.Title,
		Type:        in.Type,
		Category:    in.Category,
		Description: in.Description,
		Tags:        in.Tags,
		LessonIDs:   in.LessonIDs,
		UploadedBy:  uploaderID,
	}
	if res.Tags == nil {
		res.Tags = []string{}
	}
	if res.LessonIDs == nil {
		res.LessonIDs = []uint{}
	}

	if file == nil {
		u, err := url.Parse(strings.TrimSpace(in.URL))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, ErrInvalidResourceURL
		}
		res.URL = u.String()
		if res.Type == "" {
			res.Type = model.ResourceLink
		}
	} else if err := s.storeFile(ctx, res, file); err != nil {
		return nil, err
	}

	if err := s.Repo.Create(res); err != nil {
		if res.ObjectKey != "" {
			s.Storage.Delete(ctx, res.ObjectKey)
		}
		return nil, err
	}
	return res, nil
}

func detectResourceType(filename, mimeType string) (model.ResourceType, bool) {
	switch {
	case util.IsVideo(mimeType), mimeType == util.MimeOctetStream && util.HasExtension(filename, util.AllowedVideoExtensions):
		return model.ResourceVideo, true
	case mimeType == util.MimePDF:
		return model.ResourcePDF, true
	case strings.HasPrefix(mimeType, util.MimeText) && util.HasExtension(filename, util.AllowedCodeExtensions):
		return model.ResourceCode, true
	}
	return "", false
}

func (s *ResourceService) storeFile(ctx context.Context, res *model.Resource, header *multipart.FileHeader) error {
	if header.Size > util.MaxUploadSize {
		return fmt.Errorf("%w: file exceeds %d MB", util.ErrUnsupportedFile, util.MaxUploadSize>>20)
	}

	f, err := header.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	mimeType, err := util.DetectMimeType(f)
	if err != nil {
		return err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}

	detected, ok := detectResourceType(header.Filename, mimeType)
	if !ok {
		return fmt.Errorf("%w: %s", util.ErrUnsupportedFile, mimeType)
	}
	if res.Type != "" && res.Type != detected {
		return fmt.Errorf("%w: declared %s but file is %s", util.ErrUnsupportedFile, res.Type, detected)
	}
	res.Type = detected
	res.Size = header.Size

	ext := strings.ToLower(filepath.Ext(header.Filename))
	res.ObjectKey = fmt.Sprintf("resources/%s/%s%s", res.Type, uuid.New().String(), ext)

	if res.Type != model.ResourceVideo {
		res.URL, err = s.Storage.Upload(ctx, res.ObjectKey, f, header.Size, mimeType)
		return err
	}

	// videos are staged on disk so ffprobe can read them
	tmp, err := os.CreateTemp("", "upload-*"+ext)
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, f); err != nil {
		tmp.Close()
		return err
	}
	tmp.Close()

	if info, err := s.probe(tmp.Name()); err != nil {
		logger.Log.Warn("Video probe failed", zap.String("file", header.Filename), zap.Error(err))
	} else {
		res.DurationSeconds = info.Duration
	}

	res.URL, err = s.Storage.UploadFile(ctx, res.ObjectKey, tmp.Name(), mimeType)
	return err
}

func (s *ResourceService) Delete(ctx context.Context, id uint) error {
	res, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrResourceNotFound
		}
		return err
	}

	if res.ObjectKey != "" {
		if err := s.Storage.Delete(ctx, res.ObjectKey); err != nil {
			logger.Log.Warn("Failed to delete stored object",
				zap.Uint("resourceId", id), zap.String("key", res.ObjectKey), zap.Error(err))
		}
	}
	return s.Repo.Delete(id)
}
