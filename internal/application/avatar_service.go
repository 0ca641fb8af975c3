package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/devconnector/internal/domain/entity"
	repo "github.com/oksasatya/devconnector/internal/domain/repository"
	"github.com/oksasatya/devconnector/pkg/helpers"
)

// AvatarService replaces a user's Gravatar with an uploaded image.
// Posts and comments keep the avatar they were written with.
type AvatarService struct {
	Users    repo.UserRepository
	Uploader helpers.ObjectUploader // optional
	Logger   *logrus.Logger
}

func NewAvatarService(users repo.UserRepository, uploader helpers.ObjectUploader, logger *logrus.Logger) *AvatarService {
	return &AvatarService{Users: users, Uploader: uploader, Logger: logger}
}

func (s *AvatarService) Upload(ctx context.Context, userID string, r io.Reader, filename, contentType string) (*entity.User, error) {
	if s.Uploader == nil {
		return nil, ErrAvatarUnavailable
	}
	if _, err := s.Users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", userID, uuid.NewString()+ext))
	url, err := s.Uploader.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Error("avatar upload failed")
		}
		return nil, err
	}
	if err := s.Users.UpdateAvatar(ctx, userID, url); err != nil {
		return nil, err
	}
	return s.Users.GetByID(ctx, userID)
}
