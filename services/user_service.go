package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/masters-arena/arena-server/models"
	"github.com/masters-arena/arena-server/repositories"
	"github.com/masters-arena/arena-server/storage"
)

type UpdateProfileInput struct {
	Username    *string `json:"username,omitempty"`
	DisplayName *string `json:"display_name,omitempty"`
}

type UserService interface {
	GetProfile(ctx context.Context, userID int) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID int, input UpdateProfileInput) (*models.Profile, error)
	UploadAvatar(ctx context.Context, userID int, filename, contentType string, file io.Reader) (*models.Profile, error)
}

type userService struct {
	profileRepo repositories.ProfileRepository
	uploader    storage.FileUploader
}

func NewUserService(profileRepo repositories.ProfileRepository, uploader storage.FileUploader) UserService {
	return &userService{profileRepo: profileRepo, uploader: uploader}
}

func (s *userService) GetProfile(ctx context.Context, userID int) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	s.attachAvatarURL(profile)
	return profile, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID int, input UpdateProfileInput) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	if input.Username != nil {
		profile.Username = input.Username
	}
	if input.DisplayName != nil {
		profile.DisplayName = input.DisplayName
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	s.attachAvatarURL(profile)
	return profile, nil
}

func (s *userService) UploadAvatar(ctx context.Context, userID int, filename, contentType string, file io.Reader) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	key := fmt.Sprintf("avatars/%d/%d%s", userID, time.Now().UnixNano(), ext)

	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	oldKey := profile.AvatarKey
	if err := s.profileRepo.UpdateAvatarKey(ctx, userID, &result.Key); err != nil {
		// Roll back the orphaned object; the profile still points at
		// the previous avatar.
		_ = s.uploader.Delete(ctx, result.Key)
		return nil, fmt.Errorf("failed to save avatar key: %w", err)
	}

	if oldKey != nil && *oldKey != "" && *oldKey != result.Key {
		// Best effort; a leaked old object is not worth failing the
		// request over.
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	profile.AvatarKey = &result.Key
	s.attachAvatarURL(profile)
	return profile, nil
}

func (s *userService) attachAvatarURL(p *models.Profile) {
	if s.uploader == nil || p.AvatarKey == nil || *p.AvatarKey == "" {
		return
	}
	url := s.uploader.GetPublicURL(*p.AvatarKey)
	p.AvatarURL = &url
}
