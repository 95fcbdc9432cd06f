package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"guildboard/internal/cache"
	"guildboard/internal/models"
	"guildboard/internal/repository"
	"guildboard/internal/validation"
)

// avatarSize is the square edge length avatars are normalized to.
const avatarSize = 256

const maxAvatarBytes = 5 << 20

type ProfileService struct {
	profileRepo repository.ProfileRepository
	userRepo    repository.UserRepository
	avatarDir   string
}

type UpdateProfileInput struct {
	UserID    uint
	Gender    string
	FirstName string
	LastName  string
}

func NewProfileService(profileRepo repository.ProfileRepository, userRepo repository.UserRepository, avatarDir string) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		userRepo:    userRepo,
		avatarDir:   avatarDir,
	}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.profileRepo.GetOrCreate(ctx, userID)
}

func (s *ProfileService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.Profile, error) {
	profile, err := s.profileRepo.GetOrCreate(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Gender != "" {
		if err := validation.ValidateGender(in.Gender); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		profile.Gender = in.Gender
	}
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	if in.FirstName != "" || in.LastName != "" {
		user, err := s.userRepo.GetByID(ctx, in.UserID)
		if err != nil {
			return nil, notFoundOr(err, "User", in.UserID)
		}
		if in.FirstName != "" {
			user.FirstName = in.FirstName
		}
		if in.LastName != "" {
			user.LastName = in.LastName
		}
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	cache.InvalidateUser(ctx, in.UserID)
	return s.profileRepo.GetByUserID(ctx, in.UserID)
}

// SetAvatar decodes the uploaded image, fits it into a 256px square and
// stores it as JPEG under the avatar directory, replacing any previous file.
func (s *ProfileService) SetAvatar(ctx context.Context, userID uint, data []byte) (*models.Profile, error) {
	if len(data) == 0 {
		return nil, models.NewValidationError("Avatar file is empty")
	}
	if len(data) > maxAvatarBytes {
		return nil, models.NewValidationError("Avatar file too large (max 5MB)")
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, models.NewValidationError("Avatar must be a valid image")
	}
	img = imaging.Fit(img, avatarSize, avatarSize, imaging.Lanczos)

	profile, err := s.profileRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.avatarDir, 0o755); err != nil {
		return nil, models.NewInternalError(err)
	}
	path := filepath.Join(s.avatarDir, fmt.Sprintf("user_%d.jpg", userID))
	if err := imaging.Save(img, path, imaging.JPEGQuality(85)); err != nil {
		return nil, models.NewInternalError(err)
	}

	profile.AvatarPath = path
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	cache.InvalidateUser(ctx, userID)
	return profile, nil
}
