package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guildboard/internal/models"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSetAvatar_ResizesAndStores(t *testing.T) {
	dir := t.TempDir()
	var saved *models.Profile

	profiles := noopProfileRepo()
	profiles.updateFn = func(ctx context.Context, p *models.Profile) error {
		saved = p
		return nil
	}
	svc := NewProfileService(profiles, noopUserRepo(), dir)

	profile, err := svc.SetAvatar(context.Background(), 1, encodePNG(t, 640, 480))
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, filepath.Join(dir, "user_1.jpg"), saved.AvatarPath)
	assert.Equal(t, saved.AvatarPath, profile.AvatarPath)

	stored, err := imaging.Open(saved.AvatarPath)
	require.NoError(t, err)
	bounds := stored.Bounds()
	assert.LessOrEqual(t, bounds.Dx(), 256)
	assert.LessOrEqual(t, bounds.Dy(), 256)
}

func TestSetAvatar_RejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	svc := NewProfileService(noopProfileRepo(), noopUserRepo(), dir)
	ctx := context.Background()

	t.Run("Empty", func(t *testing.T) {
		_, err := svc.SetAvatar(ctx, 1, nil)
		assertValidationError(t, err)
	})

	t.Run("Not An Image", func(t *testing.T) {
		_, err := svc.SetAvatar(ctx, 1, []byte("definitely not pixels"))
		assertValidationError(t, err)
	})

	t.Run("Too Large", func(t *testing.T) {
		_, err := svc.SetAvatar(ctx, 1, make([]byte, 6<<20))
		assertValidationError(t, err)
	})

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected uploads must not leave files behind")
}

func TestUpdateProfile_GenderValidation(t *testing.T) {
	svc := NewProfileService(noopProfileRepo(), noopUserRepo(), t.TempDir())

	_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 1, Gender: "dragon"})
	assertValidationError(t, err)
}

func TestUpdateProfile_SetsUserNames(t *testing.T) {
	var updatedUser *models.User
	users := noopUserRepo()
	users.updateFn = func(ctx context.Context, u *models.User) error {
		updatedUser = u
		return nil
	}
	svc := NewProfileService(noopProfileRepo(), users, t.TempDir())

	_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
		UserID:    1,
		FirstName: "Geralt",
		LastName:  "Rivia",
	})
	require.NoError(t, err)
	require.NotNil(t, updatedUser)
	assert.Equal(t, "Geralt", updatedUser.FirstName)
	assert.Equal(t, "Rivia", updatedUser.LastName)
}
