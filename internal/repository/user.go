package repository

import (
	"context"
	"errors"

	"guildboard/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByVerifyToken(ctx context.Context, token string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	AddToGroup(ctx context.Context, userID uint, group string) error
	IsInGroup(ctx context.Context, userID uint, group string) (bool, error)
}

// userRepository implements UserRepository
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Groups").
		First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns (nil, nil) when no user exists for the address.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Groups").
		Where("email = ?", email).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByVerifyToken returns (nil, nil) when no user holds the token.
func (r *userRepository) GetByVerifyToken(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("verify_token = ?", token).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// AddToGroup joins a user to a named group, creating the group row if the
// fixture has not run. Repeated calls are no-ops.
func (r *userRepository) AddToGroup(ctx context.Context, userID uint, group string) error {
	var g models.Group
	err := r.db.WithContext(ctx).
		Where(models.Group{Name: group}).
		FirstOrCreate(&g).Error
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Exec(
		"INSERT INTO user_groups (user_id, group_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		userID, g.ID,
	).Error
}

func (r *userRepository) IsInGroup(ctx context.Context, userID uint, group string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("user_groups").
		Joins("JOIN groups ON groups.id = user_groups.group_id").
		Where("user_groups.user_id = ? AND groups.name = ?", userID, group).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
