package repository

import (
	"context"

	"guildboard/internal/cache"
	"guildboard/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CategoryRepository defines the interface for category and subscription data operations
type CategoryRepository interface {
	List(ctx context.Context) ([]*models.Category, error)
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	Subscribe(ctx context.Context, categoryID, userID uint) error
	IsSubscribed(ctx context.Context, categoryID, userID uint) (bool, error)
	Subscribers(ctx context.Context, categoryID uint) ([]*models.User, error)
	ListForUser(ctx context.Context, userID uint) ([]*models.Category, error)
	Delete(ctx context.Context, id uint) error
}

// categoryRepository implements CategoryRepository
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	err := r.db.WithContext(ctx).Order("id").Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// Subscribe adds the user to the category's subscriber list. The composite
// unique index on (category_id, user_id) makes repeated calls no-ops.
func (r *categoryRepository) Subscribe(ctx context.Context, categoryID, userID uint) error {
	row := models.CategoryUser{CategoryID: categoryID, UserID: userID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "category_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&row).Error
}

func (r *categoryRepository) IsSubscribed(ctx context.Context, categoryID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CategoryUser{}).
		Where("category_id = ? AND user_id = ?", categoryID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *categoryRepository) Subscribers(ctx context.Context, categoryID uint) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN category_users ON category_users.user_id = users.id").
		Where("category_users.category_id = ?", categoryID).
		Find(&users).Error
	return users, err
}

func (r *categoryRepository) ListForUser(ctx context.Context, userID uint) ([]*models.Category, error) {
	var categories []*models.Category
	err := r.db.WithContext(ctx).
		Joins("JOIN category_users ON category_users.category_id = categories.id").
		Where("category_users.user_id = ?", userID).
		Order("categories.id").
		Find(&categories).Error
	return categories, err
}

// Delete removes a category together with its posts, their responses, and
// its subscriptions. The cascade is explicit so it behaves identically on
// Postgres and the sqlite test databases. Cached detail pages of the
// removed posts are invalidated once the transaction commits.
func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	var postIDs []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).
			Where("category_id = ?", id).
			Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		if err := tx.
			Where("post_id IN (?)", tx.Model(&models.Post{}).Select("id").Where("category_id = ?", id)).
			Delete(&models.Response{}).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", id).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", id).Delete(&models.CategoryUser{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Category{}, id).Error
	})
	if err != nil {
		return err
	}
	for _, postID := range postIDs {
		cache.InvalidatePost(ctx, postID)
	}
	return nil
}
