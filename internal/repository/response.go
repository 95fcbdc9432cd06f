package repository

import (
	"context"

	"guildboard/internal/cache"
	"guildboard/internal/models"

	"gorm.io/gorm"
)

// ResponseRepository defines the interface for response data operations
type ResponseRepository interface {
	Create(ctx context.Context, response *models.Response) error
	GetByIDAndPost(ctx context.Context, id, postID uint) (*models.Response, error)
	ListByPost(ctx context.Context, postID uint) ([]*models.Response, error)
	ListForAuthor(ctx context.Context, profileID uint, limit, offset int) ([]*models.Response, error)
	Update(ctx context.Context, response *models.Response) error
	UpdateStatus(ctx context.Context, response *models.Response, status models.ResponseStatus) error
	Delete(ctx context.Context, response *models.Response) error
}

// responseRepository implements ResponseRepository
type responseRepository struct {
	db *gorm.DB
}

// NewResponseRepository creates a new response repository
func NewResponseRepository(db *gorm.DB) ResponseRepository {
	return &responseRepository{db: db}
}

func (r *responseRepository) Create(ctx context.Context, response *models.Response) error {
	err := r.db.WithContext(ctx).Create(response).Error
	if err == nil {
		cache.InvalidatePost(ctx, response.PostID)
	}
	return err
}

// GetByIDAndPost looks a response up by its id scoped to a post; an id pair
// that does not correspond yields gorm.ErrRecordNotFound.
func (r *responseRepository) GetByIDAndPost(ctx context.Context, id, postID uint) (*models.Response, error) {
	var response models.Response
	err := r.db.WithContext(ctx).
		Preload("Post").
		Preload("Post.Author").
		Preload("User").
		Where("id = ? AND post_id = ?", id, postID).
		First(&response).Error
	if err != nil {
		return nil, err
	}
	return &response, nil
}

func (r *responseRepository) ListByPost(ctx context.Context, postID uint) ([]*models.Response, error) {
	var responses []*models.Response
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&responses).Error
	return responses, err
}

// ListForAuthor returns the responses submitted to any post authored by the
// given profile, newest first.
func (r *responseRepository) ListForAuthor(ctx context.Context, profileID uint, limit, offset int) ([]*models.Response, error) {
	var responses []*models.Response
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Post").
		Joins("JOIN posts ON posts.id = responses.post_id").
		Where("posts.author_id = ?", profileID).
		Order("responses.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&responses).Error
	return responses, err
}

func (r *responseRepository) Update(ctx context.Context, response *models.Response) error {
	err := r.db.WithContext(ctx).Save(response).Error
	if err == nil {
		cache.InvalidatePost(ctx, response.PostID)
	}
	return err
}

func (r *responseRepository) UpdateStatus(ctx context.Context, response *models.Response, status models.ResponseStatus) error {
	err := r.db.WithContext(ctx).
		Model(response).
		Update("status", status).Error
	if err == nil {
		response.Status = status
		cache.InvalidatePost(ctx, response.PostID)
	}
	return err
}

func (r *responseRepository) Delete(ctx context.Context, response *models.Response) error {
	err := r.db.WithContext(ctx).Delete(response).Error
	if err == nil {
		cache.InvalidatePost(ctx, response.PostID)
	}
	return err
}
