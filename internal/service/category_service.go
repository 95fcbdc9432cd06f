package service

import (
	"context"

	"guildboard/internal/models"
	"guildboard/internal/repository"
)

type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *CategoryService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Category", id)
	}
	return category, nil
}

// Subscribe adds the user to the category's subscriber list. Subscribing
// twice is a no-op; the subscription row is unique per category and user.
func (s *CategoryService) Subscribe(ctx context.Context, categoryID, userID uint) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, notFoundOr(err, "Category", categoryID)
	}
	if err := s.categoryRepo.Subscribe(ctx, categoryID, userID); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) IsSubscribed(ctx context.Context, categoryID, userID uint) (bool, error) {
	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		return false, notFoundOr(err, "Category", categoryID)
	}
	return s.categoryRepo.IsSubscribed(ctx, categoryID, userID)
}

// ListSubscriptions returns the categories the user is subscribed to.
func (s *CategoryService) ListSubscriptions(ctx context.Context, userID uint) ([]*models.Category, error) {
	return s.categoryRepo.ListForUser(ctx, userID)
}
