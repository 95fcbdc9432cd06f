package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"guildboard/internal/access"
	"guildboard/internal/models"
	"guildboard/internal/repository"
	"guildboard/internal/validation"
)

// Notifier receives domain events the service layer emits. Implementations
// must be best-effort; a Notifier can never fail a mutation.
type Notifier interface {
	PostCreated(ctx context.Context, post *models.Post)
}

type PostService struct {
	postRepo     repository.PostRepository
	profileRepo  repository.ProfileRepository
	categoryRepo repository.CategoryRepository
	userRepo     repository.UserRepository
	notifier     Notifier
}

type CreatePostInput struct {
	UserID     uint
	CategoryID uint
	Title      string
	Text       string
}

type ListPostsInput struct {
	Limit      int
	Offset     int
	CategoryID uint
}

type UpdatePostInput struct {
	UserID     uint
	PostID     uint
	CategoryID uint
	Title      string
	Text       string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(
	postRepo repository.PostRepository,
	profileRepo repository.ProfileRepository,
	categoryRepo repository.CategoryRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
) *PostService {
	return &PostService{
		postRepo:     postRepo,
		profileRepo:  profileRepo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
		notifier:     notifier,
	}
}

// CreatePost publishes a new post under a category and notifies the
// category's subscribers. Publishing requires authors group membership.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, notFoundOr(err, "User", in.UserID)
	}
	if !access.CanCreatePost(user) {
		return nil, models.NewUnauthorizedError("Only authors can publish posts")
	}

	title := strings.TrimSpace(in.Title)
	text := strings.TrimSpace(in.Text)
	if err := validation.ValidatePost(title, text); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if _, err := s.categoryRepo.GetByID(ctx, in.CategoryID); err != nil {
		return nil, notFoundOr(err, "Category", in.CategoryID)
	}

	// A profile may not exist yet for users who signed up via OAuth and
	// never touched their settings.
	profile, err := s.profileRepo.GetOrCreate(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		AuthorID:   profile.ID,
		CategoryID: in.CategoryID,
		Title:      title,
		Text:       text,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	created, err := s.postRepo.GetByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.PostCreated(ctx, created)
	}
	return created, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Post", id)
	}
	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	if in.CategoryID != 0 {
		if _, err := s.categoryRepo.GetByID(ctx, in.CategoryID); err != nil {
			return nil, notFoundOr(err, "Category", in.CategoryID)
		}
	}
	return s.postRepo.List(ctx, in.Limit, in.Offset, in.CategoryID)
}

// GetUserPosts lists the posts authored by the given user.
func (s *PostService) GetUserPosts(ctx context.Context, userID uint) ([]*models.Post, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []*models.Post{}, nil
		}
		return nil, err
	}
	return s.postRepo.GetByAuthor(ctx, profile.ID)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, notFoundOr(err, "Post", in.PostID)
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, notFoundOr(err, "User", in.UserID)
	}
	if !access.CanEditPost(user, post) {
		return nil, models.NewUnauthorizedError("You can only update your own posts")
	}

	title := post.Title
	if in.Title != "" {
		title = strings.TrimSpace(in.Title)
	}
	text := post.Text
	if in.Text != "" {
		text = strings.TrimSpace(in.Text)
	}
	if err := validation.ValidatePost(title, text); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.CategoryID != 0 && in.CategoryID != post.CategoryID {
		if _, err := s.categoryRepo.GetByID(ctx, in.CategoryID); err != nil {
			return nil, notFoundOr(err, "Category", in.CategoryID)
		}
		post.CategoryID = in.CategoryID
	}

	post.Title = title
	post.Text = text
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return notFoundOr(err, "Post", in.PostID)
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return notFoundOr(err, "User", in.UserID)
	}
	if !access.CanEditPost(user, post) {
		return models.NewUnauthorizedError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, in.PostID)
}

// notFoundOr maps a missing record to a NotFound error and passes every
// other failure through unchanged.
func notFoundOr(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return err
}
