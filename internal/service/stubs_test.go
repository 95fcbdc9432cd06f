package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guildboard/internal/models"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn      func(context.Context, *models.Post) error
	getByIDFn     func(context.Context, uint) (*models.Post, error)
	listFn        func(context.Context, int, int, uint) ([]*models.Post, error)
	getByAuthorFn func(context.Context, uint) ([]*models.Post, error)
	listSinceFn   func(context.Context, uint, time.Time) ([]*models.Post, error)
	updateFn      func(context.Context, *models.Post) error
	deleteFn      func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int, categoryID uint) ([]*models.Post, error) {
	return s.listFn(ctx, limit, offset, categoryID)
}
func (s *postRepoStub) GetByAuthor(ctx context.Context, profileID uint) ([]*models.Post, error) {
	return s.getByAuthorFn(ctx, profileID)
}
func (s *postRepoStub) ListByCategorySince(ctx context.Context, categoryID uint, since time.Time) ([]*models.Post, error) {
	return s.listSinceFn(ctx, categoryID, since)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, p *models.Post) error {
			p.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 1, CategoryID: 1, Title: "Title", Text: "Text",
				Author: models.Profile{ID: 1, UserID: 1}}, nil
		},
		listFn:        func(_ context.Context, _, _ int, _ uint) ([]*models.Post, error) { return nil, nil },
		getByAuthorFn: func(_ context.Context, _ uint) ([]*models.Post, error) { return nil, nil },
		listSinceFn:   func(_ context.Context, _ uint, _ time.Time) ([]*models.Post, error) { return nil, nil },
		updateFn:      func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:      func(_ context.Context, _ uint) error { return nil },
	}
}

// profileRepoStub is a stub for repository.ProfileRepository.
type profileRepoStub struct {
	getOrCreateFn func(context.Context, uint) (*models.Profile, error)
	getByUserIDFn func(context.Context, uint) (*models.Profile, error)
	getByIDFn     func(context.Context, uint) (*models.Profile, error)
	updateFn      func(context.Context, *models.Profile) error
}

func (s *profileRepoStub) GetOrCreate(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.getOrCreateFn(ctx, userID)
}
func (s *profileRepoStub) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.getByUserIDFn(ctx, userID)
}
func (s *profileRepoStub) GetByID(ctx context.Context, id uint) (*models.Profile, error) {
	return s.getByIDFn(ctx, id)
}
func (s *profileRepoStub) Update(ctx context.Context, profile *models.Profile) error {
	return s.updateFn(ctx, profile)
}

func noopProfileRepo() *profileRepoStub {
	return &profileRepoStub{
		getOrCreateFn: func(_ context.Context, userID uint) (*models.Profile, error) {
			return &models.Profile{ID: userID, UserID: userID, Gender: "male"}, nil
		},
		getByUserIDFn: func(_ context.Context, userID uint) (*models.Profile, error) {
			return &models.Profile{ID: userID, UserID: userID, Gender: "male"}, nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Profile, error) {
			return &models.Profile{ID: id, UserID: id}, nil
		},
		updateFn: func(_ context.Context, _ *models.Profile) error { return nil },
	}
}

// categoryRepoStub is a stub for repository.CategoryRepository.
type categoryRepoStub struct {
	listFn         func(context.Context) ([]*models.Category, error)
	getByIDFn      func(context.Context, uint) (*models.Category, error)
	subscribeFn    func(context.Context, uint, uint) error
	isSubscribedFn func(context.Context, uint, uint) (bool, error)
	subscribersFn  func(context.Context, uint) ([]*models.User, error)
	listForUserFn  func(context.Context, uint) ([]*models.Category, error)
	deleteFn       func(context.Context, uint) error
}

func (s *categoryRepoStub) List(ctx context.Context) ([]*models.Category, error) {
	return s.listFn(ctx)
}
func (s *categoryRepoStub) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	return s.getByIDFn(ctx, id)
}
func (s *categoryRepoStub) Subscribe(ctx context.Context, categoryID, userID uint) error {
	return s.subscribeFn(ctx, categoryID, userID)
}
func (s *categoryRepoStub) IsSubscribed(ctx context.Context, categoryID, userID uint) (bool, error) {
	return s.isSubscribedFn(ctx, categoryID, userID)
}
func (s *categoryRepoStub) Subscribers(ctx context.Context, categoryID uint) ([]*models.User, error) {
	return s.subscribersFn(ctx, categoryID)
}
func (s *categoryRepoStub) ListForUser(ctx context.Context, userID uint) ([]*models.Category, error) {
	return s.listForUserFn(ctx, userID)
}
func (s *categoryRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCategoryRepo() *categoryRepoStub {
	return &categoryRepoStub{
		listFn: func(_ context.Context) ([]*models.Category, error) { return nil, nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Category, error) {
			return &models.Category{ID: id, Name: "tank"}, nil
		},
		subscribeFn:    func(_ context.Context, _, _ uint) error { return nil },
		isSubscribedFn: func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		subscribersFn:  func(_ context.Context, _ uint) ([]*models.User, error) { return nil, nil },
		listForUserFn:  func(_ context.Context, _ uint) ([]*models.Category, error) { return nil, nil },
		deleteFn:       func(_ context.Context, _ uint) error { return nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn           func(context.Context, *models.User) error
	getByIDFn          func(context.Context, uint) (*models.User, error)
	getByEmailFn       func(context.Context, string) (*models.User, error)
	getByVerifyTokenFn func(context.Context, string) (*models.User, error)
	updateFn           func(context.Context, *models.User) error
	addToGroupFn       func(context.Context, uint, string) error
	isInGroupFn        func(context.Context, uint, string) (bool, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByVerifyToken(ctx context.Context, token string) (*models.User, error) {
	return s.getByVerifyTokenFn(ctx, token)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) AddToGroup(ctx context.Context, userID uint, group string) error {
	return s.addToGroupFn(ctx, userID, group)
}
func (s *userRepoStub) IsInGroup(ctx context.Context, userID uint, group string) (bool, error) {
	return s.isInGroupFn(ctx, userID, group)
}

// authorUser returns a user belonging to the authors group.
func authorUser(id uint) *models.User {
	return &models.User{
		ID:       id,
		Username: "author",
		Email:    "author@example.com",
		Groups:   []models.Group{{Name: models.GroupAuthors}},
	}
}

// adminUser returns a user belonging to the admin group.
func adminUser(id uint) *models.User {
	return &models.User{
		ID:       id,
		Username: "admin",
		Email:    "admin@example.com",
		Groups:   []models.Group{{Name: models.GroupAdmin}},
	}
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:           func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn:          func(_ context.Context, id uint) (*models.User, error) { return authorUser(id), nil },
		getByEmailFn:       func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByVerifyTokenFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		updateFn:           func(_ context.Context, _ *models.User) error { return nil },
		addToGroupFn:       func(_ context.Context, _ uint, _ string) error { return nil },
		isInGroupFn:        func(_ context.Context, _ uint, _ string) (bool, error) { return false, nil },
	}
}

// notifierStub records emitted post events.
type notifierStub struct {
	posts []*models.Post
}

func (n *notifierStub) PostCreated(_ context.Context, post *models.Post) {
	n.posts = append(n.posts, post)
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, models.CodeValidation, appErr.Code)
}

// assertUnauthorizedError asserts that err is an AppError with code UNAUTHORIZED.
func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, models.CodeUnauthorized, appErr.Code)
}

// assertNotFoundError asserts that err is an AppError with code NOT_FOUND.
func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}
