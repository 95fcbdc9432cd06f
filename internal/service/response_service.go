package service

import (
	"context"
	"strings"

	"guildboard/internal/access"
	"guildboard/internal/mail"
	"guildboard/internal/middleware"
	"guildboard/internal/models"
	"guildboard/internal/repository"
	"guildboard/internal/validation"
)

type ResponseService struct {
	responseRepo repository.ResponseRepository
	postRepo     repository.PostRepository
	profileRepo  repository.ProfileRepository
	userRepo     repository.UserRepository
	mailer       mail.Mailer
}

type CreateResponseInput struct {
	UserID uint
	PostID uint
	Text   string
}

type ModerateResponseInput struct {
	UserID     uint
	PostID     uint
	ResponseID uint
}

type UpdateResponseInput struct {
	UserID     uint
	PostID     uint
	ResponseID uint
	Text       string
}

func NewResponseService(
	responseRepo repository.ResponseRepository,
	postRepo repository.PostRepository,
	profileRepo repository.ProfileRepository,
	userRepo repository.UserRepository,
	mailer mail.Mailer,
) *ResponseService {
	return &ResponseService{
		responseRepo: responseRepo,
		postRepo:     postRepo,
		profileRepo:  profileRepo,
		userRepo:     userRepo,
		mailer:       mailer,
	}
}

// CreateResponse submits a reply to a post. Submitting requires authors
// group membership, same as publishing. New responses always start out
// pending until the post's author accepts or rejects them.
func (s *ResponseService) CreateResponse(ctx context.Context, in CreateResponseInput) (*models.Response, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, notFoundOr(err, "User", in.UserID)
	}
	if !access.CanCreateResponse(user) {
		return nil, models.NewUnauthorizedError("Only authors can submit responses")
	}

	text := strings.TrimSpace(in.Text)
	if err := validation.ValidateResponseText(text); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, notFoundOr(err, "Post", in.PostID)
	}

	response := &models.Response{
		PostID: in.PostID,
		UserID: in.UserID,
		Text:   text,
		Status: models.ResponseStatusPending,
	}
	if err := s.responseRepo.Create(ctx, response); err != nil {
		return nil, err
	}
	return s.responseRepo.GetByIDAndPost(ctx, response.ID, in.PostID)
}

func (s *ResponseService) ListResponses(ctx context.Context, postID uint) ([]*models.Response, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, notFoundOr(err, "Post", postID)
	}
	return s.responseRepo.ListByPost(ctx, postID)
}

// ListReceivedResponses lists the responses submitted to the user's own
// posts, newest first.
func (s *ResponseService) ListReceivedResponses(ctx context.Context, userID uint, limit, offset int) ([]*models.Response, error) {
	profile, err := s.profileRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.responseRepo.ListForAuthor(ctx, profile.ID, limit, offset)
}

// AcceptResponse marks a pending response accepted and emails the responder.
// Only the post's author or an admin may accept. The status change is
// terminal. Mail trouble is logged, never returned; acceptance must not
// depend on the mail server.
func (s *ResponseService) AcceptResponse(ctx context.Context, in ModerateResponseInput) (*models.Response, error) {
	response, err := s.moderate(ctx, in, models.ResponseStatusAccepted)
	if err != nil {
		return nil, err
	}

	if s.mailer != nil && response.User.Email != "" {
		if err := s.mailer.SendResponseAccepted(ctx, response.User.Email, response.Post.Title); err != nil {
			middleware.Logger.ErrorContext(ctx, "failed to send acceptance email",
				"error", err, "email", response.User.Email, "response_id", response.ID)
		}
	}
	return response, nil
}

// RejectResponse marks a pending response rejected. No email is sent.
func (s *ResponseService) RejectResponse(ctx context.Context, in ModerateResponseInput) (*models.Response, error) {
	return s.moderate(ctx, in, models.ResponseStatusRejected)
}

func (s *ResponseService) moderate(ctx context.Context, in ModerateResponseInput, status models.ResponseStatus) (*models.Response, error) {
	response, err := s.responseRepo.GetByIDAndPost(ctx, in.ResponseID, in.PostID)
	if err != nil {
		return nil, notFoundOr(err, "Response", in.ResponseID)
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, notFoundOr(err, "User", in.UserID)
	}
	if !access.CanModeratePost(user, &response.Post) {
		return nil, models.NewUnauthorizedError("Only the post's author can moderate its responses")
	}
	if response.Status != models.ResponseStatusPending {
		return nil, models.NewValidationError("Response has already been moderated")
	}

	if err := s.responseRepo.UpdateStatus(ctx, response, status); err != nil {
		return nil, err
	}
	return response, nil
}

// UpdateResponse edits a pending response's text. Moderated responses are
// frozen; the accepted text is what the post's author agreed to.
func (s *ResponseService) UpdateResponse(ctx context.Context, in UpdateResponseInput) (*models.Response, error) {
	response, err := s.responseRepo.GetByIDAndPost(ctx, in.ResponseID, in.PostID)
	if err != nil {
		return nil, notFoundOr(err, "Response", in.ResponseID)
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, notFoundOr(err, "User", in.UserID)
	}
	if !access.CanEditResponse(user, response) {
		return nil, models.NewUnauthorizedError("You can only edit your own responses")
	}
	if response.Status != models.ResponseStatusPending {
		return nil, models.NewValidationError("Moderated responses cannot be edited")
	}

	text := strings.TrimSpace(in.Text)
	if err := validation.ValidateResponseText(text); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	response.Text = text
	if err := s.responseRepo.Update(ctx, response); err != nil {
		return nil, err
	}
	return response, nil
}

func (s *ResponseService) DeleteResponse(ctx context.Context, in ModerateResponseInput) error {
	response, err := s.responseRepo.GetByIDAndPost(ctx, in.ResponseID, in.PostID)
	if err != nil {
		return notFoundOr(err, "Response", in.ResponseID)
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return notFoundOr(err, "User", in.UserID)
	}
	if !access.CanEditResponse(user, response) {
		return models.NewUnauthorizedError("You can only delete your own responses")
	}
	return s.responseRepo.Delete(ctx, response)
}
