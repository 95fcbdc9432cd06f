// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"guildboard/internal/middleware"
	"guildboard/internal/models"
	"guildboard/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Signup handles POST /api/auth/signup
func (s *Server) Signup(c *fiber.Ctx) error {
	var req struct {
		Username  string `json:"username"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Gender    string `json:"gender"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username, email, and password are required"))
	}
	if err := validation.ValidateUsername(req.Username); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if req.Gender != "" {
		if err := validation.ValidateGender(req.Gender); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError(err.Error()))
		}
	}

	existing, err := s.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if existing != nil {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewValidationError("User already exists"))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	user := &models.User{
		Username:    req.Username,
		Email:       req.Email,
		Password:    string(hashedPassword),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		VerifyToken: uuid.New().String(),
	}
	if createErr := s.userRepo.Create(c.Context(), user); createErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, createErr)
	}

	// Every signed-up user may author posts.
	if groupErr := s.userRepo.AddToGroup(c.Context(), user.ID, models.GroupAuthors); groupErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, groupErr)
	}

	// Every account carries a profile from the start.
	profile, profileErr := s.profileRepo.GetOrCreate(c.Context(), user.ID)
	if profileErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, profileErr)
	}
	if req.Gender != "" {
		profile.Gender = req.Gender
		if err := s.profileRepo.Update(c.Context(), profile); err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
	}

	// Verification email is best-effort; the token stays valid and the
	// account exists either way.
	if s.mailer != nil {
		link := fmt.Sprintf("http://%s/api/auth/verify/%s", s.config.SiteDomain, user.VerifyToken)
		if mailErr := s.mailer.SendVerification(c.UserContext(), user.Email, user.Username, link); mailErr != nil {
			middleware.Logger.ErrorContext(c.UserContext(), "failed to send verification email",
				"error", mailErr, "email", user.Email)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Account created, check your inbox to verify your email",
		"user":    user,
	})
}

// VerifyEmail handles GET /api/auth/verify/:token
func (s *Server) VerifyEmail(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Verification token is required"))
	}

	user, err := s.userRepo.GetByVerifyToken(c.Context(), token)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Verification token", token))
	}

	user.EmailVerified = true
	user.VerifyToken = ""
	if err := s.userRepo.Update(c.Context(), user); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	jwtToken, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(fiber.Map{
		"message": "Email verified",
		"token":   jwtToken,
		"user":    user,
	})
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); cmpErr != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	if !user.EmailVerified {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthorizedError("Email address not verified"))
	}

	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// GoogleLogin handles GET /api/auth/google/login
func (s *Server) GoogleLogin(c *fiber.Ctx) error {
	if !s.google.Enabled() {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewValidationError("Google login is not configured"))
	}

	state := uuid.New().String()
	if s.redis != nil {
		if err := s.redis.Set(c.Context(), "oauth_state:"+state, "1", 10*time.Minute).Err(); err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "failed to store oauth state", "error", err)
		}
	}

	return c.JSON(fiber.Map{
		"url": s.google.LoginURL(state),
	})
}

// GoogleCallback handles GET /api/auth/google/callback
func (s *Server) GoogleCallback(c *fiber.Ctx) error {
	if !s.google.Enabled() {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewValidationError("Google login is not configured"))
	}

	code := c.Query("code")
	if code == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Missing authorization code"))
	}

	state := c.Query("state")
	if s.redis != nil {
		deleted, err := s.redis.Del(c.Context(), "oauth_state:"+state).Result()
		if err == nil && deleted == 0 {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired OAuth state"))
		}
	}

	info, err := s.google.ExchangeCode(c.Context(), code)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Google authentication failed"))
	}

	user, err := s.userRepo.GetByEmail(c.Context(), info.Email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	if user == nil {
		// First Google login creates the account. Google already verified
		// the email address.
		user = &models.User{
			Username:      googleUsername(info.Email),
			Email:         info.Email,
			EmailVerified: true,
		}
		if createErr := s.userRepo.Create(c.Context(), user); createErr != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, createErr)
		}
		if groupErr := s.userRepo.AddToGroup(c.Context(), user.ID, models.GroupAuthors); groupErr != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, groupErr)
		}
	}

	// Returning accounts get their profile repaired here too.
	if _, profileErr := s.profileRepo.GetOrCreate(c.Context(), user.ID); profileErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, profileErr)
	}

	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// googleUsername derives a username from the email's local part, suffixed
// to dodge collisions with existing accounts.
func googleUsername(email string) string {
	local := email
	if at := strings.Index(email, "@"); at > 0 {
		local = email[:at]
	}
	return fmt.Sprintf("%s_%s", local, uuid.New().String()[:8])
}

// generateToken creates a JWT token for the given user ID and username
func (s *Server) generateToken(userID uint, username string) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10),
		"username": username,
		"iss":      "guildboard-api",
		"aud":      "guildboard-client",
		"exp":      now.Add(time.Hour * 24 * 7).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      fmt.Sprintf("%d-%s", now.Unix(), uuid.New().String()[:8]),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}
