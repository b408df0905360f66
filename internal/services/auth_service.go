package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck-api/internal/auth"
	"github.com/taskdeck/taskdeck-api/internal/constants"
	apierrors "github.com/taskdeck/taskdeck-api/internal/errors"
	"github.com/taskdeck/taskdeck-api/internal/models"
	"github.com/taskdeck/taskdeck-api/internal/repository"
	"github.com/taskdeck/taskdeck-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAccountLocked        = errors.New("too many failed attempts")
	ErrWeakPassword         = errors.New("password does not meet the complexity requirements")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidResetToken    = errors.New("invalid or expired reset token")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles registration, authentication, and the credential
// lifecycle.
type AuthService struct {
	userRepo repository.UserRepository
	throttle *auth.LoginThrottle
	mailer   MailService
	baseURL  string
}

// NewAuthService creates a new AuthService. The throttle handle is shared
// process state created once at startup.
func NewAuthService(userRepo repository.UserRepository, throttle *auth.LoginThrottle, mailer MailService, baseURL string) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		throttle: throttle,
		mailer:   mailer,
		baseURL:  baseURL,
	}
}

// SignupInput represents the required information to create a new user.
type SignupInput struct {
	FirstName string
	LastName  string
	Age       int
	Email     string
	Password  string
}

// Signup creates a new user. Hashing happens here and nowhere else; the
// model carries no save-time hooks.
func (s *AuthService) Signup(input SignupInput) (*models.User, error) {
	if !utils.ValidPassword(input.Password) {
		return nil, ErrWeakPassword
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Age:          input.Age,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(user); err != nil {
		if apierrors.IsDuplicateKey(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user. The
// lockout check runs before any credential comparison, so a locked email
// cannot burn further verification attempts.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if s.throttle.IsLocked(email) {
		return nil, ErrAccountLocked
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.throttle.RecordFailure(email)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		s.throttle.RecordFailure(email)
		return nil, ErrInvalidCredentials
	}

	s.throttle.RecordSuccess(email)
	return user, nil
}

// LockoutRemaining reports how long the email stays locked out, zero when
// it is not locked.
func (s *AuthService) LockoutRemaining(email string) time.Duration {
	return s.throttle.RemainingLockout(strings.ToLower(strings.TrimSpace(email)))
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// ForgotPassword issues a single-use reset token and mails a reset link.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	token := uuid.NewString()
	expiry := time.Now().Add(constants.ResetTokenLifetime)
	user.ResetToken = &token
	user.ResetTokenExpiresAt = &expiry

	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	link := fmt.Sprintf("%s/reset-password/%s", s.baseURL, token)
	body := fmt.Sprintf(
		"Hi %s,\n\nA password reset was requested for your account. "+
			"Open the link below within one hour to choose a new password:\n\n%s\n\n"+
			"If you did not request this, you can ignore this message.",
		user.FirstName, link,
	)

	if err := s.mailer.SendMail(ctx, user.Email, "Reset your password", body); err != nil {
		log.Printf("auth: failed to send reset mail to %s: %v", user.Email, err)
		return fmt.Errorf("failed to send reset mail: %w", err)
	}

	return nil
}

// ResetPassword sets a new password for the holder of a valid reset token.
// Unknown and expired tokens produce the same error.
func (s *AuthService) ResetPassword(token, password string) error {
	user, err := s.userRepo.FindByResetToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("failed to find reset token: %w", err)
	}

	if user.ResetTokenExpiresAt == nil || time.Now().After(*user.ResetTokenExpiresAt) {
		return ErrInvalidResetToken
	}

	if !utils.ValidPassword(password) {
		return ErrWeakPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}

	user.PasswordHash = string(hashedPassword)
	user.ResetToken = nil
	user.ResetTokenExpiresAt = nil

	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// UpdateProfileInput holds the mutable profile fields. A non-empty
// NewPassword changes the credential and requires CurrentPassword.
type UpdateProfileInput struct {
	FirstName       *string
	LastName        *string
	Age             *int
	CurrentPassword string
	NewPassword     string
}

// UpdateProfile applies profile changes, optionally rotating the password.
func (s *AuthService) UpdateProfile(id uint64, input UpdateProfileInput) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Age != nil {
		user.Age = *input.Age
	}

	if input.NewPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.CurrentPassword)); err != nil {
			return nil, ErrInvalidCredentials
		}
		if !utils.ValidPassword(input.NewPassword) {
			return nil, ErrWeakPassword
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}
		user.PasswordHash = string(hashedPassword)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}

// DeleteAccount removes the user after re-verifying their password.
func (s *AuthService) DeleteAccount(id uint64, password string) error {
	user, err := s.GetUser(id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	if err := s.userRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}
