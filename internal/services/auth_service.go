package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"storefront/internal/apperrors"
	"storefront/internal/auth"
	"storefront/internal/events"
	"storefront/internal/models"
	"storefront/internal/repositories"
)

// RegisterInput is the registration request.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,bcryptmax"`
}

// LoginInput is the login request.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is returned by successful registration and login.
type AuthResult struct {
	User      models.PublicUser
	Token     string
	ExpiresAt time.Time
}

// AuthService handles business logic for registration and login.
type AuthService struct {
	userRepo   repositories.UserRepository
	hasher     *auth.PasswordHasher
	tokens     *auth.TokenIssuer
	dispatcher events.Dispatcher
	logger     *zap.Logger
	validate   *validator.Validate

	dummyOnce   sync.Once
	dummyDigest string
}

// NewAuthService creates a new AuthService. dispatcher may be nil.
func NewAuthService(userRepo repositories.UserRepository, hasher *auth.PasswordHasher, tokens *auth.TokenIssuer, dispatcher events.Dispatcher, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo:   userRepo,
		hasher:     hasher,
		tokens:     tokens,
		dispatcher: dispatcher,
		logger:     logger,
		validate:   newValidator(),
	}
}

// newValidator adds the "bcryptmax" tag, a byte-length bound; validator's max counts runes.
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("bcryptmax", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= auth.MaxPasswordBytes
	})
	return v
}

// Register creates an account and issues a token for it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := s.validateInput(in); err != nil {
		return nil, err
	}

	// Fast path only; the store's unique index decides races.
	if _, err := s.userRepo.FindByEmail(ctx, in.Email); err == nil {
		return nil, apperrors.DuplicateIdentity()
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	digest, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: digest,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID))
	s.publish(ctx, events.EventUserRegistered, user)
	return result, nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password produce the same InvalidCredentials error.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := s.validateInput(in); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		// Spend the same bcrypt time as a real comparison.
		if _, verr := s.hasher.Verify(ctx, s.dummy(), in.Password); verr != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, apperrors.InvalidCredentials()
	}

	ok, err := s.hasher.Verify(ctx, user.PasswordHash, in.Password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if !ok {
		return nil, apperrors.InvalidCredentials()
	}

	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID))
	s.publish(ctx, events.EventUserLoggedIn, user)
	return result, nil
}

// Profile returns the sanitized user with id.
func (s *AuthService) Profile(ctx context.Context, id string) (models.PublicUser, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return models.PublicUser{}, err
	}
	return user.Public(), nil
}

// ValidateToken verifies a bearer token and returns its subject.
func (s *AuthService) ValidateToken(token string) (string, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, exp, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{User: user.Public(), Token: token, ExpiresAt: exp}, nil
}

func (s *AuthService) validateInput(in interface{}) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.Validation("Invalid request", nil)
	}
	details := make(map[string]string, len(verrs))
	for _, e := range verrs {
		details[strings.ToLower(e.Field())] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return apperrors.Validation("Validation failed", details)
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		digest, err := s.hasher.Hash(context.Background(), "timing-equalizer")
		if err != nil {
			s.logger.Warn("failed to prepare dummy digest", zap.Error(err))
			return
		}
		s.dummyDigest = digest
	})
	return s.dummyDigest
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, user *models.User) {
	if s.dispatcher == nil {
		return
	}
	err := s.dispatcher.Publish(ctx, events.Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Payload:   events.UserPayload{UserID: user.ID, Email: user.Email},
	})
	if err != nil {
		s.logger.Warn("event delivery failed", zap.String("event", string(eventType)), zap.Error(err))
	}
}
