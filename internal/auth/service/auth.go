package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	autherrors "eventy/internal/auth/errors"
	"eventy/internal/auth/repository"
	"eventy/internal/auth/token"
	"eventy/internal/auth/validator"
	"eventy/pkg/config"
	apperrors "eventy/pkg/errors"
	"eventy/pkg/model"
)

// Session is the result of a successful register or login.
type Session struct {
	Token string            `json:"token"`
	User  model.UserSummary `json:"user"`
}

type AuthService interface {
	Register(ctx context.Context, req *validator.RegisterRequest) (*Session, error)
	Login(ctx context.Context, req *validator.LoginRequest) (*Session, error)
	CurrentUser(ctx context.Context, userID string) (*model.UserSummary, error)
}

type authService struct {
	repo      repository.UserRepository
	tokens    *token.Manager
	validator *validator.CredentialsValidator
	cfg       *config.Config
}

func NewAuthService(
	repo repository.UserRepository,
	tokens *token.Manager,
	credentialsValidator *validator.CredentialsValidator,
	cfg *config.Config,
) AuthService {
	return &authService{
		repo:      repo,
		tokens:    tokens,
		validator: credentialsValidator,
		cfg:       cfg,
	}
}

func (s *authService) Register(ctx context.Context, req *validator.RegisterRequest) (*Session, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)

	if err := s.validator.ValidateRegister(req); err != nil {
		s.cfg.Log.Warn("Registration validation failed", "error", err)
		return nil, apperrors.Validation("Registration validation failed", fieldDetails(err))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, autherrors.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("Email is already registered")
		}
		s.cfg.Log.Error("Failed to create user", "error", err)
		return nil, apperrors.Internal("Failed to create user", err)
	}

	session, err := s.newSession(user)
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("User registered", "user_id", user.ID)
	return session, nil
}

func (s *authService) Login(ctx context.Context, req *validator.LoginRequest) (*Session, error) {
	req.Email = normalizeEmail(req.Email)

	if err := s.validator.ValidateLogin(req); err != nil {
		s.cfg.Log.Warn("Login validation failed", "error", err)
		return nil, apperrors.Validation("Login validation failed", fieldDetails(err))
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, autherrors.ErrNotFound) {
			return nil, apperrors.Unauthenticated("Invalid email or password")
		}
		s.cfg.Log.Error("Failed to look up user", "error", err)
		return nil, apperrors.Internal("Failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.Unauthenticated("Invalid email or password")
	}

	session, err := s.newSession(user)
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("User logged in", "user_id", user.ID)
	return session, nil
}

func (s *authService) CurrentUser(ctx context.Context, userID string) (*model.UserSummary, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, autherrors.ErrNotFound) || errors.Is(err, autherrors.ErrInvalidID) {
			return nil, apperrors.Unauthenticated("User no longer exists")
		}
		return nil, apperrors.Internal("Failed to resolve current user", err)
	}

	summary := user.Summary()
	return &summary, nil
}

func (s *authService) newSession(user *model.User) (*Session, error) {
	signed, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		s.cfg.Log.Error("Failed to issue token", "user_id", user.ID, "error", err)
		return nil, apperrors.Internal("Failed to issue token", err)
	}

	return &Session{
		Token: signed,
		User:  user.Summary(),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func fieldDetails(err error) map[string]any {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make([]map[string]string, 0, len(validationErrs))
		for _, fieldErr := range validationErrs {
			fields = append(fields, map[string]string{
				"field":   fieldErr.Field,
				"message": fieldErr.Message,
			})
		}
		return map[string]any{"fields": fields}
	}
	return map[string]any{"error": err.Error()}
}
