package service

import (
	"context"
	"errors"
	"fmt"

	"blogapi/internal/auth"
	apperrors "blogapi/internal/errors"
	"blogapi/internal/model"
	"blogapi/internal/reconcile"
	"blogapi/internal/repository"
)

// RegisterInput carries a validated registration. Image is the stored file
// accepted for this request, empty when none was uploaded.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Image    string
}

// AuthService handles registration and password login.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, error)
}

type authService struct {
	store repository.Store
	files *reconcile.Coordinator
}

// NewAuthService creates a new authentication service.
func NewAuthService(store repository.Store, files *reconcile.Coordinator) AuthService {
	return &authService{
		store: store,
		files: files,
	}
}

// Register creates a user with a hashed password. Duplicate usernames or
// emails surface as ErrConflict; on any failure the uploaded avatar is removed.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if err := checkEmail(in.Email); err != nil {
		s.files.Discard(ctx, in.Image, "invalid email")
		return nil, err
	}
	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		s.files.Discard(ctx, in.Image, "password hashing failed")
		return nil, err
	}

	user := &model.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hashed,
		Image:    in.Image,
	}
	err = s.files.Create(ctx, in.Image, func(ctx context.Context) error {
		return s.store.Users().Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login returns the user owning email when password matches.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.store.Users().FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	if !auth.CheckPassword(user.Password, password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}
