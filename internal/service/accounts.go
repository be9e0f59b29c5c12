package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/suteetoe/marketplace/internal/auth"
	"github.com/suteetoe/marketplace/internal/model"
	"github.com/suteetoe/marketplace/internal/repository"
	"go.uber.org/zap"
)

// RegisterInput is the sign-up form
type RegisterInput struct {
	Username string
	Password string
	FullName string
	Role     model.Role
}

func (in *RegisterInput) normalize() error {
	in.Username = strings.TrimSpace(in.Username)
	in.FullName = strings.TrimSpace(in.FullName)
	if in.Username == "" {
		return invalid("Username is required")
	}
	if in.Password == "" {
		return invalid("Password is required")
	}
	return nil
}

// Register creates a vendor or consumer account
func (s *Service) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	log := s.logger(ctx)

	if err := in.normalize(); err != nil {
		return nil, err
	}
	if in.Role != model.RoleVendor && in.Role != model.RoleConsumer {
		return nil, invalid("Role must be vendor or consumer")
	}

	user, err := s.createUser(ctx, s.repo, in)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			log.Warn("Username already registered", zap.String("username", in.Username))
			s.metrics.RecordAuthError("username_exists")
		}
		return nil, err
	}

	log.Info("User registered",
		zap.Uint("user_id", user.ID),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))
	s.audit(ctx, auth.FromUser(user), ActionRegister, fmt.Sprintf("%s registered as %s", user.Username, user.Role))
	return user, nil
}

func (s *Service) createUser(ctx context.Context, repo repository.Repository, in RegisterInput) (*model.User, error) {
	_, err := repo.Users().GetByUsername(ctx, in.Username)
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up username: %w", err)
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:  in.Username,
		Password:  hashed,
		FullName:  in.FullName,
		Role:      in.Role,
		CreatedAt: s.now().UTC(),
	}
	if err := repo.Users().Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login checks the credentials and returns the user
func (s *Service) Login(ctx context.Context, username, password string) (*model.User, error) {
	log := s.logger(ctx)
	username = strings.TrimSpace(username)

	user, err := s.repo.Users().GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		log.Warn("Login for unknown user", zap.String("username", username))
		s.metrics.RecordAuthError("user_not_found")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	ok, err := auth.CheckPassword(user.Password, password)
	if err != nil {
		log.Error("Stored password hash is unusable", zap.Uint("user_id", user.ID), zap.Error(err))
		s.metrics.RecordAuthError("bad_hash")
		return nil, ErrInvalidCredentials
	}
	if !ok {
		log.Warn("Invalid password", zap.String("username", username))
		s.metrics.RecordAuthError("invalid_password")
		return nil, ErrInvalidCredentials
	}

	log.Info("User logged in", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))
	s.audit(ctx, auth.FromUser(user), ActionLogin, user.Username+" logged in")
	return user, nil
}

// Logout records the logout. Session revocation happens at the HTTP layer.
func (s *Service) Logout(ctx context.Context, id auth.Identity) {
	if !id.IsAuthenticated() {
		return
	}
	s.audit(ctx, id, ActionLogout, id.Username+" logged out")
}

// AdminExists reports whether an admin account has been created
func (s *Service) AdminExists(ctx context.Context) (bool, error) {
	n, err := s.repo.Users().CountByRole(ctx, model.RoleAdmin)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateAdmin bootstraps the first admin account. It fails with ErrAdminExists
// once any admin is present.
func (s *Service) CreateAdmin(ctx context.Context, in RegisterInput) (*model.User, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	in.Role = model.RoleAdmin
	if in.FullName == "" {
		in.FullName = "Administrator"
	}

	var user *model.User
	err := s.repo.Transaction(ctx, func(tx repository.Repository) error {
		n, err := tx.Users().CountByRole(ctx, model.RoleAdmin)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrAdminExists
		}
		user, err = s.createUser(ctx, tx, in)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger(ctx).Info("Admin account created", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	s.audit(ctx, auth.FromUser(user), ActionCreateAdmin, user.Username+" created as admin")
	return user, nil
}
