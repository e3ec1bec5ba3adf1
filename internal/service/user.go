package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gradia/internal/model"
	"gradia/internal/repository"
)

// UserService maps verified Firebase identities to local users.
type UserService interface {
	// EnsureUser returns the user for uid, provisioning it on first sight.
	EnsureUser(ctx context.Context, uid, email string) (*model.User, error)
}

type userService struct {
	users      repository.UserRepository
	periods    PeriodService
	categories CategoryService
	logger     *slog.Logger
}

// NewUserService constructs a UserService. New users get the current year's
// period and the DEFAULT category.
func NewUserService(users repository.UserRepository, periods PeriodService, categories CategoryService, logger *slog.Logger) UserService {
	return &userService{users: users, periods: periods, categories: categories, logger: logger}
}

func (s *userService) EnsureUser(ctx context.Context, uid, email string) (*model.User, error) {
	u, err := s.users.FindByFirebaseUID(ctx, uid)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	u, err = s.users.Create(ctx, &model.User{
		ID:          uuid.New().String(),
		FirebaseUID: uid,
		Email:       email,
		CreatedAt:   time.Now().UTC(),
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return s.users.FindByFirebaseUID(ctx, uid)
	}
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user_provisioned", "user_id", u.ID)
	s.provision(ctx, u.ID)
	return u, nil
}

// provision creates the starter data of a new user. Failures only get logged.
func (s *userService) provision(ctx context.Context, userID string) {
	if _, _, err := s.periods.StartCurrent(ctx, userID); err != nil {
		s.logger.ErrorContext(ctx, "user_provision_period_failed", "user_id", userID, "error", err)
	}
	if _, err := s.categories.EnsureDefault(ctx, userID); err != nil {
		s.logger.ErrorContext(ctx, "user_provision_category_failed", "user_id", userID, "error", err)
	}
}
