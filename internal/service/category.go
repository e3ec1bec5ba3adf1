package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"gradia/internal/events"
	"gradia/internal/finance"
	"gradia/internal/model"
	"gradia/internal/repository"
)

const (
	maxCategoryNameLen = 75
	// codeAttempts bounds the retries after a code unique violation.
	codeAttempts = 5

	defaultCategoryName        = "Default"
	defaultCategoryDescription = "Default category for reassigned financial records."
)

// CategoryInput is the payload for a new category.
type CategoryInput struct {
	Name        string
	Description string
}

// CategoryUpdate carries editable category fields. Nil fields are left unchanged.
type CategoryUpdate struct {
	Name        *string
	Description *string
}

// CategoryService manages user categories and their generated codes.
type CategoryService interface {
	List(ctx context.Context, userID string) ([]model.Category, error)
	Get(ctx context.Context, userID, id string) (*model.Category, error)
	Create(ctx context.Context, userID string, in CategoryInput) (*model.Category, error)
	Update(ctx context.Context, userID, id string, in CategoryUpdate) (*model.Category, error)
	// Delete moves the category's records to DEFAULT and removes it.
	Delete(ctx context.Context, userID, id string) error
	// EnsureDefault returns the user's DEFAULT category, creating it when missing.
	EnsureDefault(ctx context.Context, userID string) (*model.Category, error)
}

type categoryService struct {
	tx         repository.Transactor
	categories repository.CategoryRepository
	records    repository.RecordRepository
	publisher  events.Publisher
	logger     *slog.Logger
}

// NewCategoryService constructs a CategoryService.
func NewCategoryService(tx repository.Transactor, categories repository.CategoryRepository, records repository.RecordRepository, publisher events.Publisher, logger *slog.Logger) CategoryService {
	return &categoryService{tx: tx, categories: categories, records: records, publisher: publisher, logger: logger}
}

func (s *categoryService) List(ctx context.Context, userID string) ([]model.Category, error) {
	return s.categories.List(ctx, userID)
}

func (s *categoryService) Get(ctx context.Context, userID, id string) (*model.Category, error) {
	c, err := s.categories.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *categoryService) Create(ctx context.Context, userID string, in CategoryInput) (*model.Category, error) {
	name, err := s.checkName(ctx, userID, in.Name, "")
	if err != nil {
		return nil, err
	}

	c := &model.Category{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        name,
		Description: in.Description,
		CreatedAt:   time.Now().UTC(),
	}
	return s.saveWithCode(ctx, c, s.categories.Create)
}

func (s *categoryService) Update(ctx context.Context, userID, id string, in CategoryUpdate) (*model.Category, error) {
	c, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Name == nil || strings.TrimSpace(*in.Name) == c.Name {
		return s.categories.Update(ctx, c)
	}

	if c.IsDefault() {
		return nil, ErrDefaultCategory
	}
	name, err := s.checkName(ctx, userID, *in.Name, c.ID)
	if err != nil {
		return nil, err
	}
	c.Name = name
	return s.saveWithCode(ctx, c, s.categories.Update)
}

// checkName validates a category name and rejects case-insensitive clashes.
func (s *categoryService) checkName(ctx context.Context, userID, name, excludeID string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("name is required")
	}
	if utf8.RuneCountInString(name) > maxCategoryNameLen {
		return "", invalid("name must be at most %d characters", maxCategoryNameLen)
	}
	exists, err := s.categories.NameExists(ctx, userID, name, excludeID)
	if err != nil {
		return "", err
	}
	if exists {
		return "", ErrCategoryExists
	}
	return name, nil
}

// saveWithCode generates a fresh code for c and saves it, retrying when a
// concurrent write takes the same code first.
func (s *categoryService) saveWithCode(ctx context.Context, c *model.Category, save func(context.Context, *model.Category) (*model.Category, error)) (*model.Category, error) {
	base := finance.BaseCode(c.Name)
	for attempt := 1; attempt <= codeAttempts; attempt++ {
		existing, err := s.categories.CodesWithPrefix(ctx, c.UserID, base)
		if err != nil {
			return nil, err
		}
		c.Code = finance.NextCode(base, existing)

		stored, err := save(ctx, c)
		if err == nil {
			return stored, nil
		}

		var dup *repository.DuplicateError
		if !errors.As(err, &dup) {
			return nil, err
		}
		switch dup.Constraint {
		case repository.ConstraintCategoryName:
			return nil, ErrCategoryExists
		case repository.ConstraintCategoryCode:
			s.logger.WarnContext(ctx, "category_code_collision", "code", c.Code, "attempt", attempt)
			continue
		default:
			return nil, err
		}
	}
	return nil, ErrCategoryCodeConflict
}

func (s *categoryService) Delete(ctx context.Context, userID, id string) error {
	c, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if c.IsDefault() {
		return ErrDefaultCategory
	}

	var touched []string
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		def, err := s.EnsureDefault(ctx, userID)
		if err != nil {
			return fmt.Errorf("ensure default category: %w", err)
		}
		touched, err = s.records.ReassignCategory(ctx, c.ID, def.ID)
		if err != nil {
			return fmt.Errorf("reassign records: %w", err)
		}
		if err := s.categories.Delete(ctx, userID, c.ID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrCategoryNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	refreshSummaries(ctx, s.publisher, s.logger, "category_deleted", touched...)
	return nil
}

func (s *categoryService) EnsureDefault(ctx context.Context, userID string) (*model.Category, error) {
	c, err := s.categories.FindByCode(ctx, userID, model.DefaultCategoryCode)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	// A concurrent insert of the same code must not abort the caller's tx.
	return s.categories.CreateIfAbsent(ctx, &model.Category{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        defaultCategoryName,
		Code:        model.DefaultCategoryCode,
		Description: defaultCategoryDescription,
		CreatedAt:   time.Now().UTC(),
	})
}

// refreshSummaries publishes refresh requests for the given cycles. Failures
// are logged; summaries can be rebuilt with the populate command.
func refreshSummaries(ctx context.Context, p events.Publisher, logger *slog.Logger, reason string, cycleIDs ...string) {
	if len(cycleIDs) == 0 {
		return
	}
	if err := p.PublishSummaryRefresh(ctx, reason, cycleIDs...); err != nil {
		logger.ErrorContext(ctx, "summary_refresh_publish_failed", "error", err, "reason", reason, "cycles", cycleIDs)
	}
}
