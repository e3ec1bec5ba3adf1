package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gradia/internal/events"
	"gradia/internal/finance"
	"gradia/internal/model"
	"gradia/internal/repository"
)

// maxAmount is the first value that no longer fits NUMERIC(13,2).
var maxAmount = decimal.New(1, 11)

// RecordInput is the payload for a new record. PeriodID is optional and only
// checked against the cycle's period.
type RecordInput struct {
	CategoryID    string
	CycleID       string
	PeriodID      string
	Type          string
	CurrentAmount *decimal.Decimal
	PlannedAmount *decimal.Decimal
}

// RecordUpdate carries editable record fields. Nil fields are left unchanged.
type RecordUpdate struct {
	CategoryID    *string
	CycleID       *string
	PeriodID      *string
	Type          *string
	CurrentAmount *decimal.Decimal
	PlannedAmount *decimal.Decimal
}

// CopyRequest names the cycles of a copy.
type CopyRequest struct {
	CurrentCycleID  string
	PreviousCycleID string
}

// CopyOptions tune how records are copied between cycles.
type CopyOptions struct {
	// SamePeriod rejects cycles of different periods.
	SamePeriod bool
	// RequireRecords fails with ErrNothingToCopy when the source cycle is empty.
	RequireRecords bool
	// ResetCurrent zeroes current_amount on the copies.
	ResetCurrent bool
}

var (
	// CopyPreviousMonth keeps both amounts and accepts an empty source.
	CopyPreviousMonth = CopyOptions{}
	// CopyPlanned copies planned amounts only, within one period.
	CopyPlanned = CopyOptions{SamePeriod: true, RequireRecords: true, ResetCurrent: true}
)

// RecordService manages financial records.
type RecordService interface {
	List(ctx context.Context, userID string, f repository.RecordFilter) ([]RecordView, error)
	Get(ctx context.Context, userID, id string) (*RecordView, error)
	Create(ctx context.Context, userID string, in RecordInput) (*RecordView, error)
	Update(ctx context.Context, userID, id string, in RecordUpdate) (*RecordView, error)
	Delete(ctx context.Context, userID, id string) error
	// Copy duplicates every record of the previous cycle into the current one
	// in a single transaction.
	Copy(ctx context.Context, userID string, req CopyRequest, opts CopyOptions) ([]RecordView, error)
}

// attachmentCleaner removes the stored files of a record before it is deleted.
type attachmentCleaner interface {
	DeleteAll(ctx context.Context, recordID string) error
}

type recordService struct {
	tx          repository.Transactor
	records     repository.RecordRepository
	categories  repository.CategoryRepository
	cycles      repository.CycleRepository
	attachments attachmentCleaner
	publisher   events.Publisher
	logger      *slog.Logger
}

// NewRecordService constructs a RecordService.
func NewRecordService(
	tx repository.Transactor,
	records repository.RecordRepository,
	categories repository.CategoryRepository,
	cycles repository.CycleRepository,
	attachments attachmentCleaner,
	publisher events.Publisher,
	logger *slog.Logger,
) RecordService {
	return &recordService{
		tx:          tx,
		records:     records,
		categories:  categories,
		cycles:      cycles,
		attachments: attachments,
		publisher:   publisher,
		logger:      logger,
	}
}

func (s *recordService) List(ctx context.Context, userID string, f repository.RecordFilter) ([]RecordView, error) {
	records, err := s.records.List(ctx, userID, f)
	if err != nil {
		return nil, err
	}
	return newRecordViews(records), nil
}

func (s *recordService) Get(ctx context.Context, userID, id string) (*RecordView, error) {
	r, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	v := newRecordView(*r)
	return &v, nil
}

func (s *recordService) Create(ctx context.Context, userID string, in RecordInput) (*RecordView, error) {
	if in.CategoryID == "" {
		return nil, invalid("category is required")
	}
	if in.CycleID == "" {
		return nil, invalid("cycle is required")
	}
	if err := checkIDs(idField{"category", in.CategoryID}, idField{"cycle", in.CycleID}, idField{"period", in.PeriodID}); err != nil {
		return nil, err
	}
	typ := model.RecordTypeExpenses
	if in.Type != "" {
		typ = model.RecordType(in.Type)
	}

	now := time.Now().UTC()
	r := &model.FinancialRecord{
		ID:         uuid.New().String(),
		CategoryID: in.CategoryID,
		CycleID:    in.CycleID,
		Type:       typ,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	var err error
	if r.CurrentAmount, err = amount("current_amount", in.CurrentAmount); err != nil {
		return nil, err
	}
	if r.PlannedAmount, err = amount("planned_amount", in.PlannedAmount); err != nil {
		return nil, err
	}
	if err := s.validate(ctx, userID, r, in.PeriodID); err != nil {
		return nil, err
	}

	stored, err := s.records.Create(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("create record: %w", err)
	}
	refreshSummaries(ctx, s.publisher, s.logger, "record_created", stored.CycleID)

	v := newRecordView(*stored)
	return &v, nil
}

func (s *recordService) Update(ctx context.Context, userID, id string, in RecordUpdate) (*RecordView, error) {
	r, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	oldCycle := r.CycleID

	if in.CategoryID != nil && *in.CategoryID == "" {
		return nil, invalid("category cannot be empty")
	}
	if in.CycleID != nil && *in.CycleID == "" {
		return nil, invalid("cycle cannot be empty")
	}
	if err := checkIDs(idField{"category", deref(in.CategoryID)}, idField{"cycle", deref(in.CycleID)}, idField{"period", deref(in.PeriodID)}); err != nil {
		return nil, err
	}
	if in.CategoryID != nil {
		r.CategoryID = *in.CategoryID
	}
	if in.CycleID != nil {
		r.CycleID = *in.CycleID
	}
	if in.Type != nil {
		r.Type = model.RecordType(*in.Type)
	}
	if in.CurrentAmount != nil {
		if r.CurrentAmount, err = amount("current_amount", in.CurrentAmount); err != nil {
			return nil, err
		}
	}
	if in.PlannedAmount != nil {
		if r.PlannedAmount, err = amount("planned_amount", in.PlannedAmount); err != nil {
			return nil, err
		}
	}
	if err := s.validate(ctx, userID, r, deref(in.PeriodID)); err != nil {
		return nil, err
	}
	r.UpdatedAt = time.Now().UTC()

	stored, err := s.records.Update(ctx, r)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("update record: %w", err)
	}

	touched := []string{stored.CycleID}
	if oldCycle != stored.CycleID {
		touched = append(touched, oldCycle)
	}
	refreshSummaries(ctx, s.publisher, s.logger, "record_updated", touched...)

	v := newRecordView(*stored)
	return &v, nil
}

// validate checks the type and the ownership of the category and cycle, and
// derives the record's period from its cycle.
func (s *recordService) validate(ctx context.Context, userID string, r *model.FinancialRecord, periodID string) error {
	if !r.Type.Valid() {
		return invalid("type_choice must be %q or %q", model.RecordTypeIncome, model.RecordTypeExpenses)
	}

	if _, err := s.categories.FindByID(ctx, userID, r.CategoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCategoryForbidden
		}
		return err
	}
	c, err := s.cycles.FindByID(ctx, userID, r.CycleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCycleForbidden
		}
		return err
	}
	if periodID != "" && periodID != c.PeriodID {
		return ErrPeriodMismatch
	}
	r.PeriodID = c.PeriodID
	return nil
}

func (s *recordService) Delete(ctx context.Context, userID, id string) error {
	r, err := s.find(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.attachments.DeleteAll(ctx, r.ID); err != nil {
		return fmt.Errorf("delete attachments: %w", err)
	}
	if err := s.records.Delete(ctx, userID, r.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRecordNotFound
		}
		return err
	}
	refreshSummaries(ctx, s.publisher, s.logger, "record_deleted", r.CycleID)
	return nil
}

func (s *recordService) Copy(ctx context.Context, userID string, req CopyRequest, opts CopyOptions) ([]RecordView, error) {
	if req.CurrentCycleID == "" || req.PreviousCycleID == "" {
		return nil, invalid("current and previous cycle IDs are required")
	}
	if err := checkIDs(idField{"current_cycle_id", req.CurrentCycleID}, idField{"previous_cycle_id", req.PreviousCycleID}); err != nil {
		return nil, err
	}
	if req.CurrentCycleID == req.PreviousCycleID {
		return nil, ErrSameCycle
	}

	current, err := s.ownedCycle(ctx, userID, req.CurrentCycleID)
	if err != nil {
		return nil, err
	}
	previous, err := s.ownedCycle(ctx, userID, req.PreviousCycleID)
	if err != nil {
		return nil, err
	}
	if opts.SamePeriod && current.PeriodID != previous.PeriodID {
		return nil, ErrDifferentPeriods
	}

	var created []model.FinancialRecord
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		source, err := s.records.List(ctx, userID, repository.RecordFilter{CycleID: previous.ID})
		if err != nil {
			return err
		}
		if len(source) == 0 {
			if opts.RequireRecords {
				return ErrNothingToCopy
			}
			created = []model.FinancialRecord{}
			return nil
		}

		now := time.Now().UTC()
		copies := make([]model.FinancialRecord, 0, len(source))
		for _, r := range source {
			c := model.FinancialRecord{
				ID:            uuid.New().String(),
				PeriodID:      current.PeriodID,
				CycleID:       current.ID,
				CategoryID:    r.CategoryID,
				Type:          r.Type,
				CurrentAmount: r.CurrentAmount,
				PlannedAmount: r.PlannedAmount,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if opts.ResetCurrent {
				c.CurrentAmount = decimal.Zero
			}
			copies = append(copies, c)
		}
		created, err = s.records.CreateBatch(ctx, copies)
		return err
	})
	if err != nil {
		return nil, err
	}

	if len(created) > 0 {
		refreshSummaries(ctx, s.publisher, s.logger, "records_copied", current.ID)
	}
	return newRecordViews(created), nil
}

func (s *recordService) ownedCycle(ctx context.Context, userID, id string) (*model.Cycle, error) {
	c, err := s.cycles.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCycleForbidden
		}
		return nil, err
	}
	return c, nil
}

func (s *recordService) find(ctx context.Context, userID, id string) (*model.FinancialRecord, error) {
	r, err := s.records.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return r, nil
}

// amount defaults a missing value to zero, rounds it to cents and checks it
// fits the column.
func amount(field string, d *decimal.Decimal) (decimal.Decimal, error) {
	if d == nil {
		return decimal.Zero, nil
	}
	v := finance.NormalizeAmount(*d)
	if v.Abs().GreaterThanOrEqual(maxAmount) {
		return decimal.Zero, invalid("%s must have at most 11 digits before the decimal point", field)
	}
	return v, nil
}

type idField struct{ name, value string }

// checkIDs rejects any non-empty value that is not a UUID, so malformed ids
// never reach a uuid column.
func checkIDs(fields ...idField) error {
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if _, err := uuid.Parse(f.value); err != nil {
			return invalid("%s must be a valid id", f.name)
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
