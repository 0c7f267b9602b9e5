package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/you-humble/stockledger/internal/model"
	"github.com/you-humble/stockledger/internal/owner"
	"github.com/you-humble/stockledger/platform/logger"
)

type ReminderRepository interface {
	List(ctx context.Context, ownerID int64) ([]model.Reminder, error)
	ByID(ctx context.Context, id int64) (*model.Reminder, error)
	Create(ctx context.Context, r *model.Reminder) (int64, error)
	Update(ctx context.Context, r *model.Reminder) error
}

type service struct {
	repo           ReminderRepository
	readDBTimeout  time.Duration
	writeDBTimeout time.Duration
	now            func() time.Time
}

func NewReminderService(
	repository ReminderRepository,
	readDBTimeout time.Duration,
	writeDBTimeout time.Duration,
) *service {
	return &service{
		repo:           repository,
		readDBTimeout:  readDBTimeout,
		writeDBTimeout: writeDBTimeout,
		now:            time.Now,
	}
}

func (svc *service) List(ctx context.Context) ([]model.Reminder, error) {
	const op string = "reminder.service.List"

	ownerID, err := owner.ID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := context.WithTimeout(ctx, svc.readDBTimeout)
	defer cancel()

	reminders, err := svc.repo.List(ctx, ownerID)
	if err != nil {
		logger.Error(ctx, "repository list reminders", logger.Int64("owner_id", ownerID), logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return reminders, nil
}

func (svc *service) Create(ctx context.Context, params model.CreateReminderParams) (*model.Reminder, error) {
	const op string = "reminder.service.Create"

	ownerID, err := owner.ID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, fmt.Errorf("%s: %w", op, model.ErrEmptyTitle)
	}
	if params.TargetType != nil && !params.TargetType.Valid() {
		return nil, fmt.Errorf("%s: %w", op, model.ErrInvalidTarget)
	}

	r := &model.Reminder{
		OwnerID:    ownerID,
		Title:      title,
		Message:    params.Message,
		DueAt:      params.DueAt,
		TargetType: params.TargetType,
		TargetID:   params.TargetID,
		CreatedAt:  svc.now(),
	}

	ctx, cancel := context.WithTimeout(ctx, svc.writeDBTimeout)
	defer cancel()

	id, err := svc.repo.Create(ctx, r)
	if err != nil {
		logger.Error(ctx, "repository create reminder", logger.Int64("owner_id", ownerID), logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	r.ID = id

	return r, nil
}

func (svc *service) Update(ctx context.Context, params model.UpdateReminderParams) (*model.Reminder, error) {
	const op string = "reminder.service.Update"

	ownerID, err := owner.ID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log := logger.With(logger.Int64("owner_id", ownerID), logger.Int64("reminder_id", params.ID))

	if params.Title != nil && strings.TrimSpace(*params.Title) == "" {
		return nil, fmt.Errorf("%s: %w", op, model.ErrEmptyTitle)
	}

	ctx, cancel := context.WithTimeout(ctx, svc.writeDBTimeout)
	defer cancel()

	r, err := svc.repo.ByID(ctx, params.ID)
	if err != nil {
		log.Error(ctx, "repository reminder by id", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := owner.Check(ownerID, r.OwnerID); err != nil {
		log.Warn(ctx, "reminder of another owner")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	params.ApplyTo(r)

	if err := svc.repo.Update(ctx, r); err != nil {
		log.Error(ctx, "repository update reminder", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return r, nil
}
