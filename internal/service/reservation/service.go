package service

import (
	"context"
	"fmt"
	"time"

	"github.com/you-humble/stockledger/internal/model"
	"github.com/you-humble/stockledger/internal/owner"
	"github.com/you-humble/stockledger/platform/logger"
)

type ReservationRepository interface {
	List(ctx context.Context, ownerID int64) ([]model.ReservationView, error)
	ViewByID(ctx context.Context, id int64) (*model.ReservationView, error)
	ByID(ctx context.Context, id int64) (*model.Reservation, error)
	Update(ctx context.Context, r *model.Reservation) error
}

type service struct {
	repo           ReservationRepository
	readDBTimeout  time.Duration
	writeDBTimeout time.Duration
	now            func() time.Time
}

func NewReservationService(
	repository ReservationRepository,
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

func (svc *service) List(ctx context.Context) ([]model.ReservationView, error) {
	const op string = "reservation.service.List"

	ownerID, err := owner.ID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := context.WithTimeout(ctx, svc.readDBTimeout)
	defer cancel()

	views, err := svc.repo.List(ctx, ownerID)
	if err != nil {
		logger.Error(ctx, "repository list reservations", logger.Int64("owner_id", ownerID), logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := svc.now()
	for i := range views {
		views[i].EffectiveStatus = views[i].Reservation.EffectiveStatus(now)
	}

	return views, nil
}

// Update edits the reservation row directly. No ledger entry is written,
// so stock figures never change here.
func (svc *service) Update(ctx context.Context, params model.UpdateReservationParams) (*model.ReservationView, error) {
	const op string = "reservation.service.Update"

	ownerID, err := owner.ID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log := logger.With(logger.Int64("owner_id", ownerID), logger.Int64("reservation_id", params.ID))

	if params.Status != nil && !params.Status.Stored() {
		return nil, fmt.Errorf("%s: %w", op, model.ErrInvalidStatus)
	}

	wctx, cancel := context.WithTimeout(ctx, svc.writeDBTimeout)
	defer cancel()

	r, err := svc.repo.ByID(wctx, params.ID)
	if err != nil {
		log.Error(ctx, "repository reservation by id", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := owner.Check(ownerID, r.OwnerID); err != nil {
		log.Warn(ctx, "reservation of another owner")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	params.ApplyTo(r)
	r.UpdatedAt = svc.now()

	if err := svc.repo.Update(wctx, r); err != nil {
		log.Error(ctx, "repository update reservation", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	view, err := svc.repo.ViewByID(wctx, r.ID)
	if err != nil {
		log.Error(ctx, "repository reservation view", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	view.EffectiveStatus = view.Reservation.EffectiveStatus(svc.now())

	return view, nil
}
