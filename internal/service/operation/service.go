package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/you-humble/stockledger/internal/ledger"
	"github.com/you-humble/stockledger/internal/metrics"
	"github.com/you-humble/stockledger/internal/model"
	"github.com/you-humble/stockledger/internal/owner"
	"github.com/you-humble/stockledger/platform/logger"
)

type ProductRepository interface {
	LockByID(ctx context.Context, id int64) (*model.Product, error)
	Touch(ctx context.Context, id int64, at time.Time) error
}

type OperationRepository interface {
	ListByProduct(ctx context.Context, productID int64) ([]model.Operation, error)
	ListViews(ctx context.Context, ownerID int64) ([]model.OperationView, error)
	ViewByID(ctx context.Context, id int64) (*model.OperationView, error)
	ByID(ctx context.Context, id int64) (*model.Operation, error)
	Create(ctx context.Context, op *model.Operation) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type ReservationRepository interface {
	LockByID(ctx context.Context, id int64) (*model.Reservation, error)
	Create(ctx context.Context, r *model.Reservation) (int64, error)
	Update(ctx context.Context, r *model.Reservation) error
}

type BundleRepository interface {
	List(ctx context.Context, ownerID int64) ([]model.Bundle, error)
	ByID(ctx context.Context, id int64) (*model.Bundle, error)
	Create(ctx context.Context, b *model.Bundle) (int64, error)
}

type ReminderRepository interface {
	Create(ctx context.Context, r *model.Reminder) (int64, error)
}

type EventProducer interface {
	Send(ctx context.Context, event model.OperationEvent) error
}

type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type service struct {
	products       ProductRepository
	repo           OperationRepository
	reservations   ReservationRepository
	bundles        BundleRepository
	reminders      ReminderRepository
	events         EventProducer
	tx             TxManager
	readDBTimeout  time.Duration
	writeDBTimeout time.Duration
	now            func() time.Time
}

func NewOperationService(
	products ProductRepository,
	repository OperationRepository,
	reservations ReservationRepository,
	bundles BundleRepository,
	reminders ReminderRepository,
	events EventProducer,
	tx TxManager,
	readDBTimeout time.Duration,
	writeDBTimeout time.Duration,
) *service {
	return &service{
		products:       products,
		repo:           repository,
		reservations:   reservations,
		bundles:        bundles,
		reminders:      reminders,
		events:         events,
		tx:             tx,
		readDBTimeout:  readDBTimeout,
		writeDBTimeout: writeDBTimeout,
		now:            time.Now,
	}
}

// List returns the owner's journal, newest first.
func (svc *service) List(ctx context.Context) ([]model.OperationView, error) {
	const op string = "operation.service.List"

	ownerID, err := owner.ID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := context.WithTimeout(ctx, svc.readDBTimeout)
	defer cancel()

	views, err := svc.repo.ListViews(ctx, ownerID)
	if err != nil {
		logger.Error(ctx, "repository list operations", logger.Int64("owner_id", ownerID), logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := svc.now()
	for i := range views {
		project(&views[i], now)
	}

	return views, nil
}

func (svc *service) ListBundles(ctx context.Context) ([]model.Bundle, error) {
	const op string = "operation.service.ListBundles"

	ownerID, err := owner.ID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := context.WithTimeout(ctx, svc.readDBTimeout)
	defer cancel()

	bundles, err := svc.bundles.List(ctx, ownerID)
	if err != nil {
		logger.Error(ctx, "repository list bundles", logger.Int64("owner_id", ownerID), logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return bundles, nil
}

// Create validates and commits one ledger operation together with its
// reservation, bundle and product touch. Reminders and the event are sent
// after commit and never fail the call.
func (svc *service) Create(ctx context.Context, params model.CreateOperationParams) (*model.OperationView, error) {
	const op string = "operation.service.Create"

	ownerID, err := owner.ID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log := logger.With(
		logger.Int64("owner_id", ownerID),
		logger.Int64("product_id", params.ProductID),
		logger.String("type", string(params.Type)),
	)

	wctx, cancel := context.WithTimeout(ctx, svc.writeDBTimeout)
	defer cancel()

	var (
		created     model.Operation
		product     *model.Product
		reservation *model.Reservation
	)
	err = svc.tx.WithinTx(wctx, func(ctx context.Context) error {
		p, err := svc.products.LockByID(ctx, params.ProductID)
		if err != nil {
			return err
		}
		if err := owner.Check(ownerID, p.OwnerID); err != nil {
			return err
		}
		product = p

		if err := ledger.ValidateRequest(params); err != nil {
			return err
		}

		if params.Type == model.OperationCloseDebt {
			if err := svc.checkDebt(ctx, ownerID, p.ID, *params.Customer, params); err != nil {
				return err
			}
		}

		now := svc.now()
		o := ledger.NewOperation(ownerID, p.ID, params, now)

		reservation, err = svc.applyReservation(ctx, ownerID, &o, params, now)
		if err != nil {
			return err
		}

		if err := svc.applyBundle(ctx, ownerID, &o, params, now); err != nil {
			return err
		}

		id, err := svc.repo.Create(ctx, &o)
		if err != nil {
			return fmt.Errorf("create operation: %w", err)
		}
		o.ID = id

		if err := svc.products.Touch(ctx, p.ID, now); err != nil {
			return fmt.Errorf("touch product: %w", err)
		}

		created = o
		return nil
	})
	if err != nil {
		log.Error(ctx, "create operation", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log = log.With(logger.Int64("operation_id", created.ID))
	metrics.OperationsCreated.WithLabelValues(string(created.Type)).Inc()

	svc.remind(ctx, created, product, reservation)
	svc.publish(ctx, model.EventOperationCreated, created)

	rctx, rcancel := context.WithTimeout(ctx, svc.readDBTimeout)
	defer rcancel()

	view, err := svc.repo.ViewByID(rctx, created.ID)
	if err != nil {
		// The operation is committed; answer from what was written.
		log.Warn(ctx, "repository view by id, answering from the committed row", logger.ErrorF(err))
		return committedView(created, product, reservation, svc.now()), nil
	}
	project(view, svc.now())

	return view, nil
}

func committedView(o model.Operation, p *model.Product, r *model.Reservation, now time.Time) *model.OperationView {
	ref := model.ProductRef{ID: p.ID, Name: p.Name, SKU: p.SKU}

	view := &model.OperationView{Operation: o, Product: ref}
	if r != nil {
		rv := model.NewReservationView(*r, ref, now)
		view.Reservation = &rv
	}
	return view
}

// Delete removes an operation of the caller. Missing or foreign operations
// are ignored. Linked reservations and bundles are left as they are.
func (svc *service) Delete(ctx context.Context, id int64) error {
	const op string = "operation.service.Delete"

	ownerID, err := owner.ID(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	log := logger.With(logger.Int64("owner_id", ownerID), logger.Int64("operation_id", id))

	wctx, cancel := context.WithTimeout(ctx, svc.writeDBTimeout)
	defer cancel()

	var deleted *model.Operation
	err = svc.tx.WithinTx(wctx, func(ctx context.Context) error {
		o, err := svc.repo.ByID(ctx, id)
		if errors.Is(err, model.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if o.OwnerID != ownerID {
			return nil
		}

		if err := svc.repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete operation: %w", err)
		}
		if err := svc.products.Touch(ctx, o.ProductID, svc.now()); err != nil {
			return fmt.Errorf("touch product: %w", err)
		}

		deleted = o
		return nil
	})
	if err != nil {
		log.Error(ctx, "delete operation", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if deleted == nil {
		log.Debug(ctx, "operation not found for owner, nothing deleted")
		return nil
	}

	svc.publish(ctx, model.EventOperationDeleted, *deleted)
	return nil
}

func (svc *service) checkDebt(
	ctx context.Context,
	ownerID, productID int64,
	customer string,
	params model.CreateOperationParams,
) error {
	ops, err := svc.repo.ListByProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("list product operations: %w", err)
	}

	owned := ops[:0:0]
	for _, o := range ops {
		if o.OwnerID == ownerID {
			owned = append(owned, o)
		}
	}

	return ledger.CheckCloseDebt(ledger.Debt(owned, productID, customer), params.Quantity)
}

// applyReservation opens a reservation for reserve and closes the
// referenced one for release and sale from reserve.
func (svc *service) applyReservation(
	ctx context.Context,
	ownerID int64,
	o *model.Operation,
	params model.CreateOperationParams,
	now time.Time,
) (*model.Reservation, error) {
	if o.Type == model.OperationReserve {
		r := ledger.NewReservation(*o, now)

		id, err := svc.reservations.Create(ctx, &r)
		if err != nil {
			return nil, fmt.Errorf("create reservation: %w", err)
		}
		r.ID = id
		o.ReservationID = &id
		return &r, nil
	}

	status, ok := ledger.ReservationOutcome(o.Type)
	if !ok {
		return nil, nil
	}
	if params.ReservationID == nil {
		return nil, model.ErrMissingReservation
	}

	r, err := svc.reservations.LockByID(ctx, *params.ReservationID)
	if err != nil {
		return nil, err
	}
	if err := owner.Check(ownerID, r.OwnerID); err != nil {
		return nil, err
	}
	if err := ledger.CheckReservation(*r); err != nil {
		return nil, err
	}

	r.Status = status
	r.UpdatedAt = now
	if err := svc.reservations.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("update reservation: %w", err)
	}

	o.ReservationID = &r.ID
	return r, nil
}

func (svc *service) applyBundle(
	ctx context.Context,
	ownerID int64,
	o *model.Operation,
	params model.CreateOperationParams,
	now time.Time,
) error {
	if params.BundleID != nil {
		b, err := svc.bundles.ByID(ctx, *params.BundleID)
		if err != nil {
			return err
		}
		if err := owner.Check(ownerID, b.OwnerID); err != nil {
			return err
		}
		o.BundleID = &b.ID
		return nil
	}

	title := ledger.Trimmed(params.BundleTitle)
	if title == nil {
		return nil
	}
	b := ledger.NewBundle(*o, *title, now)

	id, err := svc.bundles.Create(ctx, &b)
	if err != nil {
		return fmt.Errorf("create bundle: %w", err)
	}
	o.BundleID = &id
	return nil
}

func (svc *service) publish(ctx context.Context, kind string, o model.Operation) {
	event := model.OperationEvent{
		EventID:     uuid.NewString(),
		Kind:        kind,
		OwnerID:     o.OwnerID,
		OperationID: o.ID,
		ProductID:   o.ProductID,
		Type:        o.Type,
		Quantity:    o.Quantity,
		Customer:    o.Customer,
		OccurredAt:  o.OccurredAt,
	}

	if err := svc.events.Send(ctx, event); err != nil {
		metrics.SideEffectFailures.WithLabelValues("event").Inc()
		logger.Warn(ctx, "publish operation event",
			logger.String("kind", kind),
			logger.Int64("operation_id", o.ID),
			logger.ErrorF(err),
		)
	}
}

// project fills the display status of the linked reservation.
func project(v *model.OperationView, now time.Time) {
	if v.Reservation != nil {
		v.Reservation.EffectiveStatus = v.Reservation.Reservation.EffectiveStatus(now)
	}
}
