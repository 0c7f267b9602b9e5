package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/you-humble/stockledger/internal/model"
	"github.com/you-humble/stockledger/internal/owner"
	"github.com/you-humble/stockledger/platform/logger"
)

type ProductSummarizer interface {
	Summaries(ctx context.Context, ownerID int64) ([]model.ProductSummary, error)
}

type OperationRepository interface {
	ListViews(ctx context.Context, ownerID int64) ([]model.OperationView, error)
}

type ReservationRepository interface {
	List(ctx context.Context, ownerID int64) ([]model.ReservationView, error)
}

type ReminderRepository interface {
	List(ctx context.Context, ownerID int64) ([]model.Reminder, error)
}

type BundleRepository interface {
	List(ctx context.Context, ownerID int64) ([]model.Bundle, error)
}

type SnapshotRepository interface {
	TakenElsewhere(ctx context.Context, table string, ownerID int64, ids []int64) (bool, error)
	DeleteOwnerData(ctx context.Context, ownerID int64) error
	InsertProducts(ctx context.Context, ownerID int64, products []model.ProductSummary) error
	InsertRelations(ctx context.Context, products []model.ProductSummary) error
	InsertBundles(ctx context.Context, ownerID int64, bundles []model.Bundle) error
	InsertReservations(ctx context.Context, ownerID int64, reservations []model.ReservationView) error
	InsertOperations(ctx context.Context, ownerID int64, ops []model.OperationView) error
	InsertReminders(ctx context.Context, ownerID int64, reminders []model.Reminder) error
	ResetSequences(ctx context.Context) error
}

type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type service struct {
	products       ProductSummarizer
	operations     OperationRepository
	reservations   ReservationRepository
	reminders      ReminderRepository
	bundles        BundleRepository
	repo           SnapshotRepository
	tx             TxManager
	readDBTimeout  time.Duration
	writeDBTimeout time.Duration
	now            func() time.Time
}

func NewSnapshotService(
	products ProductSummarizer,
	operations OperationRepository,
	reservations ReservationRepository,
	reminders ReminderRepository,
	bundles BundleRepository,
	repository SnapshotRepository,
	tx TxManager,
	readDBTimeout time.Duration,
	writeDBTimeout time.Duration,
) *service {
	return &service{
		products:       products,
		operations:     operations,
		reservations:   reservations,
		reminders:      reminders,
		bundles:        bundles,
		repo:           repository,
		tx:             tx,
		readDBTimeout:  readDBTimeout,
		writeDBTimeout: writeDBTimeout,
		now:            time.Now,
	}
}

// Export collects every entity of the caller into one snapshot.
func (svc *service) Export(ctx context.Context) (*model.Snapshot, error) {
	const op string = "snapshot.service.Export"

	ownerID, err := owner.ID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log := logger.With(logger.Int64("owner_id", ownerID))

	products, err := svc.products.Summaries(ctx, ownerID)
	if err != nil {
		log.Error(ctx, "product summaries", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := context.WithTimeout(ctx, svc.readDBTimeout)
	defer cancel()

	ops, err := svc.operations.ListViews(ctx, ownerID)
	if err != nil {
		log.Error(ctx, "repository list operations", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	reservations, err := svc.reservations.List(ctx, ownerID)
	if err != nil {
		log.Error(ctx, "repository list reservations", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	reminders, err := svc.reminders.List(ctx, ownerID)
	if err != nil {
		log.Error(ctx, "repository list reminders", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	bundles, err := svc.bundles.List(ctx, ownerID)
	if err != nil {
		log.Error(ctx, "repository list bundles", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := svc.now()
	for i := range ops {
		if r := ops[i].Reservation; r != nil {
			r.EffectiveStatus = r.Reservation.EffectiveStatus(now)
		}
	}
	for i := range reservations {
		reservations[i].EffectiveStatus = reservations[i].Reservation.EffectiveStatus(now)
	}

	return &model.Snapshot{
		Products:     orEmpty(products),
		Operations:   orEmpty(ops),
		Reservations: orEmpty(reservations),
		Reminders:    orEmpty(reminders),
		Bundles:      orEmpty(bundles),
	}, nil
}

// Import replaces all data of the caller with s in one transaction. Stored
// ids are kept; an id that belongs to another owner aborts the import.
func (svc *service) Import(ctx context.Context, s model.Snapshot) error {
	const op string = "snapshot.service.Import"

	ownerID, err := owner.ID(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	log := logger.With(
		logger.Int64("owner_id", ownerID),
		logger.Int("products", len(s.Products)),
		logger.Int("operations", len(s.Operations)),
	)

	if err := validate(s); err != nil {
		log.Warn(ctx, "invalid snapshot", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := context.WithTimeout(ctx, svc.writeDBTimeout)
	defer cancel()

	err = svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := svc.checkIDs(ctx, ownerID, s); err != nil {
			return err
		}

		if err := svc.repo.DeleteOwnerData(ctx, ownerID); err != nil {
			return err
		}
		if err := svc.repo.InsertProducts(ctx, ownerID, s.Products); err != nil {
			return err
		}
		if err := svc.repo.InsertRelations(ctx, s.Products); err != nil {
			return err
		}
		if err := svc.repo.InsertBundles(ctx, ownerID, s.Bundles); err != nil {
			return err
		}
		if err := svc.repo.InsertReservations(ctx, ownerID, s.Reservations); err != nil {
			return err
		}
		if err := svc.repo.InsertOperations(ctx, ownerID, s.Operations); err != nil {
			return err
		}
		if err := svc.repo.InsertReminders(ctx, ownerID, s.Reminders); err != nil {
			return err
		}

		return svc.repo.ResetSequences(ctx)
	})
	if err != nil {
		log.Error(ctx, "import snapshot", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info(ctx, "snapshot imported")
	return nil
}

func (svc *service) checkIDs(ctx context.Context, ownerID int64, s model.Snapshot) error {
	checks := []struct {
		table string
		ids   []int64
	}{
		{"products", lo.Map(s.Products, func(p model.ProductSummary, _ int) int64 { return p.ID })},
		{"bundles", lo.Map(s.Bundles, func(b model.Bundle, _ int) int64 { return b.ID })},
		{"reservations", lo.Map(s.Reservations, func(r model.ReservationView, _ int) int64 { return r.ID })},
		{"operations", lo.Map(s.Operations, func(o model.OperationView, _ int) int64 { return o.ID })},
		{"reminders", lo.Map(s.Reminders, func(r model.Reminder, _ int) int64 { return r.ID })},
	}

	for _, c := range checks {
		taken, err := svc.repo.TakenElsewhere(ctx, c.table, ownerID, c.ids)
		if err != nil {
			return fmt.Errorf("check %s ids: %w", c.table, err)
		}
		if taken {
			return fmt.Errorf("%s: %w", c.table, model.ErrIDTaken)
		}
	}
	return nil
}

// validate rejects snapshots the ledger could not have produced.
func validate(s model.Snapshot) error {
	for _, p := range s.Products {
		if strings.TrimSpace(p.Name) == "" {
			return model.ErrEmptyName
		}
		if p.MinStock < 0 {
			return model.ErrInvalidMinStock
		}
	}
	for _, o := range s.Operations {
		if !o.Type.Valid() {
			return model.ErrInvalidType
		}
		if !o.Quantity.IsPositive() {
			return model.ErrInvalidQuantity
		}
	}
	for _, r := range s.Reservations {
		if !r.Status.Stored() {
			return model.ErrInvalidStatus
		}
	}
	for _, r := range s.Reminders {
		if r.TargetType != nil && !r.TargetType.Valid() {
			return model.ErrInvalidTarget
		}
	}
	return checkReferences(s)
}

// checkReferences requires every product, reservation and bundle a row points
// at to be part of the same snapshot. Foreign keys alone would accept rows
// of another owner.
func checkReferences(s model.Snapshot) error {
	products := idSet(s.Products, func(p model.ProductSummary) int64 { return p.ID })
	reservations := idSet(s.Reservations, func(r model.ReservationView) int64 { return r.ID })
	bundles := idSet(s.Bundles, func(b model.Bundle) int64 { return b.ID })

	for _, p := range s.Products {
		for _, a := range p.Accessories {
			if !products[a.AccessoryID] {
				return fmt.Errorf("%w: product %d accessory %d", model.ErrForeignReference, p.ID, a.AccessoryID)
			}
		}
	}
	for _, r := range s.Reservations {
		if !products[r.ProductID] {
			return fmt.Errorf("%w: reservation %d product %d", model.ErrForeignReference, r.ID, r.ProductID)
		}
	}
	for _, o := range s.Operations {
		if !products[o.ProductID] {
			return fmt.Errorf("%w: operation %d product %d", model.ErrForeignReference, o.ID, o.ProductID)
		}
		if o.ReservationID != nil && !reservations[*o.ReservationID] {
			return fmt.Errorf("%w: operation %d reservation %d", model.ErrForeignReference, o.ID, *o.ReservationID)
		}
		if o.BundleID != nil && !bundles[*o.BundleID] {
			return fmt.Errorf("%w: operation %d bundle %d", model.ErrForeignReference, o.ID, *o.BundleID)
		}
	}
	return nil
}

func idSet[T any](items []T, id func(T) int64) map[int64]bool {
	return lo.SliceToMap(items, func(item T) (int64, bool) { return id(item), true })
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
