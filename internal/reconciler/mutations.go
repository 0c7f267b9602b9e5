package reconciler

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/you-humble/stockledger/internal/model"
	"github.com/you-humble/stockledger/platform/logger"
)

func (r *Reconciler) CreateProduct(ctx context.Context, p model.CreateProductParams) (*model.ProductSummary, error) {
	return mutate(ctx, r, "reconciler.CreateProduct",
		func(ctx context.Context) (*model.ProductSummary, error) { return r.remote.CreateProduct(ctx, p) },
		mergeProduct,
		func(l *local, s *model.Snapshot) (*model.ProductSummary, error) { return l.createProduct(s, p) },
	)
}

func (r *Reconciler) UpdateProduct(ctx context.Context, p model.UpdateProductParams) (*model.ProductSummary, error) {
	return mutate(ctx, r, "reconciler.UpdateProduct",
		func(ctx context.Context) (*model.ProductSummary, error) { return r.remote.UpdateProduct(ctx, p) },
		mergeProduct,
		func(l *local, s *model.Snapshot) (*model.ProductSummary, error) { return l.updateProduct(s, p) },
	)
}

func (r *Reconciler) DeleteProduct(ctx context.Context, id int64) error {
	_, err := mutate(ctx, r, "reconciler.DeleteProduct",
		func(ctx context.Context) (struct{}, error) { return struct{}{}, r.remote.DeleteProduct(ctx, id) },
		func(s *model.Snapshot, _ struct{}) { dropProduct(s, id) },
		func(l *local, s *model.Snapshot) (struct{}, error) { return struct{}{}, l.deleteProduct(s, id) },
	)
	return err
}

func (r *Reconciler) CreateOperation(ctx context.Context, p model.CreateOperationParams) (*model.OperationView, error) {
	return mutate(ctx, r, "reconciler.CreateOperation",
		func(ctx context.Context) (*model.OperationView, error) { return r.remote.CreateOperation(ctx, p) },
		mergeOperation,
		func(l *local, s *model.Snapshot) (*model.OperationView, error) { return l.createOperation(s, p) },
	)
}

// DeleteOperation leaves a reservation the operation opened or closed as it is.
func (r *Reconciler) DeleteOperation(ctx context.Context, id int64) error {
	_, err := mutate(ctx, r, "reconciler.DeleteOperation",
		func(ctx context.Context) (struct{}, error) { return struct{}{}, r.remote.DeleteOperation(ctx, id) },
		func(s *model.Snapshot, _ struct{}) {
			s.Operations = lo.Reject(s.Operations, func(o model.OperationView, _ int) bool { return o.ID == id })
		},
		func(l *local, s *model.Snapshot) (struct{}, error) {
			l.deleteOperation(s, id)
			return struct{}{}, nil
		},
	)
	return err
}

func (r *Reconciler) UpdateReservation(ctx context.Context, p model.UpdateReservationParams) (*model.ReservationView, error) {
	return mutate(ctx, r, "reconciler.UpdateReservation",
		func(ctx context.Context) (*model.ReservationView, error) { return r.remote.UpdateReservation(ctx, p) },
		mergeReservation,
		func(l *local, s *model.Snapshot) (*model.ReservationView, error) { return l.updateReservation(s, p) },
	)
}

func (r *Reconciler) CreateReminder(ctx context.Context, p model.CreateReminderParams) (*model.Reminder, error) {
	return mutate(ctx, r, "reconciler.CreateReminder",
		func(ctx context.Context) (*model.Reminder, error) { return r.remote.CreateReminder(ctx, p) },
		mergeReminder,
		func(l *local, s *model.Snapshot) (*model.Reminder, error) { return l.createReminder(s, p) },
	)
}

func (r *Reconciler) UpdateReminder(ctx context.Context, p model.UpdateReminderParams) (*model.Reminder, error) {
	return mutate(ctx, r, "reconciler.UpdateReminder",
		func(ctx context.Context) (*model.Reminder, error) { return r.remote.UpdateReminder(ctx, p) },
		mergeReminder,
		func(l *local, s *model.Snapshot) (*model.Reminder, error) { return l.updateReminder(s, p) },
	)
}

// mutate forwards a change to the server while the reconciler is Synced
// with nothing pending and merges the answer into the cache. Otherwise, or
// when the server turns out to be unreachable, the change is applied to the
// cache and the snapshot is marked pending.
func mutate[T any](
	ctx context.Context,
	r *Reconciler,
	op string,
	online func(ctx context.Context) (T, error),
	merge func(s *model.Snapshot, res T),
	offline func(l *local, s *model.Snapshot) (T, error),
) (T, error) {
	var zero T

	st := r.Status()
	if st.State == StateUnsynced {
		return zero, fmt.Errorf("%s: %w", op, ErrNotLoggedIn)
	}

	if st.State == StateSynced && !st.Pending {
		rctx, cancel := context.WithTimeout(ctx, r.timeout)
		res, err := online(rctx)
		cancel()

		if err == nil {
			r.mu.Lock()
			defer r.mu.Unlock()

			s := clone(r.entry.Snapshot)
			merge(&s, res)
			restock(&s)
			r.entry.Snapshot = s
			r.version++
			r.save(ctx)

			return res, nil
		}
		if !errors.Is(err, model.ErrUnavailable) {
			return zero, fmt.Errorf("%s: %w", op, err)
		}
		r.degrade(ctx, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s := clone(r.entry.Snapshot)
	l := &local{ownerID: r.ownerID, now: r.now(), nextID: r.nextTempID}
	res, err := offline(l, &s)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", op, err)
	}
	restock(&s)

	r.entry.Snapshot = s
	r.entry.Pending = true
	r.version++
	r.save(ctx)

	logger.Debug(ctx, "applied offline", logger.String("op", op), logger.Int64("owner_id", r.ownerID))
	return res, nil
}

func mergeProduct(s *model.Snapshot, ps *model.ProductSummary) {
	s.Products = upsert(s.Products, *ps, func(x model.ProductSummary) bool { return x.ID == ps.ID }, false)
	renameRefs(s, ps.Product)
}

func mergeOperation(s *model.Snapshot, v *model.OperationView) {
	s.Operations = upsert(s.Operations, *v, func(x model.OperationView) bool { return x.ID == v.ID }, true)
	if v.Reservation != nil {
		mergeReservation(s, v.Reservation)
	}
	if v.Bundle != nil {
		b := *v.Bundle
		s.Bundles = upsert(s.Bundles, b, func(x model.Bundle) bool { return x.ID == b.ID }, true)
	}
}

func mergeReservation(s *model.Snapshot, v *model.ReservationView) {
	s.Reservations = upsert(s.Reservations, *v, func(x model.ReservationView) bool { return x.ID == v.ID }, false)
	for i := range s.Operations {
		if rv := s.Operations[i].Reservation; rv != nil && rv.ID == v.ID {
			linked := *v
			s.Operations[i].Reservation = &linked
		}
	}
}

func mergeReminder(s *model.Snapshot, rm *model.Reminder) {
	s.Reminders = upsert(s.Reminders, *rm, func(x model.Reminder) bool { return x.ID == rm.ID }, false)
}

// dropProduct removes the product and every accessory edge pointing at it.
func dropProduct(s *model.Snapshot, id int64) {
	s.Products = lo.Reject(s.Products, func(ps model.ProductSummary, _ int) bool { return ps.ID == id })
	for i := range s.Products {
		s.Products[i].Accessories = lo.Reject(s.Products[i].Accessories, func(a model.Accessory, _ int) bool {
			return a.AccessoryID == id
		})
	}
}

// upsert replaces the element matching same, or adds item at the front or
// the back of items.
func upsert[T any](items []T, item T, same func(T) bool, front bool) []T {
	if i := slices.IndexFunc(items, same); i >= 0 {
		items[i] = item
		return items
	}
	if front {
		return slices.Insert(items, 0, item)
	}
	return append(items, item)
}
