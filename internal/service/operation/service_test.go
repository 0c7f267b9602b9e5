package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/you-humble/stockledger/internal/model"
	"github.com/you-humble/stockledger/internal/owner"
	"github.com/you-humble/stockledger/internal/service/mocks"
)

type deps struct {
	products     *mocks.MockProductRepository
	operations   *mocks.MockOperationRepository
	reservations *mocks.MockReservationRepository
	bundles      *mocks.MockBundleRepository
	reminders    *mocks.MockReminderRepository
	events       *mocks.MockEventProducer
	tx           *mocks.MockTxManager
}

func newDeps(t *testing.T) deps {
	return deps{
		products:     mocks.NewMockProductRepository(t),
		operations:   mocks.NewMockOperationRepository(t),
		reservations: mocks.NewMockReservationRepository(t),
		bundles:      mocks.NewMockBundleRepository(t),
		reminders:    mocks.NewMockReminderRepository(t),
		events:       mocks.NewMockEventProducer(t),
		tx:           mocks.NewMockTxManager(t),
	}
}

func newSvc(d deps, now time.Time) *service {
	svc := NewOperationService(
		d.products, d.operations, d.reservations, d.bundles, d.reminders, d.events, d.tx,
		time.Second, time.Second,
	)
	svc.now = func() time.Time { return now }
	return svc
}

func passThroughTx(d deps) {
	d.tx.
		On("WithinTx", mock.Anything, mock.Anything).
		Return(func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) })
}

func qty(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func TestServiceCreate(t *testing.T) {
	t.Parallel()

	const (
		ownerID   int64 = 7
		productID int64 = 11
	)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	customer := gofakeit.Company()
	product := &model.Product{ID: productID, OwnerID: ownerID, Name: "Widget"}

	ownerCtx := owner.WithIdentity(context.Background(), owner.Identity{OwnerID: ownerID})

	lockProduct := func(d deps) {
		d.products.On("LockByID", mock.Anything, productID).Return(product, nil).Once()
	}
	commit := func(d deps, opID int64, check func(o *model.Operation) bool) {
		d.operations.
			On("Create", mock.Anything, mock.MatchedBy(check)).
			Return(opID, nil).
			Once()
		d.products.On("Touch", mock.Anything, productID, now).Return(nil).Once()
		d.operations.
			On("ViewByID", mock.Anything, opID).
			Return(&model.OperationView{Operation: model.Operation{ID: opID, ProductID: productID}}, nil).
			Once()
	}
	anyOp := func(*model.Operation) bool { return true }

	type testCase struct {
		name   string
		ctx    context.Context
		params model.CreateOperationParams
		setup  func(d deps)
		assert func(t *testing.T, res *model.OperationView, err error, d deps)
	}

	tests := []testCase{
		{
			name:   "unauthorized: no owner in context",
			ctx:    context.Background(),
			params: model.CreateOperationParams{ProductID: productID, Type: model.OperationPurchase, Quantity: qty(1)},
			setup:  func(d deps) {},
			assert: func(t *testing.T, res *model.OperationView, err error, d deps) {
				require.ErrorIs(t, err, model.ErrUnauthorized)
				assert.Nil(t, res)
				d.tx.AssertNotCalled(t, "WithinTx", mock.Anything, mock.Anything)
			},
		},
		{
			name:   "product not found",
			params: model.CreateOperationParams{ProductID: productID, Type: model.OperationPurchase, Quantity: qty(1)},
			setup: func(d deps) {
				passThroughTx(d)
				d.products.On("LockByID", mock.Anything, productID).Return(nil, model.ErrProductNotFound).Once()
			},
			assert: func(t *testing.T, res *model.OperationView, err error, d deps) {
				require.ErrorIs(t, err, model.ErrNotFound)
				assert.Nil(t, res)
			},
		},
		{
			name:   "forbidden: product of another owner",
			params: model.CreateOperationParams{ProductID: productID, Type: model.OperationPurchase, Quantity: qty(1)},
			setup: func(d deps) {
				passThroughTx(d)
				d.products.
					On("LockByID", mock.Anything, productID).
					Return(&model.Product{ID: productID, OwnerID: ownerID + 1}, nil).
					Once()
			},
			assert: func(t *testing.T, res *model.OperationView, err error, d deps) {
				require.ErrorIs(t, err, model.ErrForbidden)
				d.operations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			},
		},
		{
			name:   "invalid type is reported after the product check",
			params: model.CreateOperationParams{ProductID: productID, Type: "gift", Quantity: qty(0)},
			setup: func(d deps) {
				passThroughTx(d)
				lockProduct(d)
			},
			assert: func(t *testing.T, res *model.OperationView, err error, d deps) {
				require.ErrorIs(t, err, model.ErrInvalidType)
				d.operations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			},
		},
		{
			name:   "invalid quantity",
			params: model.CreateOperationParams{ProductID: productID, Type: model.OperationSale, Quantity: qty(-1)},
			setup: func(d deps) {
				passThroughTx(d)
				lockProduct(d)
			},
			assert: func(t *testing.T, res *model.OperationView, err error, d deps) {
				require.ErrorIs(t, err, model.ErrInvalidQuantity)
			},
		},
		{
			name:   "ship on credit requires a customer",
			params: model.CreateOperationParams{ProductID: productID, Type: model.OperationShipOnCredit, Quantity: qty(1), Customer: lo.ToPtr(" ")},
			setup: func(d deps) {
				passThroughTx(d)
				lockProduct(d)
			},
			assert: func(t *testing.T, res *model.OperationView, err error, d deps) {
				require.ErrorIs(t, err, model.ErrMissingCustomer)
			},
		},
		{
			name:   "close debt above the current debt",
			params: model.CreateOperationParams{ProductID: productID, Type: model.OperationCloseDebt, Quantity: qty(6), Customer: lo.ToPtr(strings.ToUpper(customer))},
			setup: func(d deps) {
				passThroughTx(d)
				lockProduct(d)
				d.operations.On("ListByProduct", mock.Anything, productID).Return([]model.Operation{
					{OwnerID: ownerID, ProductID: productID, Type: model.OperationShipOnCredit, Quantity: qty(5), Customer: lo.ToPtr(customer)},
				}, nil).Once()
			},
			assert: func(t *testing.T, res *model.OperationView, err error, d deps) {
				require.ErrorIs(t, err, model.ErrDebtExceeded)
				assert.ErrorIs(t, err, model.ErrConflict)
				d.operations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			},
		},
		{
			name:   "close debt without debt",
			params: model.CreateOperationParams{ProductID: productID, Type: model.OperationCloseDebt, Quantity: qty(1), Customer: lo.ToPtr(customer)},
			setup: func(d deps) {
				passThroughTx(d)
				lockProduct(d)
				d.operations.On("ListByProduct", mock.Anything, productID).Return([]model.Operation{
					{OwnerID: ownerID, ProductID: productID, Type: model.OperationShipOnCredit, Quantity: qty(5), Customer: lo.ToPtr(customer)},
					{OwnerID: ownerID, ProductID: productID, Type: model.OperationCloseDebt, Quantity: qty(5), Customer: lo.ToPtr(customer)},
				}, nil).Once()
			},
			assert: func(t *testing.T, res *model.OperationView, err error, d deps) {
				require.ErrorIs(t, err, model.ErrNoDebt)
			},
		},
		{
			name:   "close debt within the ceiling is paid by default",
			params: model.CreateOperationParams{ProductID: productID, Type: model.OperationCloseDebt, Quantity: qty(5), Customer: lo.ToPtr(customer)},
			setup: func(d deps) {
				passThroughTx(d)
				lockProduct(d)
				d.operations.On("ListByProduct", mock.Anything, productID).Return([]model.Operation{
					{OwnerID: ownerID, ProductID: productID, Type: model.OperationShipOnCredit, Quantity: qty(5), Customer: lo.ToPtr(customer)},
				}, nil).Once()
				commit(d, 100, func(o *model.Operation) bool { return o.Paid && o.Type == model.OperationCloseDebt })
				d.events.On("Send", mock.Anything, mock.Anything).Return(nil).Once()
			},
			assert: func(t *testing.T, res *model.OperationView, err error, d deps) {
				require.NoError(t, err)
				assert.Equal(t, int64(100), res.ID)
			},
		},
		{
			name: "reserve opens a reservation and schedules its reminder",
			params: model.CreateOperationParams{
				ProductID: productID,
				Type:      model.OperationReserve,
				Quantity:  qty(3),
				Customer:  lo.ToPtr(customer),
				Contact:   lo.ToPtr("+100"),
				DueAt:     lo.ToPtr(now.Add(72 * time.Hour)),
			},
			setup: func(d deps) {
				passThroughTx(d)
				lockProduct(d)
				d.reservations.
					On("Create", mock.Anything, mock.MatchedBy(func(r *model.Reservation) bool {
						return r.Status == model.ReservationActive &&
							strings.HasPrefix(r.LinkCode, "BR-") &&
							r.Quantity.Equal(qty(3)) &&
							r.OwnerID == ownerID
					})).
					Return(int64(55), nil).
					Once()
				commit(d, 101, func(o *model.Operation) bool {
					return o.ReservationID != nil && *o.ReservationID == 55 && !o.Paid && o.OccurredAt.Equal(now)
				})
				d.reminders.
					On("Create", mock.Anything, mock.MatchedBy(func(r *model.Reminder) bool {
						return r.Title == "Reservation expires: Widget" &&
							*r.Message == "Reservation #55 ("+customer+") expires tomorrow. Contact: +100" &&
							r.DueAt.Equal(now.Add(48*time.Hour)) &&
							*r.TargetType == model.TargetReservation &&
							*r.TargetID == 55
					})).
					Return(int64(1), nil).
					Once()
				d.events.
					On("Send", mock.Anything, mock.MatchedBy(func(e model.OperationEvent) bool {
						return e.Kind == model.EventOperationCreated && e.OperationID == 101 && e.EventID != ""
					})).
					Return(nil).
					Once()
			},
			assert: func(t *testing.T, res *model.OperationView, err error, d deps) {
				require.NoError(t, err)
				assert.Equal(t, int64(101), res.ID)
			},
		},
		{
			name:   "committed operation is returned when reading its view fails",
			params: model.CreateOperationParams{ProductID: productID, Type: model.OperationPurchase, Quantity: qty(4)},
			setup: func(d deps) {
				passThroughTx(d)
				lockProduct(d)
				d.operations.On("Create", mock.Anything, mock.Anything).Return(int64(103), nil).Once()
				d.products.On("Touch", mock.Anything, productID, now).Return(nil).Once()
				d.events.On("Send", mock.Anything, mock.Anything).Return(nil).Once()
				d.operations.On("ViewByID", mock.Anything, int64(103)).Return(nil, errors.New("conn reset")).Once()
			},
			assert: func(t *testing.T, res *model.OperationView, err error, d deps) {
				require.NoError(t, err)
				assert.Equal(t, int64(103), res.ID)
				assert.Equal(t, "Widget", res.Product.Name)
				assert.True(t, res.Quantity.Equal(qty(4)))
				assert.Nil(t, res.Reservation)
			},
		},
		{
			name:   "reserve due within a day gets no reminder",
			params: model.CreateOperationParams{ProductID: productID, Type: model.OperationReserve, Quantity: qty(1), DueAt: lo.ToPtr(now.Add(time.Hour))},
			setup: func(d deps) {
				passThroughTx(d)
				lockProduct(d)
				d.reservations.On("Create", mock.Anything, mock.Anything).Return(int64(56), nil).Once()
				commit(d, 102, anyOp)
				d.events.On("Send", mock.Anything, mock.Anything).Return(nil).Once()
			},
			assert: func(t *testing.T, res *model.OperationView, err error, d deps) {
				require.NoError(t, err)
				d.reminders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			},
		},
		{
			name:   "release requires a reservation id",
			params: model.CreateOperationParams{ProductID: productID, Type: model.OperationReserveRelease, Quantity: qty(1)},
			setup: func(d deps) {
				passThroughTx(d)
				lockProduct(d)
			},
			assert: func(t *testing.T, res *model.OperationView, err error, d deps) {
				require.ErrorIs(t, err, model.ErrMissingReservation)
			},
		},
		{
			name:   "release of an unknown reservation",
			params: model.CreateOperationParams{ProductID: productID, Type: model.OperationReserveRelease, Quantity: qty(1), ReservationID: lo.ToPtr(int64(9))},
			setup: func(d deps) {
				passThroughTx(d)
				lockProduct(d)
				d.reservations.On("LockByID", mock.Anything, int64(9)).Return(nil, model.ErrReservationNotFound).Once()
			},
			assert: func(t *testing.T, res *model.OperationView, err error, d deps) {
				require.ErrorIs(t, err, model.ErrReservationNotFound)
				d.operations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			},
		},
		{
			name:   "release of a sold reservation is rejected",
			params: model.CreateOperationParams{ProductID: productID, Type: model.OperationReserveRelease, Quantity: qty(1), ReservationID: lo.ToPtr(int64(9))},
			setup: func(d deps) {
				passThroughTx(d)
				lockProduct(d)
				d.reservations.
					On("LockByID", mock.Anything, int64(9)).
					Return(&model.Reservation{ID: 9, OwnerID: ownerID, Status: model.ReservationSold}, nil).
					Once()
			},
			assert: func(t *testing.T, res *model.OperationView, err error, d deps) {
				require.ErrorIs(t, err, model.ErrReservationClosed)
				d.reservations.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
				d.operations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			},
		},
		{
			name:   "sale from reserve marks the reservation sold",
			params: model.CreateOperationParams{ProductID: productID, Type: model.OperationSaleFromReserve, Quantity: qty(3), ReservationID: lo.ToPtr(int64(9))},
			setup: func(d deps) {
				passThroughTx(d)
				lockProduct(d)
				d.reservations.
					On("LockByID", mock.Anything, int64(9)).
					Return(&model.Reservation{ID: 9, OwnerID: ownerID, Status: model.ReservationActive}, nil).
					Once()
				d.reservations.
					On("Update", mock.Anything, mock.MatchedBy(func(r *model.Reservation) bool {
						return r.ID == 9 && r.Status == model.ReservationSold && r.UpdatedAt.Equal(now)
					})).
					Return(nil).
					Once()
				commit(d, 103, func(o *model.Operation) bool {
					return o.Paid && o.ReservationID != nil && *o.ReservationID == 9
				})
				d.events.On("Send", mock.Anything, mock.Anything).Return(nil).Once()
			},
			assert: func(t *testing.T, res *model.OperationView, err error, d deps) {
				require.NoError(t, err)
			},
		},
		{
			name:   "ship on credit survives reminder and event failures",
			params: model.CreateOperationParams{ProductID: productID, Type: model.OperationShipOnCredit, Quantity: qty(2), Customer: lo.ToPtr(customer)},
			setup: func(d deps) {
				passThroughTx(d)
				lockProduct(d)
				commit(d, 104, func(o *model.Operation) bool { return !o.Paid && *o.Customer == customer })
				d.reminders.
					On("Create", mock.Anything, mock.MatchedBy(func(r *model.Reminder) bool {
						return r.Title == "Check debt payment: "+customer &&
							*r.Message == "Shipped on credit: Widget (2 pcs). Customer: "+customer+"." &&
							r.DueAt.Equal(now.Add(7*24*time.Hour)) &&
							*r.TargetType == model.TargetOperation &&
							*r.TargetID == 104
					})).
					Return(int64(0), errors.New("db hiccup")).
					Once()
				d.events.On("Send", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()
			},
			assert: func(t *testing.T, res *model.OperationView, err error, d deps) {
				require.NoError(t, err)
				assert.Equal(t, int64(104), res.ID)
			},
		},
		{
			name: "bundle title creates a bundle named after the contact",
			params: model.CreateOperationParams{
				ProductID:   productID,
				Type:        model.OperationSale,
				Quantity:    qty(1),
				Contact:     lo.ToPtr("front desk"),
				Comment:     lo.ToPtr("boxed"),
				BundleTitle: lo.ToPtr("Order 12"),
				Paid:        lo.ToPtr(false),
			},
			setup: func(d deps) {
				passThroughTx(d)
				lockProduct(d)
				d.bundles.
					On("Create", mock.Anything, mock.MatchedBy(func(b *model.Bundle) bool {
						return *b.Title == "Order 12" && *b.Customer == "front desk" && *b.Note == "boxed"
					})).
					Return(int64(77), nil).
					Once()
				commit(d, 105, func(o *model.Operation) bool {
					return o.BundleID != nil && *o.BundleID == 77 && !o.Paid
				})
				d.events.On("Send", mock.Anything, mock.Anything).Return(nil).Once()
			},
			assert: func(t *testing.T, res *model.OperationView, err error, d deps) {
				require.NoError(t, err)
			},
		},
		{
			name:   "bundle of another owner",
			params: model.CreateOperationParams{ProductID: productID, Type: model.OperationSale, Quantity: qty(1), BundleID: lo.ToPtr(int64(3))},
			setup: func(d deps) {
				passThroughTx(d)
				lockProduct(d)
				d.bundles.On("ByID", mock.Anything, int64(3)).Return(&model.Bundle{ID: 3, OwnerID: ownerID + 1}, nil).Once()
			},
			assert: func(t *testing.T, res *model.OperationView, err error, d deps) {
				require.ErrorIs(t, err, model.ErrForbidden)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			d := newDeps(t)
			tc.setup(d)

			ctx := tc.ctx
			if ctx == nil {
				ctx = ownerCtx
			}

			res, err := newSvc(d, now).Create(ctx, tc.params)
			tc.assert(t, res, err, d)
		})
	}
}

func TestServiceDelete(t *testing.T) {
	t.Parallel()

	const ownerID int64 = 7
	now := time.Now()
	ctx := owner.WithIdentity(context.Background(), owner.Identity{OwnerID: ownerID})

	tests := []struct {
		name   string
		setup  func(d deps)
		assert func(t *testing.T, err error, d deps)
	}{
		{
			name: "missing operation is a no-op",
			setup: func(d deps) {
				passThroughTx(d)
				d.operations.On("ByID", mock.Anything, int64(1)).Return(nil, model.ErrOperationNotFound).Once()
			},
			assert: func(t *testing.T, err error, d deps) {
				require.NoError(t, err)
				d.operations.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
				d.events.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
			},
		},
		{
			name: "operation of another owner is left alone",
			setup: func(d deps) {
				passThroughTx(d)
				d.operations.On("ByID", mock.Anything, int64(1)).Return(&model.Operation{ID: 1, OwnerID: ownerID + 1}, nil).Once()
			},
			assert: func(t *testing.T, err error, d deps) {
				require.NoError(t, err)
				d.operations.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
			},
		},
		{
			name: "owned operation is deleted and the product touched",
			setup: func(d deps) {
				passThroughTx(d)
				d.operations.On("ByID", mock.Anything, int64(1)).Return(&model.Operation{ID: 1, OwnerID: ownerID, ProductID: 4}, nil).Once()
				d.operations.On("Delete", mock.Anything, int64(1)).Return(nil).Once()
				d.products.On("Touch", mock.Anything, int64(4), now).Return(nil).Once()
				d.events.
					On("Send", mock.Anything, mock.MatchedBy(func(e model.OperationEvent) bool {
						return e.Kind == model.EventOperationDeleted && e.OperationID == 1
					})).
					Return(nil).
					Once()
			},
			assert: func(t *testing.T, err error, d deps) {
				require.NoError(t, err)
			},
		},
		{
			name: "repository failure rolls back",
			setup: func(d deps) {
				passThroughTx(d)
				d.operations.On("ByID", mock.Anything, int64(1)).Return(nil, errors.New("conn reset")).Once()
			},
			assert: func(t *testing.T, err error, d deps) {
				require.Error(t, err)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			d := newDeps(t)
			tc.setup(d)

			err := newSvc(d, now).Delete(ctx, 1)
			tc.assert(t, err, d)
		})
	}
}

func TestServiceListProjectsExpiry(t *testing.T) {
	t.Parallel()

	now := time.Now()
	d := newDeps(t)
	d.operations.On("ListViews", mock.Anything, int64(7)).Return([]model.OperationView{
		{
			Operation: model.Operation{ID: 2},
			Reservation: &model.ReservationView{
				Reservation: model.Reservation{ID: 1, Status: model.ReservationActive, DueAt: lo.ToPtr(now.Add(-time.Minute))},
			},
		},
		{Operation: model.Operation{ID: 1}},
	}, nil).Once()

	views, err := newSvc(d, now).List(owner.WithIdentity(context.Background(), owner.Identity{OwnerID: 7}))
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, model.ReservationExpired, views[0].Reservation.EffectiveStatus)
	assert.Equal(t, model.ReservationActive, views[0].Reservation.Status)
}
