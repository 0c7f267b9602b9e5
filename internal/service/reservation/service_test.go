package service

import (
	"context"
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

const ownerID int64 = 3

func ownerCtx() context.Context {
	return owner.WithIdentity(context.Background(), owner.Identity{OwnerID: ownerID})
}

func newSvc(repo *mocks.MockReservationRepository, now time.Time) *service {
	svc := NewReservationService(repo, time.Second, time.Second)
	svc.now = func() time.Time { return now }
	return svc
}

func reservation(status model.ReservationStatus, dueAt *time.Time) model.Reservation {
	return model.Reservation{
		ID:        11,
		OwnerID:   ownerID,
		ProductID: 2,
		Quantity:  decimal.NewFromInt(3),
		Customer:  lo.ToPtr(gofakeit.Name()),
		Status:    status,
		DueAt:     dueAt,
		LinkCode:  "R-1",
	}
}

func TestServiceListProjectsExpiry(t *testing.T) {
	t.Parallel()

	now := time.Now()
	repo := mocks.NewMockReservationRepository(t)
	repo.On("List", mock.Anything, ownerID).Return([]model.ReservationView{
		{Reservation: reservation(model.ReservationActive, lo.ToPtr(now.Add(-time.Minute)))},
		{Reservation: reservation(model.ReservationActive, lo.ToPtr(now.Add(time.Hour)))},
		{Reservation: reservation(model.ReservationActive, nil)},
		{Reservation: reservation(model.ReservationSold, lo.ToPtr(now.Add(-time.Hour)))},
	}, nil).Once()

	got, err := newSvc(repo, now).List(ownerCtx())
	require.NoError(t, err)

	statuses := lo.Map(got, func(v model.ReservationView, _ int) model.ReservationStatus { return v.EffectiveStatus })
	assert.Equal(t, []model.ReservationStatus{
		model.ReservationExpired,
		model.ReservationActive,
		model.ReservationActive,
		model.ReservationSold,
	}, statuses)
	assert.Equal(t, model.ReservationActive, got[0].Status)
}

func TestServiceUpdate(t *testing.T) {
	t.Parallel()

	now := time.Now()

	type testCase struct {
		name   string
		params model.UpdateReservationParams
		setup  func(repo *mocks.MockReservationRepository)
		assert func(t *testing.T, res *model.ReservationView, err error, repo *mocks.MockReservationRepository)
	}

	tests := []testCase{
		{
			name:   "expired cannot be stored",
			params: model.UpdateReservationParams{ID: 11, Status: lo.ToPtr(model.ReservationExpired)},
			setup:  func(repo *mocks.MockReservationRepository) {},
			assert: func(t *testing.T, res *model.ReservationView, err error, repo *mocks.MockReservationRepository) {
				require.ErrorIs(t, err, model.ErrInvalidStatus)
				assert.Nil(t, res)
			},
		},
		{
			name:   "not found",
			params: model.UpdateReservationParams{ID: 11},
			setup: func(repo *mocks.MockReservationRepository) {
				repo.On("ByID", mock.Anything, int64(11)).Return(nil, model.ErrReservationNotFound).Once()
			},
			assert: func(t *testing.T, res *model.ReservationView, err error, repo *mocks.MockReservationRepository) {
				require.ErrorIs(t, err, model.ErrNotFound)
			},
		},
		{
			name:   "another owner",
			params: model.UpdateReservationParams{ID: 11, Comment: model.NullableOf("mine now")},
			setup: func(repo *mocks.MockReservationRepository) {
				r := reservation(model.ReservationActive, nil)
				r.OwnerID = ownerID + 1
				repo.On("ByID", mock.Anything, int64(11)).Return(&r, nil).Once()
			},
			assert: func(t *testing.T, res *model.ReservationView, err error, repo *mocks.MockReservationRepository) {
				require.ErrorIs(t, err, model.ErrForbidden)
				repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			},
		},
		{
			name: "edits fields and returns projected view",
			params: model.UpdateReservationParams{
				ID:       11,
				Customer: model.Null[string](),
				DueAt:    model.NullableOf(now.Add(-time.Hour)),
				Comment:  model.NullableOf("call first"),
			},
			setup: func(repo *mocks.MockReservationRepository) {
				r := reservation(model.ReservationActive, nil)
				repo.On("ByID", mock.Anything, int64(11)).Return(&r, nil).Once()
				repo.
					On("Update", mock.Anything, mock.MatchedBy(func(r *model.Reservation) bool {
						return r.Customer == nil &&
							*r.Comment == "call first" &&
							r.DueAt.Equal(now.Add(-time.Hour)) &&
							r.Status == model.ReservationActive &&
							r.Quantity.Equal(decimal.NewFromInt(3)) &&
							r.UpdatedAt.Equal(now)
					})).
					Return(nil).
					Once()
				updated := r
				updated.DueAt = lo.ToPtr(now.Add(-time.Hour))
				repo.On("ViewByID", mock.Anything, int64(11)).Return(&model.ReservationView{Reservation: updated}, nil).Once()
			},
			assert: func(t *testing.T, res *model.ReservationView, err error, repo *mocks.MockReservationRepository) {
				require.NoError(t, err)
				assert.Equal(t, model.ReservationExpired, res.EffectiveStatus)
			},
		},
		{
			name:   "manual release",
			params: model.UpdateReservationParams{ID: 11, Status: lo.ToPtr(model.ReservationReleased)},
			setup: func(repo *mocks.MockReservationRepository) {
				r := reservation(model.ReservationActive, nil)
				repo.On("ByID", mock.Anything, int64(11)).Return(&r, nil).Once()
				repo.
					On("Update", mock.Anything, mock.MatchedBy(func(r *model.Reservation) bool {
						return r.Status == model.ReservationReleased
					})).
					Return(nil).
					Once()
				released := r
				released.Status = model.ReservationReleased
				repo.On("ViewByID", mock.Anything, int64(11)).Return(&model.ReservationView{Reservation: released}, nil).Once()
			},
			assert: func(t *testing.T, res *model.ReservationView, err error, repo *mocks.MockReservationRepository) {
				require.NoError(t, err)
				assert.Equal(t, model.ReservationReleased, res.EffectiveStatus)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo := mocks.NewMockReservationRepository(t)
			tc.setup(repo)

			res, err := newSvc(repo, now).Update(ownerCtx(), tc.params)
			tc.assert(t, res, err, repo)
		})
	}
}
