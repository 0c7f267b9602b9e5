package service

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/you-humble/stockledger/internal/model"
	"github.com/you-humble/stockledger/internal/owner"
	"github.com/you-humble/stockledger/internal/service/mocks"
)

const ownerID int64 = 9

func ownerCtx() context.Context {
	return owner.WithIdentity(context.Background(), owner.Identity{OwnerID: ownerID})
}

func TestServiceCreate(t *testing.T) {
	t.Parallel()

	now := time.Now()
	title := gofakeit.Sentence(3)

	tests := []struct {
		name    string
		params  model.CreateReminderParams
		setup   func(repo *mocks.MockReminderRepository)
		wantErr error
	}{
		{
			name:    "blank title",
			params:  model.CreateReminderParams{Title: " ", DueAt: now},
			setup:   func(repo *mocks.MockReminderRepository) {},
			wantErr: model.ErrEmptyTitle,
		},
		{
			name: "unknown target",
			params: model.CreateReminderParams{
				Title:      title,
				DueAt:      now,
				TargetType: lo.ToPtr(model.ReminderTarget("bundle")),
			},
			setup:   func(repo *mocks.MockReminderRepository) {},
			wantErr: model.ErrInvalidTarget,
		},
		{
			name: "created",
			params: model.CreateReminderParams{
				Title:      " " + title,
				DueAt:      now.Add(time.Hour),
				TargetType: lo.ToPtr(model.TargetOperation),
				TargetID:   lo.ToPtr(int64(4)),
			},
			setup: func(repo *mocks.MockReminderRepository) {
				repo.
					On("Create", mock.Anything, mock.MatchedBy(func(r *model.Reminder) bool {
						return r.Title == title && r.OwnerID == ownerID && !r.Done && *r.TargetID == 4
					})).
					Return(int64(21), nil).
					Once()
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo := mocks.NewMockReminderRepository(t)
			tc.setup(repo)

			svc := NewReminderService(repo, time.Second, time.Second)
			svc.now = func() time.Time { return now }

			res, err := svc.Create(ownerCtx(), tc.params)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(21), res.ID)
			assert.Equal(t, now, res.CreatedAt)
		})
	}
}

func TestServiceUpdate(t *testing.T) {
	t.Parallel()

	stored := func(ownerID int64) *model.Reminder {
		return &model.Reminder{ID: 21, OwnerID: ownerID, Title: "Call", Message: lo.ToPtr("old"), DueAt: time.Now()}
	}

	t.Run("marks done and keeps the rest", func(t *testing.T) {
		t.Parallel()

		repo := mocks.NewMockReminderRepository(t)
		repo.On("ByID", mock.Anything, int64(21)).Return(stored(ownerID), nil).Once()
		repo.
			On("Update", mock.Anything, mock.MatchedBy(func(r *model.Reminder) bool {
				return r.Done && r.Title == "Call" && *r.Message == "old"
			})).
			Return(nil).
			Once()

		res, err := NewReminderService(repo, time.Second, time.Second).
			Update(ownerCtx(), model.UpdateReminderParams{ID: 21, Done: lo.ToPtr(true)})
		require.NoError(t, err)
		assert.True(t, res.Done)
	})

	t.Run("clears message", func(t *testing.T) {
		t.Parallel()

		repo := mocks.NewMockReminderRepository(t)
		repo.On("ByID", mock.Anything, int64(21)).Return(stored(ownerID), nil).Once()
		repo.On("Update", mock.Anything, mock.MatchedBy(func(r *model.Reminder) bool { return r.Message == nil })).Return(nil).Once()

		_, err := NewReminderService(repo, time.Second, time.Second).
			Update(ownerCtx(), model.UpdateReminderParams{ID: 21, Message: model.Null[string]()})
		require.NoError(t, err)
	})

	t.Run("another owner", func(t *testing.T) {
		t.Parallel()

		repo := mocks.NewMockReminderRepository(t)
		repo.On("ByID", mock.Anything, int64(21)).Return(stored(ownerID+1), nil).Once()

		_, err := NewReminderService(repo, time.Second, time.Second).
			Update(ownerCtx(), model.UpdateReminderParams{ID: 21, Done: lo.ToPtr(true)})
		require.ErrorIs(t, err, model.ErrForbidden)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		t.Parallel()

		_, err := NewReminderService(mocks.NewMockReminderRepository(t), time.Second, time.Second).
			Update(context.Background(), model.UpdateReminderParams{ID: 21})
		require.ErrorIs(t, err, model.ErrUnauthorized)
	})
}
