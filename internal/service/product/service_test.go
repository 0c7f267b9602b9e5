package service

import (
	"context"
	"errors"
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
	repo       *mocks.MockProductRepository
	operations *mocks.MockOperationRepository
	tx         *mocks.MockTxManager
}

func newDeps(t *testing.T) deps {
	return deps{
		repo:       mocks.NewMockProductRepository(t),
		operations: mocks.NewMockOperationRepository(t),
		tx:         mocks.NewMockTxManager(t),
	}
}

func newSvc(d deps, now time.Time) *service {
	svc := NewProductService(d.repo, d.operations, d.tx, time.Second, time.Second)
	svc.now = func() time.Time { return now }
	return svc
}

func passThroughTx(d deps) {
	d.tx.
		On("WithinTx", mock.Anything, mock.Anything).
		Return(func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) })
}

func expectSummary(d deps, id int64, ops []model.Operation) {
	d.operations.On("ListByProduct", mock.Anything, id).Return(ops, nil).Once()
	d.repo.On("Aliases", mock.Anything, []int64{id}).Return(map[int64][]model.Alias{}, nil).Once()
	d.repo.On("Accessories", mock.Anything, []int64{id}).Return(map[int64][]model.Accessory{}, nil).Once()
}

const ownerID int64 = 7

func ownerCtx() context.Context {
	return owner.WithIdentity(context.Background(), owner.Identity{OwnerID: ownerID})
}

func TestServiceCreate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	name := gofakeit.ProductName()

	type testCase struct {
		name   string
		params model.CreateProductParams
		setup  func(d deps)
		assert func(t *testing.T, res *model.ProductSummary, err error, d deps)
	}

	tests := []testCase{
		{
			name:   "empty name",
			params: model.CreateProductParams{Name: "   "},
			setup:  func(d deps) {},
			assert: func(t *testing.T, res *model.ProductSummary, err error, d deps) {
				require.ErrorIs(t, err, model.ErrEmptyName)
				assert.ErrorIs(t, err, model.ErrInvalidInput)
				assert.Nil(t, res)
			},
		},
		{
			name:   "negative min stock",
			params: model.CreateProductParams{Name: name, MinStock: -1},
			setup:  func(d deps) {},
			assert: func(t *testing.T, res *model.ProductSummary, err error, d deps) {
				require.ErrorIs(t, err, model.ErrInvalidMinStock)
			},
		},
		{
			name: "creates with aliases and accessories",
			params: model.CreateProductParams{
				Name:         "  " + name + " ",
				Aliases:      []string{"a", " a ", "", "b"},
				AccessoryIDs: []int64{3, 3, 4},
			},
			setup: func(d deps) {
				passThroughTx(d)
				d.repo.
					On("Create", mock.Anything, mock.MatchedBy(func(p *model.Product) bool {
						return p.Name == name && p.OwnerID == ownerID && p.CreatedAt.Equal(now)
					})).
					Return(int64(10), nil).
					Once()
				d.repo.On("ReplaceAliases", mock.Anything, int64(10), []string{"a", "b"}).Return(nil).Once()
				d.repo.On("CountOwned", mock.Anything, ownerID, []int64{3, 4}).Return(2, nil).Once()
				d.repo.On("ReplaceAccessories", mock.Anything, int64(10), []int64{3, 4}).Return(nil).Once()
				expectSummary(d, 10, nil)
			},
			assert: func(t *testing.T, res *model.ProductSummary, err error, d deps) {
				require.NoError(t, err)
				assert.Equal(t, int64(10), res.ID)
				assert.True(t, res.Stock.Available.IsZero())
				assert.NotNil(t, res.Aliases)
			},
		},
		{
			name:   "accessory of another owner rejects the batch",
			params: model.CreateProductParams{Name: name, AccessoryIDs: []int64{3, 99}},
			setup: func(d deps) {
				passThroughTx(d)
				d.repo.On("Create", mock.Anything, mock.Anything).Return(int64(10), nil).Once()
				d.repo.On("ReplaceAliases", mock.Anything, int64(10), []string{}).Return(nil).Once()
				d.repo.On("CountOwned", mock.Anything, ownerID, []int64{3, 99}).Return(1, nil).Once()
			},
			assert: func(t *testing.T, res *model.ProductSummary, err error, d deps) {
				require.ErrorIs(t, err, model.ErrInvalidAccessory)
				d.repo.AssertNotCalled(t, "ReplaceAccessories", mock.Anything, mock.Anything, mock.Anything)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			d := newDeps(t)
			tc.setup(d)

			res, err := newSvc(d, now).Create(ownerCtx(), tc.params)
			tc.assert(t, res, err, d)
		})
	}
}

func TestServiceUpdate(t *testing.T) {
	t.Parallel()

	now := time.Now()
	existing := func() *model.Product {
		return &model.Product{ID: 5, OwnerID: ownerID, Name: "Widget", SKU: lo.ToPtr("W-1"), Notes: lo.ToPtr("old"), MinStock: 2}
	}

	type testCase struct {
		name   string
		params model.UpdateProductParams
		setup  func(d deps)
		assert func(t *testing.T, res *model.ProductSummary, err error, d deps)
	}

	tests := []testCase{
		{
			name:   "empty name",
			params: model.UpdateProductParams{ID: 5, Name: lo.ToPtr("")},
			setup:  func(d deps) {},
			assert: func(t *testing.T, res *model.ProductSummary, err error, d deps) {
				require.ErrorIs(t, err, model.ErrEmptyName)
			},
		},
		{
			name:   "product of another owner",
			params: model.UpdateProductParams{ID: 5, Name: lo.ToPtr("Gadget")},
			setup: func(d deps) {
				passThroughTx(d)
				d.repo.On("ByID", mock.Anything, int64(5)).Return(&model.Product{ID: 5, OwnerID: ownerID + 1}, nil).Once()
			},
			assert: func(t *testing.T, res *model.ProductSummary, err error, d deps) {
				require.ErrorIs(t, err, model.ErrForbidden)
				d.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			},
		},
		{
			name: "partial update keeps omitted fields and clears explicit nulls",
			params: model.UpdateProductParams{
				ID:       5,
				MinStock: lo.ToPtr(4),
				Notes:    model.Null[string](),
			},
			setup: func(d deps) {
				passThroughTx(d)
				d.repo.On("ByID", mock.Anything, int64(5)).Return(existing(), nil).Once()
				d.repo.
					On("Update", mock.Anything, mock.MatchedBy(func(p *model.Product) bool {
						return p.Name == "Widget" && *p.SKU == "W-1" && p.Notes == nil && p.MinStock == 4
					})).
					Return(nil).
					Once()
				expectSummary(d, 5, []model.Operation{
					{ProductID: 5, Type: model.OperationPurchase, Quantity: decimal.NewFromInt(3)},
				})
			},
			assert: func(t *testing.T, res *model.ProductSummary, err error, d deps) {
				require.NoError(t, err)
				assert.Equal(t, "3", res.Stock.OnHand.String())
				d.repo.AssertNotCalled(t, "ReplaceAliases", mock.Anything, mock.Anything, mock.Anything)
				d.repo.AssertNotCalled(t, "ReplaceAccessories", mock.Anything, mock.Anything, mock.Anything)
			},
		},
		{
			name:   "self link is dropped from accessories",
			params: model.UpdateProductParams{ID: 5, AccessoryIDs: lo.ToPtr([]int64{5})},
			setup: func(d deps) {
				passThroughTx(d)
				d.repo.On("ByID", mock.Anything, int64(5)).Return(existing(), nil).Once()
				d.repo.On("Update", mock.Anything, mock.Anything).Return(nil).Once()
				d.repo.On("ReplaceAccessories", mock.Anything, int64(5), []int64{}).Return(nil).Once()
				expectSummary(d, 5, nil)
			},
			assert: func(t *testing.T, res *model.ProductSummary, err error, d deps) {
				require.NoError(t, err)
				d.repo.AssertNotCalled(t, "CountOwned", mock.Anything, mock.Anything, mock.Anything)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			d := newDeps(t)
			tc.setup(d)

			res, err := newSvc(d, now).Update(ownerCtx(), tc.params)
			tc.assert(t, res, err, d)
		})
	}
}

func TestServiceDelete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   func(d deps)
		wantErr error
	}{
		{
			name: "not found",
			setup: func(d deps) {
				passThroughTx(d)
				d.repo.On("ByID", mock.Anything, int64(5)).Return(nil, model.ErrProductNotFound).Once()
			},
			wantErr: model.ErrNotFound,
		},
		{
			name: "another owner",
			setup: func(d deps) {
				passThroughTx(d)
				d.repo.On("ByID", mock.Anything, int64(5)).Return(&model.Product{ID: 5, OwnerID: 1}, nil).Once()
			},
			wantErr: model.ErrForbidden,
		},
		{
			name: "referenced by operations",
			setup: func(d deps) {
				passThroughTx(d)
				d.repo.On("ByID", mock.Anything, int64(5)).Return(&model.Product{ID: 5, OwnerID: ownerID}, nil).Once()
				d.repo.On("IsReferenced", mock.Anything, int64(5)).Return(true, nil).Once()
			},
			wantErr: model.ErrProductReferenced,
		},
		{
			name: "deleted",
			setup: func(d deps) {
				passThroughTx(d)
				d.repo.On("ByID", mock.Anything, int64(5)).Return(&model.Product{ID: 5, OwnerID: ownerID}, nil).Once()
				d.repo.On("IsReferenced", mock.Anything, int64(5)).Return(false, nil).Once()
				d.repo.On("Delete", mock.Anything, int64(5)).Return(nil).Once()
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			d := newDeps(t)
			tc.setup(d)

			err := newSvc(d, time.Now()).Delete(ownerCtx(), 5)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestServiceSummariesFoldStock(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	d.repo.On("List", mock.Anything, ownerID).Return([]model.Product{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}, nil).Once()
	d.operations.On("ListByOwner", mock.Anything, ownerID).Return([]model.Operation{
		{ProductID: 1, Type: model.OperationPurchase, Quantity: decimal.NewFromInt(10)},
		{ProductID: 1, Type: model.OperationReserve, Quantity: decimal.NewFromInt(3)},
	}, nil).Once()
	d.repo.On("Aliases", mock.Anything, []int64{1, 2}).Return(map[int64][]model.Alias{
		1: {{ID: 1, ProductID: 1, Label: "alpha"}},
	}, nil).Once()
	d.repo.On("Accessories", mock.Anything, []int64{1, 2}).Return(map[int64][]model.Accessory{}, nil).Once()

	got, err := newSvc(d, time.Now()).List(ownerCtx())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "7", got[0].Stock.Available.String())
	assert.Equal(t, "3", got[0].Stock.Reserved.String())
	assert.Len(t, got[0].Aliases, 1)
	assert.True(t, got[1].Stock.OnHand.IsZero())
	assert.Empty(t, got[1].Aliases)
}

func TestServiceSearch(t *testing.T) {
	t.Parallel()

	t.Run("blank query returns nothing", func(t *testing.T) {
		t.Parallel()

		got, err := newSvc(newDeps(t), time.Now()).Search(ownerCtx(), "  ")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("limits results", func(t *testing.T) {
		t.Parallel()

		d := newDeps(t)
		d.repo.On("Search", mock.Anything, ownerID, "wid", uint64(searchLimit)).Return(nil, errors.New("timeout")).Once()

		_, err := newSvc(d, time.Now()).Search(ownerCtx(), "wid")
		require.Error(t, err)
	})
}
