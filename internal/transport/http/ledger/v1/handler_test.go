package http

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/you-humble/stockledger/internal/export"
	"github.com/you-humble/stockledger/internal/model"
	"github.com/you-humble/stockledger/internal/transport/http/ledger/v1/mocks"
)

type deps struct {
	products     *mocks.MockProductService
	operations   *mocks.MockOperationService
	reservations *mocks.MockReservationService
	reminders    *mocks.MockReminderService
	dashboard    *mocks.MockDashboardService
	snapshots    *mocks.MockSnapshotService
}

func newDeps(t *testing.T) deps {
	return deps{
		products:     mocks.NewMockProductService(t),
		operations:   mocks.NewMockOperationService(t),
		reservations: mocks.NewMockReservationService(t),
		reminders:    mocks.NewMockReminderService(t),
		dashboard:    mocks.NewMockDashboardService(t),
		snapshots:    mocks.NewMockSnapshotService(t),
	}
}

func (d deps) router() http.Handler {
	return NewLedgerHandler(Services{
		Products:     d.products,
		Operations:   d.operations,
		Reservations: d.reservations,
		Reminders:    d.reminders,
		Dashboard:    d.dashboard,
		Snapshots:    d.snapshots,
	}).Routes()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestStatusOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{model.ErrEmptyName, http.StatusBadRequest},
		{model.ErrUnauthorized, http.StatusUnauthorized},
		{model.ErrForbidden, http.StatusForbidden},
		{model.ErrProductNotFound, http.StatusNotFound},
		{model.ErrDebtExceeded, http.StatusConflict},
		{model.ErrNoDebt, http.StatusConflict},
		{model.ErrProductReferenced, http.StatusConflict},
		{model.ErrUnavailable, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, statusOf(tc.err), tc.err.Error())
	}
}

func TestCreateOperation(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name     string
		body     string
		setup    func(d deps)
		wantCode int
		assert   func(t *testing.T, rec *httptest.ResponseRecorder)
	}

	tests := []testCase{
		{
			name:     "malformed body",
			body:     `{"productId":`,
			setup:    func(d deps) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "missing product id",
			body:     `{"type":"purchase","quantity":"1"}`,
			setup:    func(d deps) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "debt ceiling",
			body: `{"productId":1,"type":"close_debt","quantity":"6","customer":"Acme"}`,
			setup: func(d deps) {
				d.operations.On("Create", mock.Anything, mock.Anything).Return(nil, model.ErrDebtExceeded).Once()
			},
			wantCode: http.StatusConflict,
			assert: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Contains(t, rec.Body.String(), `"code":409`)
				assert.Contains(t, rec.Body.String(), "exceeds current debt")
			},
		},
		{
			name: "created",
			body: `{"productId":1,"type":"purchase","quantity":"2.5"}`,
			setup: func(d deps) {
				d.operations.
					On("Create", mock.Anything, mock.MatchedBy(func(p model.CreateOperationParams) bool {
						return p.ProductID == 1 &&
							p.Type == model.OperationPurchase &&
							p.Quantity.Equal(decimal.RequireFromString("2.5"))
					})).
					Return(&model.OperationView{Operation: model.Operation{ID: 9, ProductID: 1}}, nil).
					Once()
			},
			wantCode: http.StatusCreated,
			assert: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Contains(t, rec.Body.String(), `"id":9`)
			},
		},
		{
			name: "internal errors are not leaked",
			body: `{"productId":1,"type":"purchase","quantity":"1"}`,
			setup: func(d deps) {
				d.operations.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("pq: secret detail")).Once()
			},
			wantCode: http.StatusInternalServerError,
			assert: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.NotContains(t, rec.Body.String(), "secret")
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			d := newDeps(t)
			tc.setup(d)

			rec := do(t, d.router(), http.MethodPost, "/operations", tc.body)
			assert.Equal(t, tc.wantCode, rec.Code)
			if tc.assert != nil {
				tc.assert(t, rec)
			}
		})
	}
}

func TestUpdateProductPartialBody(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	d.products.
		On("Update", mock.Anything, mock.MatchedBy(func(p model.UpdateProductParams) bool {
			return p.ID == 5 &&
				p.Name == nil &&
				p.SKU.Set && !p.SKU.Valid &&
				!p.Notes.Set &&
				p.MinStock != nil && *p.MinStock == 3
		})).
		Return(&model.ProductSummary{Product: model.Product{ID: 5}}, nil).
		Once()

	rec := do(t, d.router(), http.MethodPut, "/products/5", `{"sku":null,"minStock":3}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateProductRejectsNegativeMinStock(t *testing.T) {
	t.Parallel()

	rec := do(t, newDeps(t).router(), http.MethodPut, "/products/5", `{"minStock":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteProduct(t *testing.T) {
	t.Parallel()

	t.Run("bad id", func(t *testing.T) {
		t.Parallel()

		rec := do(t, newDeps(t).router(), http.MethodDelete, "/products/abc", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("forbidden", func(t *testing.T) {
		t.Parallel()

		d := newDeps(t)
		d.products.On("Delete", mock.Anything, int64(3)).Return(model.ErrForbidden).Once()

		rec := do(t, d.router(), http.MethodDelete, "/products/3", "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("deleted", func(t *testing.T) {
		t.Parallel()

		d := newDeps(t)
		d.products.On("Delete", mock.Anything, int64(3)).Return(nil).Once()

		rec := do(t, d.router(), http.MethodDelete, "/products/3", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("offline id", func(t *testing.T) {
		t.Parallel()

		d := newDeps(t)
		d.products.On("Delete", mock.Anything, int64(-1760000000000)).Return(nil).Once()

		rec := do(t, d.router(), http.MethodDelete, "/products/-1760000000000", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestSearchProducts(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	d.products.On("Search", mock.Anything, "cable").Return([]model.ProductSummary{}, nil).Once()

	rec := do(t, d.router(), http.MethodGet, "/products/search?q=cable", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestExportOperations(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	d.operations.On("List", mock.Anything).Return([]model.OperationView{
		{
			Operation: model.Operation{ID: 1, Type: model.OperationSale, Quantity: decimal.NewFromInt(1)},
			Product:   model.ProductRef{ID: 1, Name: "Cable"},
		},
	}, nil).Once()

	rec := do(t, d.router(), http.MethodGet, "/operations/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Journal")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestExportOperationsUnknownZone(t *testing.T) {
	t.Parallel()

	rec := do(t, newDeps(t).router(), http.MethodGet, "/operations/export?tz=Mars/Olympus", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportSnapshot(t *testing.T) {
	t.Parallel()

	t.Run("id taken", func(t *testing.T) {
		t.Parallel()

		d := newDeps(t)
		d.snapshots.On("Import", mock.Anything, mock.Anything).Return(model.ErrIDTaken).Once()

		rec := do(t, d.router(), http.MethodPost, "/sync/full", `{"products":[],"operations":[]}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("imported", func(t *testing.T) {
		t.Parallel()

		d := newDeps(t)
		d.snapshots.
			On("Import", mock.Anything, mock.MatchedBy(func(s model.Snapshot) bool {
				return len(s.Products) == 1 && s.Products[0].Name == "Widget"
			})).
			Return(nil).
			Once()

		rec := do(t, d.router(), http.MethodPost, "/sync/full", `{"products":[{"id":1,"name":"Widget"}]}`)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestUpdateReservationStatus(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	d.reservations.
		On("Update", mock.Anything, mock.MatchedBy(func(p model.UpdateReservationParams) bool {
			return p.ID == 4 && p.Status != nil && *p.Status == model.ReservationReleased && !p.DueAt.Set
		})).
		Return(&model.ReservationView{EffectiveStatus: model.ReservationReleased}, nil).
		Once()

	rec := do(t, d.router(), http.MethodPut, "/reservations/4", `{"status":"released"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"released"`)
}
