package ledger

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-humble/stockledger/internal/model"
)

func debtOp(productID int64, t model.OperationType, qty int64, customer string) model.Operation {
	o := op(productID, t, qty)
	o.Customer = lo.ToPtr(customer)
	return o
}

func TestDebtMatchesCustomerCaseInsensitively(t *testing.T) {
	t.Parallel()

	ops := []model.Operation{
		debtOp(1, model.OperationShipOnCredit, 5, "Acme"),
		debtOp(1, model.OperationShipOnCredit, 2, "  acme "),
		debtOp(1, model.OperationCloseDebt, 1, "ACME"),
		debtOp(1, model.OperationShipOnCredit, 9, "Other"),
		debtOp(2, model.OperationShipOnCredit, 9, "Acme"),
	}

	assert.Equal(t, "6", Debt(ops, 1, "acme").String())
	assert.Equal(t, "9", Debt(ops, 1, "other").String())
	assert.Equal(t, "0", Debt(ops, 1, "nobody").String())
}

func TestDebtIsNeverNegative(t *testing.T) {
	t.Parallel()

	for range 50 {
		var ops []model.Operation
		for range gofakeit.IntRange(1, 30) {
			typ := lo.Ternary(gofakeit.Bool(), model.OperationShipOnCredit, model.OperationCloseDebt)
			ops = append(ops, debtOp(1, typ, int64(gofakeit.IntRange(1, 20)), "Acme"))
		}

		assert.False(t, Debt(ops, 1, "Acme").IsNegative())
	}
}

func TestCloseDebtCeiling(t *testing.T) {
	t.Parallel()

	ops := []model.Operation{debtOp(1, model.OperationShipOnCredit, 5, "Acme")}
	debt := Debt(ops, 1, "Acme")
	require.Equal(t, "5", debt.String())

	err := CheckCloseDebt(debt, decimal.NewFromInt(6))
	require.ErrorIs(t, err, model.ErrDebtExceeded)
	assert.ErrorIs(t, err, model.ErrConflict)

	require.NoError(t, CheckCloseDebt(debt, decimal.NewFromInt(5)))
	ops = append(ops, debtOp(1, model.OperationCloseDebt, 5, "Acme"))
	debt = Debt(ops, 1, "Acme")
	assert.True(t, debt.IsZero())

	err = CheckCloseDebt(debt, decimal.NewFromInt(1))
	require.ErrorIs(t, err, model.ErrNoDebt)
	assert.ErrorIs(t, err, model.ErrConflict)
}

func TestActiveDebts(t *testing.T) {
	t.Parallel()

	ops := []model.Operation{
		debtOp(1, model.OperationShipOnCredit, 5, "Zeta"),
		debtOp(1, model.OperationShipOnCredit, 3, " acme"),
		debtOp(1, model.OperationCloseDebt, 1, "ACME"),
		debtOp(2, model.OperationShipOnCredit, 2, "Acme"),
		debtOp(2, model.OperationCloseDebt, 2, "acme"),
		op(1, model.OperationPurchase, 100),
	}

	got := ActiveDebts(ops)
	require.Len(t, got, 2)

	assert.Equal(t, "acme", got[0].Customer)
	assert.Equal(t, int64(1), got[0].ProductID)
	assert.Equal(t, "2", got[0].Debt.String())

	assert.Equal(t, "Zeta", got[1].Customer)
	assert.Equal(t, "5", got[1].Debt.String())
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params model.CreateOperationParams
		want   error
	}{
		{
			name:   "unknown type",
			params: model.CreateOperationParams{Type: "gift", Quantity: decimal.NewFromInt(1)},
			want:   model.ErrInvalidType,
		},
		{
			name:   "type is checked before quantity",
			params: model.CreateOperationParams{Type: "gift", Quantity: decimal.Zero},
			want:   model.ErrInvalidType,
		},
		{
			name:   "zero quantity",
			params: model.CreateOperationParams{Type: model.OperationSale, Quantity: decimal.Zero},
			want:   model.ErrInvalidQuantity,
		},
		{
			name:   "negative quantity",
			params: model.CreateOperationParams{Type: model.OperationSale, Quantity: decimal.NewFromInt(-2)},
			want:   model.ErrInvalidQuantity,
		},
		{
			name:   "ship on credit without customer",
			params: model.CreateOperationParams{Type: model.OperationShipOnCredit, Quantity: decimal.NewFromInt(1), Customer: lo.ToPtr("   ")},
			want:   model.ErrMissingCustomer,
		},
		{
			name:   "close debt without customer",
			params: model.CreateOperationParams{Type: model.OperationCloseDebt, Quantity: decimal.NewFromInt(1)},
			want:   model.ErrMissingCustomer,
		},
		{
			name:   "sale needs no customer",
			params: model.CreateOperationParams{Type: model.OperationSale, Quantity: decimal.NewFromFloat(0.5)},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateRequest(tc.params)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCheckReservation(t *testing.T) {
	t.Parallel()

	assert.NoError(t, CheckReservation(model.Reservation{Status: model.ReservationActive}))
	assert.ErrorIs(t, CheckReservation(model.Reservation{Status: model.ReservationSold}), model.ErrReservationClosed)
	assert.ErrorIs(t, CheckReservation(model.Reservation{Status: model.ReservationReleased}), model.ErrReservationClosed)
}
