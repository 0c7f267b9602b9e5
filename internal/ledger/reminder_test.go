package ledger

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-humble/stockledger/internal/model"
)

func TestReminderFor(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	p := model.Product{ID: 1, Name: "Router"}

	t.Run("reserve", func(t *testing.T) {
		t.Parallel()

		r := &model.Reservation{ID: 12, DueAt: lo.ToPtr(now.Add(72 * time.Hour)), Contact: lo.ToPtr("+1 555")}
		rm := ReminderFor(model.Operation{Type: model.OperationReserve, OwnerID: 3}, p, r, now)

		require.NotNil(t, rm)
		assert.Equal(t, "Reservation expires: Router", rm.Title)
		assert.Equal(t, "Reservation #12 (Customer) expires tomorrow. Contact: +1 555", *rm.Message)
		assert.Equal(t, now.Add(48*time.Hour), rm.DueAt)
		assert.Equal(t, model.TargetReservation, *rm.TargetType)
		assert.Equal(t, int64(12), *rm.TargetID)
		assert.Equal(t, int64(3), rm.OwnerID)
	})

	t.Run("reserve due too soon", func(t *testing.T) {
		t.Parallel()

		r := &model.Reservation{ID: 12, DueAt: lo.ToPtr(now.Add(12 * time.Hour))}
		assert.Nil(t, ReminderFor(model.Operation{Type: model.OperationReserve}, p, r, now))
	})

	t.Run("ship on credit", func(t *testing.T) {
		t.Parallel()

		o := model.Operation{ID: 40, Type: model.OperationShipOnCredit, Quantity: decimal.NewFromInt(3), Customer: lo.ToPtr("Acme")}
		rm := ReminderFor(o, p, nil, now)

		require.NotNil(t, rm)
		assert.Equal(t, "Check debt payment: Acme", rm.Title)
		assert.Equal(t, "Shipped on credit: Router (3 pcs). Customer: Acme.", *rm.Message)
		assert.Equal(t, now.Add(DebtCheckAfter), rm.DueAt)
		assert.Equal(t, int64(40), *rm.TargetID)
	})

	t.Run("purchase has none", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, ReminderFor(model.Operation{Type: model.OperationPurchase}, p, nil, now))
	})
}
