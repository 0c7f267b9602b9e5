package ledger

import (
	"strings"

	"github.com/you-humble/stockledger/internal/model"
)

// ValidateRequest runs the request checks that do not need stored state,
// in order: type, quantity, customer. The product lookup precedes it and the
// debt ceiling follows it.
func ValidateRequest(p model.CreateOperationParams) error {
	if !p.Type.Valid() {
		return model.ErrInvalidType
	}
	if !p.Quantity.IsPositive() {
		return model.ErrInvalidQuantity
	}
	if p.Type.RequiresCustomer() && strings.TrimSpace(deref(p.Customer)) == "" {
		return model.ErrMissingCustomer
	}
	return nil
}

// CheckReservation validates the reservation a release or a sale from reserve targets.
// Only active reservations may leave the active state.
func CheckReservation(r model.Reservation) error {
	if r.Status != model.ReservationActive {
		return model.ErrReservationClosed
	}
	return nil
}

// ReservationOutcome is the status a reservation moves to for release and
// sale-from-reserve operations.
func ReservationOutcome(t model.OperationType) (model.ReservationStatus, bool) {
	switch t {
	case model.OperationReserveRelease:
		return model.ReservationReleased, true
	case model.OperationSaleFromReserve:
		return model.ReservationSold, true
	default:
		return "", false
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
