package ledger

import (
	"fmt"
	"time"

	"github.com/you-humble/stockledger/internal/model"
)

const (
	ReservationNotice = 24 * time.Hour
	DebtCheckAfter    = 7 * 24 * time.Hour
)

// ReminderFor builds the follow-up reminder of a committed operation, or nil
// when the operation type has none. A reservation due within a day gets none.
func ReminderFor(o model.Operation, p model.Product, r *model.Reservation, now time.Time) *model.Reminder {
	switch o.Type {
	case model.OperationReserve:
		if r == nil || r.DueAt == nil {
			return nil
		}
		at := r.DueAt.Add(-ReservationNotice)
		if !at.After(now) {
			return nil
		}

		msg := fmt.Sprintf("Reservation #%d (%s) expires tomorrow.", r.ID, orDefault(r.Customer, "Customer"))
		msg += contactSuffix(r.Contact)
		target := model.TargetReservation
		id := r.ID

		return &model.Reminder{
			OwnerID:    o.OwnerID,
			Title:      "Reservation expires: " + p.Name,
			Message:    &msg,
			DueAt:      at,
			TargetType: &target,
			TargetID:   &id,
			CreatedAt:  now,
		}

	case model.OperationShipOnCredit:
		customer := orDefault(o.Customer, "")
		msg := fmt.Sprintf("Shipped on credit: %s (%s pcs). Customer: %s.", p.Name, o.Quantity.String(), customer)
		msg += contactSuffix(o.Contact)
		target := model.TargetOperation
		id := o.ID

		return &model.Reminder{
			OwnerID:    o.OwnerID,
			Title:      "Check debt payment: " + customer,
			Message:    &msg,
			DueAt:      now.Add(DebtCheckAfter),
			TargetType: &target,
			TargetID:   &id,
			CreatedAt:  now,
		}

	default:
		return nil
	}
}

func contactSuffix(contact *string) string {
	if contact == nil || *contact == "" {
		return ""
	}
	return " Contact: " + *contact
}

func orDefault(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}
