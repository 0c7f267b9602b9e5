package ledger

import (
	"strings"
	"time"

	"github.com/you-humble/stockledger/internal/model"
)

// NewOperation builds the ledger entry of a validated request: free-text
// fields trimmed, paid and occurredAt defaulted.
func NewOperation(ownerID, productID int64, p model.CreateOperationParams, now time.Time) model.Operation {
	o := model.Operation{
		OwnerID:      ownerID,
		ProductID:    productID,
		Type:         p.Type,
		Quantity:     p.Quantity,
		Customer:     Trimmed(p.Customer),
		Contact:      Trimmed(p.Contact),
		PermitNumber: Trimmed(p.PermitNumber),
		Paid:         p.Type.PaidByDefault(),
		DueAt:        p.DueAt,
		Comment:      p.Comment,
		OccurredAt:   now,
		CreatedAt:    now,
	}
	if p.Paid != nil {
		o.Paid = *p.Paid
	}
	if p.OccurredAt != nil {
		o.OccurredAt = *p.OccurredAt
	}
	return o
}

// NewReservation opens the reservation a reserve operation creates.
func NewReservation(o model.Operation, now time.Time) model.Reservation {
	return model.Reservation{
		OwnerID:   o.OwnerID,
		ProductID: o.ProductID,
		Quantity:  o.Quantity,
		Customer:  o.Customer,
		Contact:   o.Contact,
		Status:    model.ReservationActive,
		DueAt:     o.DueAt,
		Comment:   o.Comment,
		LinkCode:  NewLinkCode(now),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewBundle groups operations under title. The bundle customer falls back
// to the contact.
func NewBundle(o model.Operation, title string, now time.Time) model.Bundle {
	customer := o.Customer
	if customer == nil {
		customer = o.Contact
	}
	return model.Bundle{
		OwnerID:   o.OwnerID,
		Title:     &title,
		Customer:  customer,
		Note:      o.Comment,
		CreatedAt: now,
	}
}

// Trimmed returns nil for nil or blank input.
func Trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
