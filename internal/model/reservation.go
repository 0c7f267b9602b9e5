package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReservationStatus string

const (
	ReservationActive   ReservationStatus = "active"
	ReservationReleased ReservationStatus = "released"
	ReservationSold     ReservationStatus = "sold"
	// ReservationExpired is never stored; see EffectiveStatus.
	ReservationExpired ReservationStatus = "expired"
)

// Stored reports whether s may be persisted.
func (s ReservationStatus) Stored() bool {
	switch s {
	case ReservationActive, ReservationReleased, ReservationSold:
		return true
	default:
		return false
	}
}

type Reservation struct {
	ID        int64             `json:"id"`
	OwnerID   int64             `json:"-"`
	ProductID int64             `json:"productId"`
	Quantity  decimal.Decimal   `json:"quantity"`
	Customer  *string           `json:"customer"`
	Contact   *string           `json:"contact"`
	Status    ReservationStatus `json:"status"`
	DueAt     *time.Time        `json:"dueAt"`
	Comment   *string           `json:"comment"`
	LinkCode  string            `json:"linkCode"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// EffectiveStatus projects an active reservation whose due date has passed
// as expired. The stored status is left untouched.
func (r Reservation) EffectiveStatus(now time.Time) ReservationStatus {
	if r.Status == ReservationActive && r.DueAt != nil && r.DueAt.Before(now) {
		return ReservationExpired
	}
	return r.Status
}

type ReservationView struct {
	Reservation
	EffectiveStatus ReservationStatus `json:"effectiveStatus"`
	Product         ProductRef        `json:"product"`
}

func NewReservationView(r Reservation, product ProductRef, now time.Time) ReservationView {
	return ReservationView{
		Reservation:     r,
		EffectiveStatus: r.EffectiveStatus(now),
		Product:         product,
	}
}

// UpdateReservationParams edits a reservation directly, outside of the ledger.
type UpdateReservationParams struct {
	ID       int64               `json:"id"`
	Customer Nullable[string]    `json:"customer,omitzero"`
	Contact  Nullable[string]    `json:"contact,omitzero"`
	Status   *ReservationStatus  `json:"status,omitempty"`
	DueAt    Nullable[time.Time] `json:"dueAt,omitzero"`
	Comment  Nullable[string]    `json:"comment,omitzero"`
}

// ApplyTo writes the set fields of the update onto r.
func (u UpdateReservationParams) ApplyTo(r *Reservation) {
	r.Customer = u.Customer.Apply(r.Customer)
	r.Contact = u.Contact.Apply(r.Contact)
	r.DueAt = u.DueAt.Apply(r.DueAt)
	r.Comment = u.Comment.Apply(r.Comment)
	if u.Status != nil {
		r.Status = *u.Status
	}
}
