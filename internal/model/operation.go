package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OperationType string

const (
	OperationPurchase        OperationType = "purchase"
	OperationSale            OperationType = "sale"
	OperationReserve         OperationType = "reserve"
	OperationReserveRelease  OperationType = "reserve_release"
	OperationSaleFromReserve OperationType = "sale_from_reserve"
	OperationShipOnCredit    OperationType = "ship_on_credit"
	OperationCloseDebt       OperationType = "close_debt"
	OperationReturn          OperationType = "return"
)

var OperationTypes = []OperationType{
	OperationPurchase,
	OperationSale,
	OperationReserve,
	OperationReserveRelease,
	OperationSaleFromReserve,
	OperationShipOnCredit,
	OperationCloseDebt,
	OperationReturn,
}

func (t OperationType) Valid() bool {
	switch t {
	case OperationPurchase, OperationSale, OperationReserve, OperationReserveRelease,
		OperationSaleFromReserve, OperationShipOnCredit, OperationCloseDebt, OperationReturn:
		return true
	default:
		return false
	}
}

// RequiresCustomer reports whether the operation is tracked against a customer's debt.
func (t OperationType) RequiresCustomer() bool {
	return t == OperationShipOnCredit || t == OperationCloseDebt
}

// PaidByDefault is the paid flag used when the request does not carry one.
func (t OperationType) PaidByDefault() bool {
	switch t {
	case OperationSale, OperationSaleFromReserve, OperationCloseDebt:
		return true
	default:
		return false
	}
}

// Operation is one immutable ledger entry.
type Operation struct {
	ID            int64           `json:"id"`
	OwnerID       int64           `json:"-"`
	ProductID     int64           `json:"productId"`
	Type          OperationType   `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	Customer      *string         `json:"customer"`
	Contact       *string         `json:"contact"`
	PermitNumber  *string         `json:"permitNumber"`
	Paid          bool            `json:"paid"`
	ReservationID *int64          `json:"reservationId"`
	BundleID      *int64          `json:"bundleId"`
	DueAt         *time.Time      `json:"dueAt"`
	Comment       *string         `json:"comment"`
	OccurredAt    time.Time       `json:"occurredAt"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type OperationView struct {
	Operation
	Product     ProductRef       `json:"product"`
	Reservation *ReservationView `json:"reservation"`
	Bundle      *Bundle          `json:"bundle"`
}

type CreateOperationParams struct {
	ProductID     int64           `json:"productId" validate:"required"`
	Type          OperationType   `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	Customer      *string         `json:"customer"`
	Contact       *string         `json:"contact"`
	PermitNumber  *string         `json:"permitNumber"`
	Paid          *bool           `json:"paid"`
	ReservationID *int64          `json:"reservationId"`
	BundleID      *int64          `json:"bundleId"`
	BundleTitle   *string         `json:"bundleTitle"`
	DueAt         *time.Time      `json:"dueAt"`
	Comment       *string         `json:"comment"`
	OccurredAt    *time.Time      `json:"occurredAt"`
}

type Bundle struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"-"`
	Title     *string   `json:"title"`
	Customer  *string   `json:"customer"`
	Note      *string   `json:"note"`
	CreatedAt time.Time `json:"createdAt"`
}

// OperationEvent is published after an operation is committed or removed.
type OperationEvent struct {
	EventID     string
	Kind        string
	OwnerID     int64
	OperationID int64
	ProductID   int64
	Type        OperationType
	Quantity    decimal.Decimal
	Customer    *string
	OccurredAt  time.Time
}

const (
	EventOperationCreated = "operation.created"
	EventOperationDeleted = "operation.deleted"
)

// Kafka record headers set on every ledger event.
const (
	HeaderEventID   = "event-id"
	HeaderEventKind = "event-kind"
)
