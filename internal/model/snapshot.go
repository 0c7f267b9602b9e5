package model

import "github.com/shopspring/decimal"

// Snapshot is the full export of one owner's entities.
type Snapshot struct {
	Products     []ProductSummary  `json:"products"`
	Operations   []OperationView   `json:"operations"`
	Reservations []ReservationView `json:"reservations"`
	Reminders    []Reminder        `json:"reminders"`
	Bundles      []Bundle          `json:"bundles"`
}

type DebtEntry struct {
	Customer    string          `json:"customer"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Debt        decimal.Decimal `json:"debt"`
}

type Dashboard struct {
	LowStock      []ProductSummary `json:"lowStock"`
	TotalReserved decimal.Decimal  `json:"totalReserved"`
	ActiveDebts   []DebtEntry      `json:"activeDebts"`
}
