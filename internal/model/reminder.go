package model

import (
	"strings"
	"time"
)

type ReminderTarget string

const (
	TargetReservation ReminderTarget = "reservation"
	TargetOperation   ReminderTarget = "operation"
)

func (t ReminderTarget) Valid() bool {
	return t == TargetReservation || t == TargetOperation
}

// Reminder is advisory and never affects stock.
type Reminder struct {
	ID         int64           `json:"id"`
	OwnerID    int64           `json:"-"`
	Title      string          `json:"title"`
	Message    *string         `json:"message"`
	DueAt      time.Time       `json:"dueAt"`
	Done       bool            `json:"done"`
	TargetType *ReminderTarget `json:"targetType"`
	TargetID   *int64          `json:"targetId"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type CreateReminderParams struct {
	Title      string          `json:"title" validate:"required"`
	Message    *string         `json:"message"`
	DueAt      time.Time       `json:"dueAt" validate:"required"`
	TargetType *ReminderTarget `json:"targetType" validate:"omitempty,oneof=reservation operation"`
	TargetID   *int64          `json:"targetId"`
}

type UpdateReminderParams struct {
	ID      int64            `json:"id"`
	Title   *string          `json:"title,omitempty"`
	Message Nullable[string] `json:"message,omitzero"`
	DueAt   *time.Time       `json:"dueAt,omitempty"`
	Done    *bool            `json:"done,omitempty"`
}

// ApplyTo writes the set fields of the update onto r.
func (u UpdateReminderParams) ApplyTo(r *Reminder) {
	if u.Title != nil {
		r.Title = strings.TrimSpace(*u.Title)
	}
	r.Message = u.Message.Apply(r.Message)
	if u.DueAt != nil {
		r.DueAt = *u.DueAt
	}
	if u.Done != nil {
		r.Done = *u.Done
	}
}
