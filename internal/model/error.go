package model

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")       // 400
	ErrUnauthorized = errors.New("unauthorized")        // 401
	ErrForbidden    = errors.New("forbidden")           // 403
	ErrNotFound     = errors.New("not found")           // 404
	ErrConflict     = errors.New("conflict")            // 409
	ErrUnavailable  = errors.New("service unavailable") // 503
)

var (
	ErrEmptyName          = fmt.Errorf("%w: name is required", ErrInvalidInput)
	ErrInvalidMinStock    = fmt.Errorf("%w: min stock must not be negative", ErrInvalidInput)
	ErrInvalidType        = fmt.Errorf("%w: unknown operation type", ErrInvalidInput)
	ErrInvalidQuantity    = fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	ErrMissingCustomer    = fmt.Errorf("%w: customer is required", ErrInvalidInput)
	ErrMissingReservation = fmt.Errorf("%w: reservation id is required", ErrInvalidInput)
	ErrInvalidStatus      = fmt.Errorf("%w: unknown reservation status", ErrInvalidInput)
	ErrInvalidAccessory   = fmt.Errorf("%w: accessory must exist and belong to the same owner", ErrInvalidInput)
	ErrEmptyTitle         = fmt.Errorf("%w: title is required", ErrInvalidInput)
	ErrInvalidTarget      = fmt.Errorf("%w: unknown reminder target type", ErrInvalidInput)
	ErrForeignReference   = fmt.Errorf("%w: reference to an entity outside the snapshot", ErrInvalidInput)
)

var (
	ErrProductNotFound     = fmt.Errorf("product %w", ErrNotFound)
	ErrReservationNotFound = fmt.Errorf("reservation %w", ErrNotFound)
	ErrBundleNotFound      = fmt.Errorf("bundle %w", ErrNotFound)
	ErrReminderNotFound    = fmt.Errorf("reminder %w", ErrNotFound)
	ErrOperationNotFound   = fmt.Errorf("operation %w", ErrNotFound)
)

var (
	ErrNoDebt            = fmt.Errorf("%w: no debt", ErrConflict)
	ErrDebtExceeded      = fmt.Errorf("%w: quantity exceeds current debt", ErrConflict)
	ErrProductReferenced = fmt.Errorf("%w: product has operations, archive it instead", ErrConflict)
	ErrReservationClosed = fmt.Errorf("%w: reservation is not active", ErrConflict)
	ErrIDTaken           = fmt.Errorf("%w: id is used by another owner", ErrConflict)
)
