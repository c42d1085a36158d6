package inventory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rogerio-castellano/stocktrack/internal/repo"
)

// Error categories. Every specific error below wraps exactly one of them.
var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = repo.ErrNotFound
)

var (
	ErrInvalidQuantity  = fmt.Errorf("%w: quantity must be greater than zero", ErrValidation)
	ErrNegativeStock    = fmt.Errorf("%w: stock cannot be negative", ErrValidation)
	ErrInvalidReference = fmt.Errorf("%w: category or supplier is missing or inactive", ErrValidation)
	ErrNothingToCancel  = fmt.Errorf("%w: movement has no stock effect to reverse", ErrValidation)
	ErrCompensating     = fmt.Errorf("%w: compensating movements cannot be cancelled", ErrValidation)

	ErrInsufficientStock = fmt.Errorf("%w: insufficient stock", ErrConflict)
	ErrDuplicateCode     = fmt.Errorf("%w: product code already exists", ErrConflict)
	ErrDuplicateName     = fmt.Errorf("%w: name already exists", ErrConflict)
	ErrAlreadyResolved   = fmt.Errorf("%w: alert already resolved", ErrConflict)
	ErrNotResolved       = fmt.Errorf("%w: alert is not resolved", ErrConflict)
	ErrAlertExists       = fmt.Errorf("%w: an unresolved alert of this kind already exists", ErrConflict)
	ErrAlreadyCancelled  = fmt.Errorf("%w: movement already cancelled", ErrConflict)
	ErrTooOld            = fmt.Errorf("%w: movement is older than the cancellation window", ErrConflict)

	ErrAdminRequired = fmt.Errorf("%w: administrator role required", ErrForbidden)
)

// InsufficientStockError carries the stock available when an outbound movement was rejected.
type InsufficientStockError struct {
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: available %d, requested %d", e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

type FieldError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

// ValidationErrors lists every invalid field of a request.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = f.Field + ": " + f.Description
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v ValidationErrors) Unwrap() error {
	return ErrValidation
}

func (v ValidationErrors) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}
