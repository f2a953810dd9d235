package payment

import (
	"fmt"

	"boattours/internal/domain/booking"
)

var (
	ErrNotFound             = fmt.Errorf("payment %w", booking.ErrNotFound)
	ErrDuplicatePayment     = fmt.Errorf("%w: reservation already has a pending or completed payment", booking.ErrConflict)
	ErrDuplicateTransaction = fmt.Errorf("%w: transaction_id already recorded", booking.ErrConflict)
	ErrInvalidTransition    = fmt.Errorf("%w: invalid payment status transition", booking.ErrConflict)
	ErrSettled              = fmt.Errorf("%w: amount and method of a settled payment cannot change", booking.ErrConflict)
	ErrStatusChanged        = fmt.Errorf("%w: payment status changed concurrently", booking.ErrConflict)
)
