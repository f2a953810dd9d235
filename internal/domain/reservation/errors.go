package reservation

import (
	"fmt"

	"boattours/internal/domain/booking"
)

var (
	ErrNotFound      = fmt.Errorf("reservation %w", booking.ErrNotFound)
	ErrHasPayments   = fmt.Errorf("%w: reservation has payments", booking.ErrConflict)
	ErrStatusChanged = fmt.Errorf("%w: status changed concurrently", booking.ErrInvalidStatusTransition)
	ErrTourNotFound  = fmt.Errorf("tour %w", booking.ErrNotFound)
)
