package resource

import (
	"fmt"

	"boattours/internal/domain/booking"
)

var (
	ErrNotFound    = fmt.Errorf("resource %w", booking.ErrNotFound)
	ErrHasPayments = fmt.Errorf("%w: reservations of this resource have payments", booking.ErrConflict)
)
