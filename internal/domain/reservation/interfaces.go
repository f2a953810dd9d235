package reservation

import (
	"context"
	"time"

	"boattours/internal/domain/booking"
	"boattours/internal/domain/resource"
)

// Store persists reservations.
type Store interface {
	Create(ctx context.Context, r *Reservation) error
	GetByID(ctx context.Context, id int64) (*Reservation, error)
	List(ctx context.Context, f Filter) ([]Reservation, error)
	// Save writes r only while the stored status still equals expected.
	Save(ctx context.Context, r *Reservation, expected booking.Status) (bool, error)
	UpdateStatus(ctx context.Context, id int64, from, to booking.Status) (bool, error)
	Delete(ctx context.Context, id int64) error
	ListElapsed(ctx context.Context, now time.Time) ([]Reservation, error)
	ListOpenForResource(ctx context.Context, resourceID int64) ([]Reservation, error)
}

// ResourceLookup resolves the resource a reservation points at.
type ResourceLookup interface {
	Get(ctx context.Context, id int64) (*resource.Resource, error)
}

type StatsReader interface {
	CountByStatus(ctx context.Context) ([]StatusCount, error)
}

// Notifier is told about reservation events. Implementations must not block.
type Notifier interface {
	NotifyReservation(ctx context.Context, event string, r *Reservation)
}
