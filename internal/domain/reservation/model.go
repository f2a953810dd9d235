package reservation

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"boattours/internal/domain/booking"
	"boattours/internal/domain/resource"
)

// Event names published to the notifier.
const (
	EventCreated   = "reservation.created"
	EventUpdated   = "reservation.updated"
	EventConfirmed = "reservation.confirmed"
	EventCancelled = "reservation.cancelled"
	EventCompleted = "reservation.completed"
	EventDeleted   = "reservation.deleted"
)

// Reservation books a resource either for a calendar date (tours) or for a
// start/end range priced per started hour (equipment).
type Reservation struct {
	ID              int64               `gorm:"primaryKey" json:"id"`
	ResourceID      int64               `gorm:"not null;index" json:"resource_id"`
	Resource        *resource.Resource  `gorm:"constraint:OnDelete:CASCADE" json:"resource,omitempty"`
	CustomerName    string              `gorm:"size:100;not null" json:"customer_name"`
	CustomerEmail   string              `gorm:"size:255;not null;index" json:"customer_email"`
	CustomerPhone   string              `gorm:"size:50;not null" json:"customer_phone"`
	PartySize       int                 `gorm:"not null" json:"party_size"`
	ReservationDate *datatypes.Date     `gorm:"index" json:"reservation_date,omitempty"`
	StartAt         *time.Time          `gorm:"index" json:"start_at,omitempty"`
	EndAt           *time.Time          `json:"end_at,omitempty"`
	DurationHours   *int                `json:"duration_hours,omitempty"`
	TotalAmount     decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"total_amount"`
	Status          booking.Status      `gorm:"type:varchar(20);not null;index" json:"status"`
	Notes           string              `gorm:"type:text" json:"notes"`
	CreatedBy       *int64              `gorm:"index" json:"created_by,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func (Reservation) TableName() string { return "reservations" }

func (r *Reservation) date() *time.Time {
	if r.ReservationDate == nil {
		return nil
	}
	t := time.Time(*r.ReservationDate)
	return &t
}

func (r *Reservation) candidate() booking.Candidate {
	size := r.PartySize
	return booking.Candidate{
		CustomerName:    r.CustomerName,
		CustomerEmail:   r.CustomerEmail,
		CustomerPhone:   r.CustomerPhone,
		PartySize:       &size,
		ReservationDate: r.date(),
		StartAt:         r.StartAt,
		EndAt:           r.EndAt,
		Status:          r.Status,
		HasResource:     r.ResourceID > 0,
	}
}

// applyPricing fills the derived duration and total. Date reservations carry neither.
func (r *Reservation) applyPricing(res *resource.Resource) error {
	if !res.Kind.IsEquipment() {
		r.DurationHours = nil
		r.TotalAmount = decimal.NullDecimal{}
		return nil
	}
	p, err := booking.ComputePricing(*r.StartAt, *r.EndAt, res.Price)
	if err != nil {
		return err
	}
	hours := p.DurationHours
	r.DurationHours = &hours
	r.TotalAmount = decimal.NewNullDecimal(p.Total)
	return nil
}

// Filter narrows List. From and To are inclusive calendar dates.
type Filter struct {
	Status     booking.Status
	ResourceID int64
	From       *time.Time
	To         *time.Time
}

type Stats struct {
	Total        int64           `json:"total"`
	Pending      int64           `json:"pending"`
	Confirmed    int64           `json:"confirmed"`
	Cancelled    int64           `json:"cancelled"`
	Completed    int64           `json:"completed"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// StatusCount is one row of the per-status aggregate.
type StatusCount struct {
	Status  booking.Status  `db:"status"`
	Count   int64           `db:"count"`
	Revenue decimal.Decimal `db:"revenue"`
}

// Grouped is the admin overview: every status key is present even when empty.
type Grouped map[booking.Status][]Reservation

func toDate(t *time.Time) *datatypes.Date {
	if t == nil {
		return nil
	}
	d := datatypes.Date(booking.DateOf(*t))
	return &d
}
