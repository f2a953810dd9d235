package resource

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"boattours/internal/domain/booking"
)

type Kind string

const (
	KindTour  Kind = "tour"
	KindKayak Kind = "kayak"
	KindCanoe Kind = "canoe"
)

// EquipmentKinds are rented by the hour.
var EquipmentKinds = []Kind{KindKayak, KindCanoe}

func (k Kind) Valid() bool {
	return k == KindTour || k.IsEquipment()
}

func (k Kind) IsEquipment() bool {
	return k == KindKayak || k == KindCanoe
}

// Resource is anything a reservation can be made against: a scheduled tour or a piece of equipment.
// Price is the per-booking price for tours and the hourly rate for equipment.
type Resource struct {
	ID            int64           `gorm:"primaryKey" json:"id"`
	Kind          Kind            `gorm:"type:varchar(20);not null;index" json:"kind"`
	Name          string          `gorm:"size:100;not null" json:"name" validate:"required,min=3,max=100"`
	Description   string          `gorm:"type:text" json:"description" validate:"max=1000"`
	Capacity      int             `gorm:"not null" json:"capacity" validate:"gt=0"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	DurationHours *int            `json:"duration_hours,omitempty" validate:"omitempty,gt=0"`
	AvailableFrom *datatypes.Date `gorm:"index" json:"available_from,omitempty"`
	AvailableTo   *datatypes.Date `gorm:"index" json:"available_to,omitempty"`
	IsAvailable   bool            `gorm:"not null" json:"is_available"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (Resource) TableName() string { return "resources" }

// OpenAsOf is true while the tour can still be booked on or after today.
func (r *Resource) OpenAsOf(today time.Time) bool {
	if r.AvailableTo == nil {
		return true
	}
	return !booking.DateOf(time.Time(*r.AvailableTo)).Before(booking.DateOf(today))
}

// Rules projects the resource onto what reservation validation and pricing need.
func (r *Resource) Rules() *booking.Resource {
	return &booking.Resource{
		Capacity:      r.Capacity,
		AvailableFrom: dateTime(r.AvailableFrom),
		AvailableTo:   dateTime(r.AvailableTo),
		IsAvailable:   r.IsAvailable,
		Hourly:        r.Kind.IsEquipment(),
		HourlyRate:    r.Price,
	}
}

func dateTime(d *datatypes.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := time.Time(*d)
	return &t
}

func toDate(t *time.Time) *datatypes.Date {
	if t == nil {
		return nil
	}
	d := datatypes.Date(booking.DateOf(*t))
	return &d
}
