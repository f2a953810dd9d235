package reservation

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"boattours/internal/domain/booking"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, res *Reservation) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(res).Error
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Reservation, error) {
	var res Reservation
	if err := r.db.WithContext(ctx).Preload("Resource").First(&res, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}

// List returns matching reservations, newest first.
func (r *Repository) List(ctx context.Context, f Filter) ([]Reservation, error) {
	q := r.db.WithContext(ctx).Preload("Resource")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ResourceID > 0 {
		q = q.Where("resource_id = ?", f.ResourceID)
	}
	if f.From != nil {
		from := booking.DateOf(*f.From)
		q = q.Where("(start_at >= ? OR reservation_date >= ?)", from, from)
	}
	if f.To != nil {
		end := booking.DateOf(*f.To).AddDate(0, 0, 1)
		q = q.Where("(start_at < ? OR reservation_date < ?)", end, end)
	}

	var out []Reservation
	err := q.Order("created_at DESC").Order("id DESC").Find(&out).Error
	return out, err
}

func (r *Repository) Save(ctx context.Context, res *Reservation, expected booking.Status) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(res).
		Where("status = ?", expected).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(res)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// UpdateStatus moves id from one status to another; false means the stored status was not from.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to booking.Status) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&Reservation{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "updated_at": time.Now()})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Delete refuses while payments reference the reservation.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var payments int64
		if err := tx.Table("payments").Where("reservation_id = ?", id).Count(&payments).Error; err != nil {
			return err
		}
		if payments > 0 {
			return ErrHasPayments
		}

		result := tx.Delete(&Reservation{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ListElapsed returns confirmed reservations whose slot is over: the end instant
// has passed, or the reservation date is before today.
func (r *Repository) ListElapsed(ctx context.Context, now time.Time) ([]Reservation, error) {
	var out []Reservation
	err := r.db.WithContext(ctx).
		Where("status = ?", booking.StatusConfirmed).
		Where("(end_at IS NOT NULL AND end_at < ?) OR (reservation_date IS NOT NULL AND reservation_date < ?)",
			now.UTC(), booking.DateOf(now)).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (r *Repository) ListOpenForResource(ctx context.Context, resourceID int64) ([]Reservation, error) {
	var out []Reservation
	err := r.db.WithContext(ctx).
		Where("resource_id = ?", resourceID).
		Where("status IN ?", []booking.Status{booking.StatusPending, booking.StatusConfirmed}).
		Order("id ASC").
		Find(&out).Error
	return out, err
}
