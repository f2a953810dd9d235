package resource

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type EquipmentFilter struct {
	Kind        Kind
	IsAvailable *bool
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, res *Resource) error {
	return r.db.WithContext(ctx).Create(res).Error
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Resource, error) {
	var res Resource
	if err := r.db.WithContext(ctx).First(&res, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}

// Save writes every column, so pointer fields cleared by the caller are nulled.
func (r *Repository) Save(ctx context.Context, res *Resource) error {
	return r.db.WithContext(ctx).Save(res).Error
}

// ListOpenTours returns tours whose window has not ended, soonest first.
func (r *Repository) ListOpenTours(ctx context.Context, today time.Time) ([]Resource, error) {
	var out []Resource
	err := r.db.WithContext(ctx).
		Where("kind = ?", KindTour).
		Where("available_to IS NULL OR available_to >= ?", today).
		Order("available_from ASC").
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (r *Repository) ListTours(ctx context.Context) ([]Resource, error) {
	var out []Resource
	err := r.db.WithContext(ctx).
		Where("kind = ?", KindTour).
		Order("available_from ASC").
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (r *Repository) ListEquipment(ctx context.Context, f EquipmentFilter) ([]Resource, error) {
	q := r.db.WithContext(ctx).Where("kind IN ?", EquipmentKinds)
	if f.Kind != "" {
		q = q.Where("kind = ?", f.Kind)
	}
	if f.IsAvailable != nil {
		q = q.Where("is_available = ?", *f.IsAvailable)
	}

	var out []Resource
	err := q.Order("kind ASC").Order("name ASC").Find(&out).Error
	return out, err
}

// DeleteCascade removes the resource together with its reservations in one transaction.
// It refuses when any of those reservations carries a payment record.
func (r *Repository) DeleteCascade(ctx context.Context, id int64) (int64, error) {
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var res Resource
		if err := tx.Select("id").First(&res, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var payments int64
		if err := tx.Table("payments").
			Joins("JOIN reservations ON reservations.id = payments.reservation_id").
			Where("reservations.resource_id = ?", id).
			Count(&payments).Error; err != nil {
			return err
		}
		if payments > 0 {
			return ErrHasPayments
		}

		del := tx.Exec("DELETE FROM reservations WHERE resource_id = ?", id)
		if del.Error != nil {
			return del.Error
		}
		removed = del.RowsAffected

		return tx.Delete(&Resource{}, id).Error
	})
	return removed, err
}
