package payment

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"boattours/internal/database"
	"boattours/internal/domain/booking"
)

const activePaymentIndex = "idx_payments_active_reservation"

// EnsureIndexes creates the partial unique index AutoMigrate cannot express.
func EnsureIndexes(db *gorm.DB) error {
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS ` + activePaymentIndex +
		` ON payments (reservation_id) WHERE status IN ('pending', 'completed')`).Error
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts p. For an active payment it first checks, inside the same
// transaction, that the reservation has no other active one; the partial
// unique index backs the check against concurrent inserts.
func (r *Repository) Create(ctx context.Context, p *Payment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if p.Status.Active() {
			var existing int64
			if err := tx.Model(&Payment{}).
				Where("reservation_id = ? AND status IN ?", p.ReservationID, []Status{StatusPending, StatusCompleted}).
				Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				return ErrDuplicatePayment
			}
		}
		return tx.Omit(clause.Associations).Create(p).Error
	})
	return classify(err)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Payment, error) {
	var p Payment
	if err := r.db.WithContext(ctx).Preload("Reservation").First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repository) List(ctx context.Context, f Filter) ([]Payment, error) {
	q := r.db.WithContext(ctx).Preload("Reservation")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.PaymentMethod != "" {
		q = q.Where("payment_method = ?", f.PaymentMethod)
	}
	if f.ReservationID > 0 {
		q = q.Where("reservation_id = ?", f.ReservationID)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", booking.DateOf(*f.From))
	}
	if f.To != nil {
		q = q.Where("created_at < ?", booking.DateOf(*f.To).AddDate(0, 0, 1))
	}

	var out []Payment
	err := q.Order("created_at DESC").Order("id DESC").Find(&out).Error
	return out, err
}

// Save writes p while the stored status still equals expected.
func (r *Repository) Save(ctx context.Context, p *Payment, expected Status) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(p).
		Where("status = ?", expected).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(p)
	if result.Error != nil {
		return false, classify(result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&Payment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// classify maps unique violations from either driver onto conflict errors.
func classify(err error) error {
	if err == nil || errors.Is(err, booking.ErrConflict) || !database.IsUniqueViolation(err) {
		return err
	}
	if strings.Contains(strings.ToLower(database.ViolatedConstraint(err)), "transaction_id") {
		return ErrDuplicateTransaction
	}
	return ErrDuplicatePayment
}
