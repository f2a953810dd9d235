package admin

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"boattours/internal/database"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, a *Admin) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Admin, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*Admin, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *Repository) first(ctx context.Context, query string, arg interface{}) (*Admin, error) {
	var a Admin
	if err := r.db.WithContext(ctx).Where(query, arg).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *Repository) List(ctx context.Context) ([]Admin, error) {
	var admins []Admin
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&admins).Error
	return admins, err
}

func (r *Repository) Save(ctx context.Context, a *Admin) error {
	if err := r.db.WithContext(ctx).Save(a).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&Admin{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Admin{}).Count(&n).Error
	return n, err
}

func (r *Repository) TouchLogin(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&Admin{}).Where("id = ?", id).Update("last_login_at", at).Error
}
