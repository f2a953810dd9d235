package resource

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"boattours/internal/domain/booking"
	"boattours/internal/pkg/utils"
	"boattours/internal/pkg/validator"
)

const tourDescriptionMin = 10

type Store interface {
	Create(ctx context.Context, res *Resource) error
	GetByID(ctx context.Context, id int64) (*Resource, error)
	Save(ctx context.Context, res *Resource) error
	ListOpenTours(ctx context.Context, today time.Time) ([]Resource, error)
	ListTours(ctx context.Context) ([]Resource, error)
	ListEquipment(ctx context.Context, f EquipmentFilter) ([]Resource, error)
	DeleteCascade(ctx context.Context, id int64) (int64, error)
}

// Repricer recomputes open reservations after an hourly rate changes.
type Repricer interface {
	RepriceForResource(ctx context.Context, res *Resource) (int, error)
}

type Service struct {
	repo     Store
	repricer Repricer
	now      func() time.Time
	loggerf  func(format string, args ...interface{})
}

func NewService(repo Store, repricer Repricer) *Service {
	return &Service{
		repo:     repo,
		repricer: repricer,
		now:      time.Now,
		loggerf:  log.Printf,
	}
}

// SetRepricer wires the reservation side after both services exist.
func (s *Service) SetRepricer(r Repricer) {
	s.repricer = r
}

// TourInput carries tour fields. Nil fields are left unchanged on update and are missing on create.
type TourInput struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	DurationHours *int             `json:"duration_hours"`
	Capacity      *int             `json:"capacity"`
	Price         *decimal.Decimal `json:"price"`
	AvailableFrom *string          `json:"available_from"`
	AvailableTo   *string          `json:"available_to"`
}

// EquipmentInput carries equipment fields with the same nil semantics as TourInput.
type EquipmentInput struct {
	Type          *string          `json:"type"`
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Capacity      *int             `json:"capacity"`
	PricePerHour  *decimal.Decimal `json:"price_per_hour"`
	IsAvailable   *bool            `json:"is_available"`
	AvailableFrom *string          `json:"available_from"`
	AvailableTo   *string          `json:"available_to"`
}

func (s *Service) ListOpenTours(ctx context.Context) ([]Resource, error) {
	return s.repo.ListOpenTours(ctx, booking.DateOf(s.now()))
}

func (s *Service) ListTours(ctx context.Context) ([]Resource, error) {
	return s.repo.ListTours(ctx)
}

func (s *Service) ListEquipment(ctx context.Context, f EquipmentFilter) ([]Resource, error) {
	if f.Kind != "" && !f.Kind.IsEquipment() {
		fe := booking.FieldErrors{}
		fe.Add("type", "is not included in the list")
		return nil, fe.Err()
	}
	return s.repo.ListEquipment(ctx, f)
}

// Get loads any resource regardless of kind.
func (s *Service) Get(ctx context.Context, id int64) (*Resource, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetTour(ctx context.Context, id int64) (*Resource, error) {
	return s.getKind(ctx, id, isTour)
}

func (s *Service) GetEquipment(ctx context.Context, id int64) (*Resource, error) {
	return s.getKind(ctx, id, Kind.IsEquipment)
}

func (s *Service) CreateTour(ctx context.Context, in TourInput) (*Resource, error) {
	res := &Resource{Kind: KindTour, IsAvailable: true}
	fe := applyTour(res, in, true)
	return s.create(ctx, res, fe)
}

func (s *Service) CreateEquipment(ctx context.Context, in EquipmentInput) (*Resource, error) {
	res := &Resource{IsAvailable: true}
	fe := applyEquipment(res, in, true)
	return s.create(ctx, res, fe)
}

func (s *Service) UpdateTour(ctx context.Context, id int64, in TourInput) (*Resource, error) {
	return s.update(ctx, id, isTour, func(res *Resource) booking.FieldErrors {
		return applyTour(res, in, false)
	})
}

func (s *Service) UpdateEquipment(ctx context.Context, id int64, in EquipmentInput) (*Resource, error) {
	return s.update(ctx, id, Kind.IsEquipment, func(res *Resource) booking.FieldErrors {
		return applyEquipment(res, in, false)
	})
}

func (s *Service) DeleteTour(ctx context.Context, id int64) error {
	return s.delete(ctx, id, isTour)
}

func (s *Service) DeleteEquipment(ctx context.Context, id int64) error {
	return s.delete(ctx, id, Kind.IsEquipment)
}

func isTour(k Kind) bool { return k == KindTour }

func (s *Service) getKind(ctx context.Context, id int64, match func(Kind) bool) (*Resource, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !match(res.Kind) {
		return nil, ErrNotFound
	}
	return res, nil
}

func (s *Service) create(ctx context.Context, res *Resource, fe booking.FieldErrors) (*Resource, error) {
	fe.Merge(Validate(res))
	if err := fe.Err(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, res); err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}
	s.loggerf("level=info msg=\"resource created\" resource_id=%d kind=%s", res.ID, res.Kind)
	return res, nil
}

func (s *Service) update(ctx context.Context, id int64, match func(Kind) bool, apply func(*Resource) booking.FieldErrors) (*Resource, error) {
	res, err := s.getKind(ctx, id, match)
	if err != nil {
		return nil, err
	}
	oldPrice := res.Price

	fe := apply(res)
	fe.Merge(Validate(res))
	if err := fe.Err(); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, res); err != nil {
		return nil, fmt.Errorf("update resource: %w", err)
	}

	if res.Kind.IsEquipment() && !oldPrice.Equal(res.Price) && s.repricer != nil {
		n, err := s.repricer.RepriceForResource(ctx, res)
		if err != nil {
			return nil, fmt.Errorf("reprice reservations: %w", err)
		}
		s.loggerf("level=info msg=\"reservations repriced\" resource_id=%d count=%d", res.ID, n)
	}
	return res, nil
}

func (s *Service) delete(ctx context.Context, id int64, match func(Kind) bool) error {
	res, err := s.getKind(ctx, id, match)
	if err != nil {
		return err
	}
	removed, err := s.repo.DeleteCascade(ctx, res.ID)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) || errors.Is(err, booking.ErrConflict) {
			return err
		}
		return fmt.Errorf("delete resource: %w", err)
	}
	s.loggerf("level=info msg=\"resource deleted\" resource_id=%d kind=%s reservations_removed=%d", res.ID, res.Kind, removed)
	return nil
}

// Validate checks a resource as it is about to be stored.
func Validate(res *Resource) booking.FieldErrors {
	fe := booking.FieldErrors{}
	for field, msg := range validator.Validate(res) {
		fe.Add(field, msg)
	}

	if res.Price.IsNegative() {
		field := "price"
		if res.Kind.IsEquipment() {
			field = "price_per_hour"
		}
		fe.Add(field, "must be greater than or equal to 0")
	}

	if res.Kind == KindTour {
		n := len([]rune(strings.TrimSpace(res.Description)))
		switch {
		case n == 0:
			fe.Add("description", "is required")
		case n < tourDescriptionMin:
			fe.Add("description", fmt.Sprintf("is too short (minimum is %d characters)", tourDescriptionMin))
		}
		if res.DurationHours == nil {
			fe.Add("duration_hours", "is required")
		}
		if res.AvailableFrom == nil {
			fe.Add("available_from", "is required")
		}
		if res.AvailableTo == nil {
			fe.Add("available_to", "is required")
		}
	}

	if res.AvailableFrom != nil && res.AvailableTo != nil &&
		time.Time(*res.AvailableTo).Before(time.Time(*res.AvailableFrom)) {
		fe.Add("available_to", "must be after or equal to available from")
	}
	if (res.AvailableFrom == nil) != (res.AvailableTo == nil) && res.Kind.IsEquipment() {
		fe.Add("available_to", "must be set together with available_from")
	}
	return fe
}

func applyTour(res *Resource, in TourInput, creating bool) booking.FieldErrors {
	fe := booking.FieldErrors{}
	if in.Name != nil {
		res.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		res.Description = strings.TrimSpace(*in.Description)
	}
	if in.DurationHours != nil {
		res.DurationHours = in.DurationHours
	}
	if in.Capacity != nil {
		res.Capacity = *in.Capacity
	}
	if in.Price != nil {
		res.Price = in.Price.Round(2)
	} else if creating {
		fe.Add("price", "is required")
	}
	applyWindow(res, in.AvailableFrom, in.AvailableTo, fe)
	return fe
}

func applyEquipment(res *Resource, in EquipmentInput, creating bool) booking.FieldErrors {
	fe := booking.FieldErrors{}
	if in.Type != nil {
		res.Kind = Kind(strings.ToLower(strings.TrimSpace(*in.Type)))
		if !res.Kind.IsEquipment() {
			fe.Add("type", "is not included in the list")
		}
	} else if creating {
		fe.Add("type", "is required")
	}
	if in.Name != nil {
		res.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		res.Description = strings.TrimSpace(*in.Description)
	}
	if in.Capacity != nil {
		res.Capacity = *in.Capacity
	}
	if in.PricePerHour != nil {
		res.Price = in.PricePerHour.Round(2)
	} else if creating {
		fe.Add("price_per_hour", "is required")
	}
	if in.IsAvailable != nil {
		res.IsAvailable = *in.IsAvailable
	}
	applyWindow(res, in.AvailableFrom, in.AvailableTo, fe)
	return fe
}

// applyWindow treats an empty string as clearing the bound.
func applyWindow(res *Resource, from, to *string, fe booking.FieldErrors) {
	if from != nil {
		t, ok := utils.OptionalDate(*from)
		if !ok {
			fe.Add("available_from", "is not a valid date")
		} else {
			res.AvailableFrom = toDate(t)
		}
	}
	if to != nil {
		t, ok := utils.OptionalDate(*to)
		if !ok {
			fe.Add("available_to", "is not a valid date")
		} else {
			res.AvailableTo = toDate(t)
		}
	}
}
