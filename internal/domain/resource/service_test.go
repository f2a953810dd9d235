package resource_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"boattours/internal/database"
	"boattours/internal/domain/booking"
	"boattours/internal/domain/payment"
	"boattours/internal/domain/reservation"
	"boattours/internal/domain/resource"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenTest(t.Name())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&resource.Resource{}, &reservation.Reservation{}, &payment.Payment{}))
	return db
}

func ptr[T any](v T) *T { return &v }

func ptrDate(t time.Time) *datatypes.Date {
	d := datatypes.Date(t)
	return &d
}

// day formats today plus offset as the service sees today.
func day(offset int) string {
	return time.Now().AddDate(0, 0, offset).Format("2006-01-02")
}

func tourInput(name string, from, to int) resource.TourInput {
	return resource.TourInput{
		Name:          ptr(name),
		Description:   ptr("Two hours along the coast at sunset"),
		DurationHours: ptr(2),
		Capacity:      ptr(10),
		Price:         ptr(decimal.RequireFromString("49.90")),
		AvailableFrom: ptr(day(from)),
		AvailableTo:   ptr(day(to)),
	}
}

func kayakInput(name string, rate string) resource.EquipmentInput {
	return resource.EquipmentInput{
		Type:         ptr("kayak"),
		Name:         ptr(name),
		Capacity:     ptr(2),
		PricePerHour: ptr(decimal.RequireFromString(rate)),
	}
}

func TestCreateTour(t *testing.T) {
	svc := resource.NewService(resource.NewRepository(setupDB(t)), nil)

	tour, err := svc.CreateTour(context.Background(), tourInput("Sunset Cruise", 1, 30))
	require.NoError(t, err)
	assert.NotZero(t, tour.ID)
	assert.Equal(t, resource.KindTour, tour.Kind)
	assert.True(t, tour.IsAvailable)
	assert.True(t, tour.Price.Equal(decimal.RequireFromString("49.90")))
}

func TestCreateTour_Validation(t *testing.T) {
	svc := resource.NewService(resource.NewRepository(setupDB(t)), nil)

	_, err := svc.CreateTour(context.Background(), resource.TourInput{
		Name:          ptr("ab"),
		Description:   ptr("short"),
		Capacity:      ptr(0),
		AvailableFrom: ptr(day(10)),
		AvailableTo:   ptr(day(5)),
	})
	require.ErrorIs(t, err, booking.ErrValidation)

	fields := booking.Fields(err)
	for _, key := range []string{"name", "description", "capacity", "price", "duration_hours", "available_to"} {
		assert.Contains(t, fields, key)
	}
}

func TestCreateEquipment_Validation(t *testing.T) {
	svc := resource.NewService(resource.NewRepository(setupDB(t)), nil)

	_, err := svc.CreateEquipment(context.Background(), resource.EquipmentInput{
		Type:         ptr("jetski"),
		Name:         ptr("Blue One"),
		Capacity:     ptr(1),
		PricePerHour: ptr(decimal.NewFromInt(-1)),
	})
	require.ErrorIs(t, err, booking.ErrValidation)
	fields := booking.Fields(err)
	assert.Contains(t, fields, "type")
	assert.Contains(t, fields, "price_per_hour")
}

func TestListOpenTours_OrderedByWindowStart(t *testing.T) {
	ctx := context.Background()
	svc := resource.NewService(resource.NewRepository(setupDB(t)), nil)

	_, err := svc.CreateTour(ctx, tourInput("Late Season", 20, 40))
	require.NoError(t, err)
	_, err = svc.CreateTour(ctx, tourInput("Early Season", 2, 10))
	require.NoError(t, err)
	_, err = svc.CreateTour(ctx, tourInput("Last Year", -30, -1))
	require.NoError(t, err)
	_, err = svc.CreateTour(ctx, tourInput("Ends Today", -5, 0))
	require.NoError(t, err)

	open, err := svc.ListOpenTours(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(open))
	for _, r := range open {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"Ends Today", "Early Season", "Late Season"}, names)

	all, err := svc.ListTours(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestListEquipment_Filters(t *testing.T) {
	ctx := context.Background()
	svc := resource.NewService(resource.NewRepository(setupDB(t)), nil)

	_, err := svc.CreateEquipment(ctx, kayakInput("Sea Kayak", "12"))
	require.NoError(t, err)
	canoe := resource.EquipmentInput{
		Type:         ptr("Canoe"),
		Name:         ptr("Family Canoe"),
		Capacity:     ptr(4),
		PricePerHour: ptr(decimal.NewFromInt(20)),
		IsAvailable:  ptr(false),
	}
	_, err = svc.CreateEquipment(ctx, canoe)
	require.NoError(t, err)
	_, err = svc.CreateTour(ctx, tourInput("Not Equipment", 1, 5))
	require.NoError(t, err)

	all, err := svc.ListEquipment(ctx, resource.EquipmentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, resource.KindCanoe, all[0].Kind)
	assert.Equal(t, resource.KindKayak, all[1].Kind)

	kayaks, err := svc.ListEquipment(ctx, resource.EquipmentFilter{Kind: resource.KindKayak})
	require.NoError(t, err)
	require.Len(t, kayaks, 1)

	available, err := svc.ListEquipment(ctx, resource.EquipmentFilter{IsAvailable: ptr(true)})
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "Sea Kayak", available[0].Name)

	_, err = svc.ListEquipment(ctx, resource.EquipmentFilter{Kind: resource.KindTour})
	assert.ErrorIs(t, err, booking.ErrValidation)
}

func TestGetTour_KindMismatchIsNotFound(t *testing.T) {
	ctx := context.Background()
	svc := resource.NewService(resource.NewRepository(setupDB(t)), nil)

	kayak, err := svc.CreateEquipment(ctx, kayakInput("Sea Kayak", "12"))
	require.NoError(t, err)

	_, err = svc.GetTour(ctx, kayak.ID)
	assert.ErrorIs(t, err, booking.ErrNotFound)
	_, err = svc.GetEquipment(ctx, kayak.ID)
	assert.NoError(t, err)
	_, err = svc.Get(ctx, 9999)
	assert.ErrorIs(t, err, resource.ErrNotFound)
}

func TestUpdateTour_ClearsAndKeepsFields(t *testing.T) {
	ctx := context.Background()
	svc := resource.NewService(resource.NewRepository(setupDB(t)), nil)

	tour, err := svc.CreateTour(ctx, tourInput("Sunset Cruise", 1, 30))
	require.NoError(t, err)

	updated, err := svc.UpdateTour(ctx, tour.ID, resource.TourInput{Capacity: ptr(25)})
	require.NoError(t, err)
	assert.Equal(t, 25, updated.Capacity)
	assert.Equal(t, "Sunset Cruise", updated.Name)

	_, err = svc.UpdateTour(ctx, tour.ID, resource.TourInput{AvailableTo: ptr("")})
	require.ErrorIs(t, err, booking.ErrValidation)
	assert.Contains(t, booking.Fields(err), "available_to")
}

func bookTour(t *testing.T, db *gorm.DB, resourceID int64, status booking.Status) *reservation.Reservation {
	t.Helper()
	d := time.Now().AddDate(0, 0, 3)
	r := &reservation.Reservation{
		ResourceID:    resourceID,
		CustomerName:  "Ann Lee",
		CustomerEmail: "ann@example.com",
		CustomerPhone: "+1 555 0100",
		PartySize:     2,
		Status:        status,
	}
	date := booking.DateOf(d)
	r.ReservationDate = ptrDate(date)
	require.NoError(t, db.Omit("Resource").Create(r).Error)
	return r
}

func TestDeleteTour_RemovesReservations(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	svc := resource.NewService(resource.NewRepository(db), nil)

	tour, err := svc.CreateTour(ctx, tourInput("Sunset Cruise", 1, 30))
	require.NoError(t, err)
	other, err := svc.CreateTour(ctx, tourInput("Harbour Lights", 1, 30))
	require.NoError(t, err)

	bookTour(t, db, tour.ID, booking.StatusPending)
	bookTour(t, db, tour.ID, booking.StatusConfirmed)
	bookTour(t, db, other.ID, booking.StatusPending)

	require.NoError(t, svc.DeleteTour(ctx, tour.ID))

	var left int64
	require.NoError(t, db.Model(&reservation.Reservation{}).Where("resource_id = ?", tour.ID).Count(&left).Error)
	assert.Zero(t, left)
	require.NoError(t, db.Model(&reservation.Reservation{}).Where("resource_id = ?", other.ID).Count(&left).Error)
	assert.EqualValues(t, 1, left)

	_, err = svc.GetTour(ctx, tour.ID)
	assert.ErrorIs(t, err, booking.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteTour(ctx, tour.ID), booking.ErrNotFound)
}

func TestDeleteTour_RefusedWhilePaymentsExist(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	svc := resource.NewService(resource.NewRepository(db), nil)

	tour, err := svc.CreateTour(ctx, tourInput("Sunset Cruise", 1, 30))
	require.NoError(t, err)
	r := bookTour(t, db, tour.ID, booking.StatusConfirmed)
	require.NoError(t, db.Omit("Reservation").Create(&payment.Payment{
		ReservationID: r.ID,
		Amount:        decimal.NewFromInt(50),
		PaymentMethod: payment.MethodCard,
		Status:        payment.StatusCompleted,
	}).Error)

	err = svc.DeleteTour(ctx, tour.ID)
	assert.ErrorIs(t, err, resource.ErrHasPayments)
	assert.ErrorIs(t, err, booking.ErrConflict)

	var left int64
	require.NoError(t, db.Model(&reservation.Reservation{}).Count(&left).Error)
	assert.EqualValues(t, 1, left)
}

func TestUpdateEquipment_RepricesOpenReservations(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	resources := resource.NewService(resource.NewRepository(db), nil)
	reservations := reservation.NewService(reservation.NewRepository(db), resources, nil, nil)
	resources.SetRepricer(reservations)

	kayak, err := resources.CreateEquipment(ctx, kayakInput("Sea Kayak", "10"))
	require.NoError(t, err)

	start := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour)
	r, err := reservations.Create(ctx, reservation.CreateRequest{
		ResourceID:    &kayak.ID,
		CustomerName:  "Ann Lee",
		CustomerEmail: "ann@example.com",
		CustomerPhone: "+1 555 0100",
		PartySize:     ptr(1),
		StartAt:       start.Format(time.RFC3339),
		EndAt:         start.Add(61 * time.Minute).Format(time.RFC3339),
	}, 0)
	require.NoError(t, err)
	require.True(t, r.TotalAmount.Decimal.Equal(decimal.NewFromInt(20)))

	_, err = resources.UpdateEquipment(ctx, kayak.ID, resource.EquipmentInput{PricePerHour: ptr(decimal.NewFromInt(15))})
	require.NoError(t, err)

	got, err := reservations.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalAmount.Decimal.Equal(decimal.NewFromInt(30)), got.TotalAmount.Decimal.String())
	require.NotNil(t, got.DurationHours)
	assert.Equal(t, 2, *got.DurationHours)
}
