package main

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"

	"boattours/internal/app"
	"boattours/internal/config"
	"boattours/internal/database"
	"boattours/internal/domain/admin"
	"boattours/internal/domain/booking"
	"boattours/internal/domain/payment"
	"boattours/internal/domain/reservation"
	"boattours/internal/domain/resource"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config failed:", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := app.Migrate(db); err != nil {
		log.Fatal("migrate failed:", err)
	}

	// Cleanup old data (children first)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM payments")
	db.Exec("DELETE FROM reservations")
	db.Exec("DELETE FROM resources")
	db.Exec("DELETE FROM admins")

	// ================== ADMINS ==================
	log.Println("Creating admins...")
	accounts := []struct {
		name, email, password string
		role                  admin.Role
	}{
		{"Harbour Master", "super@boattours.local", "super123", admin.RoleSuperAdmin},
		{"Front Desk", "desk@boattours.local", "desk123", admin.RoleAdmin},
	}
	for _, acc := range accounts {
		hash, _ := bcrypt.GenerateFromPassword([]byte(acc.password), bcrypt.DefaultCost)
		db.Create(&admin.Admin{
			Name:         acc.name,
			Email:        acc.email,
			PasswordHash: string(hash),
			Role:         acc.role,
			IsActive:     true,
		})
	}

	today := booking.DateOf(time.Now())

	// ================== TOURS ==================
	log.Println("Creating tours...")
	tourSpecs := []struct {
		name, description string
		hours, capacity   int
		price             string
		fromDays, toDays  int
	}{
		{"Sunset Cruise", "Two hours along the coast while the sun goes down.", 2, 20, "49.90", -30, 90},
		{"Dolphin Watch", "Morning trip to the outer bay where dolphins feed.", 3, 12, "69.00", 0, 120},
		{"Island Hopper", "Full day visiting three islands with lunch on board.", 8, 30, "129.00", 14, 180},
		{"Winter Lights", "Evening harbour tour. Season is over.", 1, 40, "25.00", -120, -10},
	}
	tours := make([]resource.Resource, 0, len(tourSpecs))
	for _, s := range tourSpecs {
		from := datatypes.Date(today.AddDate(0, 0, s.fromDays))
		to := datatypes.Date(today.AddDate(0, 0, s.toDays))
		hours := s.hours
		tour := resource.Resource{
			Kind:          resource.KindTour,
			Name:          s.name,
			Description:   s.description,
			Capacity:      s.capacity,
			Price:         decimal.RequireFromString(s.price),
			DurationHours: &hours,
			AvailableFrom: &from,
			AvailableTo:   &to,
			IsAvailable:   true,
		}
		db.Create(&tour)
		tours = append(tours, tour)
	}

	// ================== EQUIPMENT ==================
	log.Println("Creating equipment...")
	equipment := []resource.Resource{
		{Kind: resource.KindKayak, Name: "Single Sea Kayak", Capacity: 1, Price: decimal.RequireFromString("12.00"), IsAvailable: true},
		{Kind: resource.KindKayak, Name: "Tandem Kayak", Capacity: 2, Price: decimal.RequireFromString("18.00"), IsAvailable: true},
		{Kind: resource.KindCanoe, Name: "Family Canoe", Capacity: 4, Price: decimal.RequireFromString("25.00"), IsAvailable: true},
		{Kind: resource.KindCanoe, Name: "Old Wooden Canoe", Capacity: 3, Price: decimal.RequireFromString("15.00"), IsAvailable: false},
	}
	for i := range equipment {
		db.Create(&equipment[i])
	}

	// ================== RESERVATIONS ==================
	log.Println("Creating reservations...")
	customers := []struct{ name, email, phone string }{
		{"Ann Lee", "ann@example.com", "+1 555 0100"},
		{"Bo Jensen", "bo@example.com", "+45 20 12 34 56"},
		{"Carla Diaz", "carla@example.com", "+34 612 345 678"},
		{"Dev Patel", "dev@example.com", "+44 20 7946 0000"},
	}
	statuses := []booking.Status{booking.StatusPending, booking.StatusConfirmed, booking.StatusCancelled}

	var reservations []reservation.Reservation
	for i := 0; i < 8; i++ {
		tour := tours[i%3]
		c := customers[rand.Intn(len(customers))]
		date := datatypes.Date(today.AddDate(0, 0, 1+rand.Intn(30)))
		if tour.AvailableFrom != nil && time.Time(date).Before(time.Time(*tour.AvailableFrom)) {
			date = *tour.AvailableFrom
		}
		r := reservation.Reservation{
			ResourceID:      tour.ID,
			CustomerName:    c.name,
			CustomerEmail:   c.email,
			CustomerPhone:   c.phone,
			PartySize:       1 + rand.Intn(4),
			ReservationDate: &date,
			Status:          statuses[rand.Intn(len(statuses))],
			Notes:           fmt.Sprintf("Seed tour booking %d", i+1),
		}
		db.Omit(clause.Associations).Create(&r)
		reservations = append(reservations, r)
	}

	for i := 0; i < 6; i++ {
		item := equipment[i%3]
		c := customers[rand.Intn(len(customers))]
		start := today.AddDate(0, 0, 1+rand.Intn(14)).Add(time.Duration(8+rand.Intn(8)) * time.Hour)
		end := start.Add(time.Duration(60+rand.Intn(180)) * time.Minute)

		p, err := booking.ComputePricing(start, end, item.Price)
		if err != nil {
			log.Fatal("pricing failed:", err)
		}
		hours := p.DurationHours
		r := reservation.Reservation{
			ResourceID:    item.ID,
			CustomerName:  c.name,
			CustomerEmail: c.email,
			CustomerPhone: c.phone,
			PartySize:     1,
			StartAt:       &start,
			EndAt:         &end,
			DurationHours: &hours,
			TotalAmount:   decimal.NewNullDecimal(p.Total),
			Status:        statuses[rand.Intn(2)],
			Notes:         fmt.Sprintf("Seed rental %d", i+1),
		}
		db.Omit(clause.Associations).Create(&r)
		reservations = append(reservations, r)
	}

	// ================== HISTORY (for stats) ==================
	log.Println("Creating completed history...")
	past := tours[0]
	for i := 1; i <= 3; i++ {
		date := datatypes.Date(today.AddDate(0, 0, -7*i))
		c := customers[i%len(customers)]
		r := reservation.Reservation{
			ResourceID:      past.ID,
			CustomerName:    c.name,
			CustomerEmail:   c.email,
			CustomerPhone:   c.phone,
			PartySize:       2,
			ReservationDate: &date,
			Status:          booking.StatusCompleted,
			Notes:           "Seed history",
		}
		db.Omit(clause.Associations).Create(&r)
		reservations = append(reservations, r)
	}

	// ================== PAYMENTS ==================
	log.Println("Creating payments...")
	methods := payment.Methods
	paid := 0
	for _, r := range reservations {
		if r.Status != booking.StatusConfirmed && r.Status != booking.StatusCompleted {
			continue
		}
		amount := past.Price.Mul(decimal.NewFromInt(int64(r.PartySize)))
		if r.TotalAmount.Valid {
			amount = r.TotalAmount.Decimal
		}
		now := time.Now()
		db.Omit(clause.Associations).Create(&payment.Payment{
			ReservationID: r.ID,
			Amount:        amount.Round(2),
			PaymentMethod: methods[rand.Intn(len(methods))],
			Status:        payment.StatusCompleted,
			PaidAt:        &now,
			Notes:         "Seed payment",
		})
		paid++
	}

	log.Printf("Seed completed: tours=%d equipment=%d reservations=%d payments=%d",
		len(tours), len(equipment), len(reservations), paid)
	log.Println("Admin accounts:")
	log.Println("Super admin: super@boattours.local / super123")
	log.Println("Admin: desk@boattours.local / desk123")
}
