package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"boattours/internal/config"
	"boattours/internal/database"
	"boattours/internal/domain/admin"
	"boattours/internal/domain/notification"
	"boattours/internal/domain/payment"
	"boattours/internal/domain/reservation"
	"boattours/internal/domain/resource"
	"boattours/internal/middleware"
	"boattours/internal/pkg/jwt"
	"boattours/internal/pkg/response"
)

// App holds the wired services behind the HTTP router.
type App struct {
	Router       *gin.Engine
	Admins       *admin.Service
	Resources    *resource.Service
	Reservations *reservation.Service
	Payments     *payment.Service
	Notifier     *notification.Notifier

	sweepInterval time.Duration
}

// Models lists every table the API owns, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&admin.Admin{},
		&resource.Resource{},
		&reservation.Reservation{},
		&payment.Payment{},
	}
}

// Migrate brings the schema up to date, including indexes AutoMigrate cannot express.
func Migrate(db *gorm.DB) error {
	if err := database.Migrate(db, Models()...); err != nil {
		return err
	}
	if err := payment.EnsureIndexes(db); err != nil {
		return fmt.Errorf("payment indexes: %w", err)
	}
	return nil
}

func New(cfg *config.Config, db *gorm.DB) (*App, error) {
	if err := Migrate(db); err != nil {
		return nil, err
	}
	sqlxDB, err := database.SQLX(db)
	if err != nil {
		return nil, fmt.Errorf("sqlx handle: %w", err)
	}

	hub := notification.NewHub()
	var mailer notification.Sender
	if m := notification.NewMailer(cfg.SMTP); m != nil {
		mailer = m
	}
	notifier := notification.NewNotifier(hub, mailer)

	tokens := jwt.New(cfg.JWTSecret, cfg.JWTTTL)

	adminService := admin.NewService(admin.NewRepository(db), tokens)
	resourceService := resource.NewService(resource.NewRepository(db), nil)
	reservationService := reservation.NewService(
		reservation.NewRepository(db),
		resourceService,
		reservation.NewStatsRepository(sqlxDB),
		notifier,
	)
	resourceService.SetRepricer(reservationService)
	paymentService := payment.NewService(
		payment.NewRepository(db),
		payment.NewStatsRepository(sqlxDB),
		reservationService,
		notifier,
	)

	adminHandler := admin.NewHandler(adminService)
	resourceHandler := resource.NewHandler(resourceService)
	reservationHandler := reservation.NewHandler(reservationService)
	paymentHandler := payment.NewHandler(paymentService)
	wsHandler := notification.NewHandler(hub, tokens, adminService)

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins...))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", health(db))

		// public
		adminHandler.RegisterRoutes(v1)
		resourceHandler.RegisterRoutes(v1)
		reservationHandler.RegisterRoutes(v1)
		wsHandler.RegisterRoutes(v1)

		// admin
		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(tokens), middleware.RequireActiveAdmin(adminService))
		{
			adminHandler.RegisterProtectedRoutes(protected)
			resourceHandler.RegisterProtectedRoutes(protected)
			reservationHandler.RegisterProtectedRoutes(protected)
			paymentHandler.RegisterProtectedRoutes(protected)
		}
	}

	return &App{
		Router:        r,
		Admins:        adminService,
		Resources:     resourceService,
		Reservations:  reservationService,
		Payments:      paymentService,
		Notifier:      notifier,
		sweepInterval: cfg.SweepInterval,
	}, nil
}

// RunSweeper completes elapsed reservations every interval until ctx ends.
func (a *App) RunSweeper(ctx context.Context) {
	ticker := time.NewTicker(a.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := a.Reservations.CompleteElapsed(ctx); err != nil {
				log.Printf("level=error msg=\"reservation sweep failed\" err=%v", err)
			}
		}
	}
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			response.Error(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database is not reachable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok", "dialect": db.Dialector.Name()})
	}
}
