package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"boattours/internal/app"
	"boattours/internal/config"
	"boattours/internal/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	a, err := app.New(cfg, db)
	if err != nil {
		log.Fatalf("app init failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	created, err := a.Admins.EnsureDefaultAdmin(ctx, cfg.DefaultAdminEmail, cfg.DefaultAdminPassword)
	if err != nil {
		log.Fatalf("default admin: %v", err)
	}
	if created {
		log.Printf("level=warn msg=\"default super admin created, change its password\" email=%s", cfg.DefaultAdminEmail)
	}

	go a.RunSweeper(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("level=info msg=\"listening\" addr=%s env=%s", srv.Addr, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("level=info msg=\"shutting down\"")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("level=error msg=\"shutdown failed\" err=%v", err)
	}
	a.Notifier.Wait()
}
