package main

import (
	"context"
	"log"

	"boattours/internal/app"
	"boattours/internal/config"
	"boattours/internal/database"
)

// Completes confirmed reservations whose slot has passed. Meant for cron when
// the API runs with a long SWEEP_INTERVAL or several replicas.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	a, err := app.New(cfg, db)
	if err != nil {
		log.Fatalf("app init failed: %v", err)
	}

	n, err := a.Reservations.CompleteElapsed(context.Background())
	if err != nil {
		log.Fatalf("reservation sweep failed after %d: %v", n, err)
	}
	a.Notifier.Wait()

	log.Printf("reservation sweep completed: completed=%d", n)
}
