package main

import (
	"flag"
	"log"

	"dossier-be/internal/config"
	"dossier-be/pkg/database"
)

func main() {
	reset := flag.Bool("reset", false, "drop all tables before migrating")
	flag.Parse()

	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	if *reset {
		log.Println("Dropping application tables...")
		if err := database.Reset(db); err != nil {
			log.Fatalf("Error: Reset failed: %v", err)
		}
	}

	log.Println("Running migration...")
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Error: %v", err)
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
