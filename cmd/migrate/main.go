package main

import (
	"log"

	"sigma-lms-be/internal/config"
	"sigma-lms-be/internal/model"
	"sigma-lms-be/pkg/database"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.Database.Driver, cfg.Database.Connection, database.Options{Verbose: true})
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Running AutoMigrate for import_jobs...")
	if err := db.AutoMigrate(&model.ImportJob{}); err != nil {
		log.Fatal("Error: AutoMigrate failed:", err)
	}
	log.Println("Migration completed")
}
