package main

import (
	"context"
	"log"
	"time"

	"go-store-pos/internal/config"
	"go-store-pos/internal/repository"
	"go-store-pos/internal/service"
	"go-store-pos/internal/sheets"
	"go-store-pos/pkg/database"

	"github.com/joho/godotenv"
)

// One-shot spreadsheet sync, for cron outside the API process or manual runs.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
	cfg := config.Load()

	if !cfg.SheetsConfigured() {
		log.Fatal("Google Sheets credentials are not configured")
	}

	db := database.ConnectDB()

	pusher := sheets.New(sheets.Config{
		ServiceAccountEmail: cfg.GoogleServiceAccountEmail,
		PrivateKeyPEM:       cfg.GoogleServiceAccountKey,
		SpreadsheetID:       cfg.GoogleSpreadsheetID,
	})

	export := service.NewExportService(
		repository.NewProductRepo(db),
		repository.NewTransactionRepo(db),
		repository.NewExpenseRepo(db),
		pusher,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	stats, err := export.SyncToSheets(ctx)
	if err != nil {
		log.Fatalf("Sheets sync failed: %v", err)
	}

	log.Printf("Sheets sync done: %d products, %d transactions, %d expenses",
		stats.Products, stats.Transactions, stats.Expenses)
}
