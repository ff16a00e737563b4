package config

import (
	"log"
	"os"

	"github.com/spf13/cast"
)

type Config struct {
	Port string

	// Dashboard tuning
	LowStockThreshold int
	RevenueWindowDays int

	// Google Sheets export
	SheetsSyncCron            string
	GoogleServiceAccountEmail string
	GoogleServiceAccountKey   string
	GoogleSpreadsheetID       string
}

func Load() *Config {
	cfg := &Config{
		Port:                      getEnv("PORT", "3000"),
		LowStockThreshold:         cast.ToInt(getEnv("LOW_STOCK_THRESHOLD", "10")),
		RevenueWindowDays:         cast.ToInt(getEnv("REVENUE_WINDOW_DAYS", "7")),
		SheetsSyncCron:            getEnv("SHEETS_SYNC_CRON", "@daily"),
		GoogleServiceAccountEmail: os.Getenv("GOOGLE_SERVICE_ACCOUNT_EMAIL"),
		GoogleServiceAccountKey:   os.Getenv("GOOGLE_SERVICE_ACCOUNT_PRIVATE_KEY"),
		GoogleSpreadsheetID:       os.Getenv("GOOGLE_SPREADSHEET_ID"),
	}

	if cfg.LowStockThreshold <= 0 {
		cfg.LowStockThreshold = 10
	}
	if cfg.RevenueWindowDays <= 0 {
		cfg.RevenueWindowDays = 7
	}

	if !cfg.SheetsConfigured() {
		log.Println("[WARN] Google Sheets credentials not set, spreadsheet sync disabled")
	}

	return cfg
}

// SheetsConfigured reports whether all three Google Sheets variables are present.
func (c *Config) SheetsConfigured() bool {
	return c.GoogleServiceAccountEmail != "" && c.GoogleServiceAccountKey != "" && c.GoogleSpreadsheetID != ""
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
