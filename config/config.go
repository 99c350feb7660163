package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port           string
	Timezone       string
	DBPath         string
	StageCSV       string // growth-stage thresholds, optional
	VarietyXLSX    string // variety catalog workbook, optional
	PriceURL       string // sugar price bulletin, optional
	MetricsPollSec int
}

func Load() AppConfig {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("[cfg] No .env file found or error loading: %v", err)
	}

	get := func(k, def string) string {
		if v := os.Getenv(k); v != "" {
			return v
		}
		return def
	}
	poll, err := strconv.Atoi(get("METRICS_POLL_SEC", "5"))
	if err != nil || poll <= 0 {
		poll = 5
	}
	cfg := AppConfig{
		Port:           get("PORT", "8080"),
		Timezone:       get("TZ", "Indian/Mauritius"),
		DBPath:         get("DB_PATH", "canecycle.db"),
		StageCSV:       get("STAGE_CSV", "./StageConfig.csv"),
		VarietyXLSX:    get("VARIETY_XLSX", "./VarietyCatalog.xlsx"),
		PriceURL:       get("PRICE_URL", ""),
		MetricsPollSec: poll,
	}
	log.Printf("[cfg] %+v", cfg)
	return cfg
}
