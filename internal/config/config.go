package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath    string
	OutputDir string

	// UploadDedupWindowSec is the TTL of the recent-upload window: the same
	// file content re-uploaded within it is skipped, not re-parsed.
	UploadDedupWindowSec int
	// IngestParallelism caps concurrent document parses in a batch.
	IngestParallelism int

	HeaderScanWindow int
	MinHeaderScore   int
	MaxHeaderCell    int
	DecimalSep       string
	ThousandsSep     string
	FooterPhrases    []string
	GateAllKeywords  []string
	GateAnyKeywords  []string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		UploadDedupWindowSec: getEnvInt("UPLOAD_DEDUP_WINDOW_SEC", 60),
		IngestParallelism:    getEnvInt("INGEST_PARALLELISM", 4),

		HeaderScanWindow: getEnvInt("HEADER_SCAN_WINDOW", 15),
		MinHeaderScore:   getEnvInt("MIN_HEADER_SCORE", 2),
		MaxHeaderCell:    getEnvInt("MAX_HEADER_CELL", 60),
		DecimalSep:       getEnv("PRICE_DECIMAL_SEP", "."),
		ThousandsSep:     getEnv("PRICE_THOUSANDS_SEP", ","),
		FooterPhrases:    getEnvList("FOOTER_PHRASES", []string{"official distributor", "price list"}),
		GateAllKeywords:  getEnvList("HEADER_GATE_ALL", []string{"TYPE"}),
		GateAnyKeywords:  getEnvList("HEADER_GATE_ANY", []string{"RP", "MRP"}),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := getEnv(key, "")
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
