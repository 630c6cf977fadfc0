package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the run parameters that are not taken from the command line:
// billing rates and the optional area-code database override.
type Config struct {
	// VoiceRatePerMinute is the billed voice rate in dollars per minute.
	VoiceRatePerMinute float64
	// SMSRatePerMessage is the billed SMS rate in dollars per message.
	SMSRatePerMessage float64

	// DefaultOutputDir is used when no output directory argument is given.
	DefaultOutputDir string

	// NPASQLitePath, when set, loads the area-code table from a read-only
	// SQLite database instead of the embedded data.
	NPASQLitePath string
}

// Load reads the .env file (if present) and returns a populated Config.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		VoiceRatePerMinute: getEnvFloat("VOICE_RATE_PER_MINUTE", 0.005),
		SMSRatePerMessage:  getEnvFloat("SMS_RATE_PER_MESSAGE", 0.005),
		DefaultOutputDir:   getEnv("REPORT_OUTPUT_DIR", "./reports"),
		NPASQLitePath:      getEnv("NPA_SQLITE_PATH", ""),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}
