package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by LYINGORACLE_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("LYINGORACLE_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// DatabaseURL returns the Postgres connection string. Empty disables
// rollout persistence entirely.
func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// APIKey returns the bearer key required on /v1 routes.
// Empty disables authentication.
func APIKey() string {
	return os.Getenv("API_KEY")
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// RolloutRetentionInterval returns how often old rollouts are pruned.
// Defaults to 1h if not set.
func RolloutRetentionInterval() time.Duration {
	d, err := time.ParseDuration(os.Getenv("ROLLOUT_RETENTION_INTERVAL"))
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

// RolloutRetentionDays returns how long rollouts are kept before pruning.
// Defaults to 30 days if not set.
func RolloutRetentionDays() int {
	days, err := strconv.Atoi(os.Getenv("ROLLOUT_RETENTION_DAYS"))
	if err != nil || days <= 0 {
		return 30
	}
	return days
}
