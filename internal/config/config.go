package config // package config loads application configuration from environment variables

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable; every value has a sensible development default so
// the engine runs with an empty environment and the in-memory store.
type Config struct {
	Env         string // application environment (e.g. "dev", "prod")
	Port        string // HTTP port to listen on
	StoreDriver string // backing store: "memory", "redis" or "mysql"

	DBUser string // MySQL username (mysql driver only)
	DBPass string // MySQL password (optional)
	DBHost string // MySQL host address
	DBPort string // MySQL port number
	DBName string // MySQL database name

	SeparationMinutes int           // minimum separation between bookings of one table
	ReconcileInterval time.Duration // periodic resynchronization interval
	CatalogPath       string        // optional YAML catalog file; empty uses the built-in layout
	QueueEnabled      bool          // publish/consume reservation events over RabbitMQ
}

// Load reads configuration from the environment, first merging a .env file
// when one exists alongside the binary.
func Load() Config {
	_ = godotenv.Load() // missing .env is fine
	return Config{
		Env:               getenv("APP_ENV", "dev"),
		Port:              getenv("APP_PORT", "8080"),
		StoreDriver:       getenv("STORE_DRIVER", "memory"),
		DBUser:            getenv("DB_USER", "reserva"),
		DBPass:            os.Getenv("DB_PASS"),
		DBHost:            getenv("DB_HOST", "localhost"),
		DBPort:            getenv("DB_PORT", "3306"),
		DBName:            getenv("DB_NAME", "reserva"),
		SeparationMinutes: atoi(getenv("SEPARATION_MINUTES", "120")),
		ReconcileInterval: parseDur(getenv("RECONCILE_INTERVAL", "30s")),
		CatalogPath:       os.Getenv("CATALOG_PATH"),
		QueueEnabled:      getenv("QUEUE_ENABLED", "false") == "true",
	}
}

// getenv returns the environment value or a default when unset/empty.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}

func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 30 * time.Second
	}
	return d
}
