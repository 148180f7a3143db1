package config // package config loads application configuration from environment variables

import (
	"log"     // log reports configuration errors and halts execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time parses worker durations
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  Required values are enforced by must()
// at startup; the booking TTL worker settings are tolerant of missing or
// invalid values and disable the worker instead of failing the boot.
type Config struct {
	Env        string    // application environment (e.g. "dev", "prod")
	Port       string    // HTTP port to listen on
	DBUser     string    // database username
	DBPass     string    // database password (optional)
	DBHost     string    // database host address
	DBPort     string    // database port number
	DBName     string    // database name
	JWTSecret  string    // secret used to verify access tokens issued by the auth service
	BookingTTL TTLConfig // pending-booking auto-expiry worker settings
}

// TTLConfig configures the pending-booking reaper.  When Enabled is
// false the worker is not started at all.
type TTLConfig struct {
	Enabled       bool          // run the worker
	TTLMinutes    int           // pending bookings older than this are cancelled
	SweepInterval time.Duration // cadence of the scan-and-expire loop
	InitialDelay  time.Duration // pause before the first sweep after boot
}

// Load reads configuration values from environment variables and returns
// a Config.  Required variables are enforced by must() and missing
// values cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:        must("APP_ENV"),      // environment (dev/test/prod)
		Port:       must("APP_PORT"),     // port to bind the HTTP server
		DBUser:     must("DB_USER"),      // database user
		DBPass:     os.Getenv("DB_PASS"), // database password (empty allowed)
		DBHost:     must("DB_HOST"),      // database host
		DBPort:     must("DB_PORT"),      // database port
		DBName:     must("DB_NAME"),      // database name
		JWTSecret:  must("JWT_SECRET"),   // secret for verifying bearer tokens
		BookingTTL: loadTTL(),
	}
}

// loadTTL builds the reaper configuration.  A missing TTL falls back to
// 15 minutes; a non-numeric or non-positive TTL disables the worker with
// a warning rather than aborting startup, since booking expiry is a
// best-effort background concern.
func loadTTL() TTLConfig {
	cfg := TTLConfig{
		Enabled:       true,
		TTLMinutes:    15,
		SweepInterval: time.Minute,
		InitialDelay:  10 * time.Second,
	}
	if raw := os.Getenv("BOOKING_PENDING_TTL_MINUTES"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			log.Printf("[ttl] BOOKING_PENDING_TTL_MINUTES=%q is not a positive integer, worker disabled", raw)
			cfg.Enabled = false
			return cfg
		}
		cfg.TTLMinutes = n
	}
	if raw := os.Getenv("BOOKING_TTL_SWEEP_INTERVAL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.SweepInterval = d
		}
	}
	if raw := os.Getenv("BOOKING_TTL_INITIAL_DELAY"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d >= 0 {
			cfg.InitialDelay = d
		}
	}
	return cfg
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
