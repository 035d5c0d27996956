package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time parses sweep interval durations
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. Strings for identifiers and secrets, ints
// for durations and costs.
type Config struct {
	Env           string        // application environment (e.g. "dev", "prod")
	Port          string        // HTTP port to listen on
	DBUser        string        // database username
	DBPass        string        // database password (optional)
	DBHost        string        // database host address
	DBPort        string        // database port number
	DBName        string        // database name
	TokenSecret   string        // secret used to sign auth tokens
	TokenTTLSecs  int           // auth token time-to-live in seconds
	BcryptCost    int           // bcrypt cost for password hashing
	UploadDir     string        // directory where listing photos are stored
	SweepInterval time.Duration // how often the auction sweeper reconciles
}

// Load reads configuration values from environment variables and
// returns a Config. Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
// TOKEN_TTL_SECONDS defaults to seven days, matching the advertised
// token duration returned from the login endpoint.
func Load() Config {
	return Config{
		Env:           must("APP_ENV"),
		Port:          must("APP_PORT"),
		DBUser:        must("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"), // empty password allowed
		DBHost:        must("DB_HOST"),
		DBPort:        must("DB_PORT"),
		DBName:        must("DB_NAME"),
		TokenSecret:   must("TOKEN_SECRET"),
		TokenTTLSecs:  intOr("TOKEN_TTL_SECONDS", 604800),
		BcryptCost:    mustInt("BCRYPT_COST"),
		UploadDir:     strOr("UPLOAD_DIR", "img"),
		SweepInterval: durOr("AUCTION_SWEEP_INTERVAL", time.Hour),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an
// integer. If conversion fails, the application logs a fatal error.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func strOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intOr(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}

func durOr(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	return def
}
