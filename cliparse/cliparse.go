package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            int
	DatabaseURL     string
	DatabaseType    string
	JWTSecret       string
	FingerprintSalt string
	GeoURL          string
	GeoTimeout      time.Duration
	PollCacheTTL    time.Duration
	VoteCacheTTL    time.Duration
	LocalesDir      string
	EnvFile         string
}

const (
	DefaultGeoURL     = "http://www.geoplugin.net/json.gp"
	DefaultSQLiteFile = "pollbooth.db"
)

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("pollbooth", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.EnvFile, "env-file", ".env", "Path to a .env file loaded before reading the environment")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "", "JWT signing secret (prefer env)")
	fs.StringVar(&cfg.FingerprintSalt, "fingerprint-salt", "", "Voter fingerprint salt (prefer env)")

	fs.StringVar(&cfg.GeoURL, "geo-url", "", "Geolocation lookup endpoint")
	fs.DurationVar(&cfg.GeoTimeout, "geo-timeout", 0, "Geolocation lookup timeout")
	fs.DurationVar(&cfg.PollCacheTTL, "poll-cache-ttl", 0, "TTL for cached polls")
	fs.DurationVar(&cfg.VoteCacheTTL, "vote-cache-ttl", 0, "TTL for cached results and vote listings")
	fs.StringVar(&cfg.LocalesDir, "locales", "", "Directory with translation files")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Values already in the environment win over the .env file
	if err := godotenv.Load(cfg.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", cfg.EnvFile, err)
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported DATABASE_TYPE %q", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType != "sqlite" {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = DefaultSQLiteFile
	}

	// Secrets - MUST be provided
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = os.Getenv("JWT_SECRET")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET required")
	}

	if cfg.FingerprintSalt == "" {
		cfg.FingerprintSalt = os.Getenv("FINGERPRINT_SALT")
	}
	if cfg.FingerprintSalt == "" {
		return Config{}, errors.New("FINGERPRINT_SALT required")
	}

	if cfg.GeoURL == "" {
		cfg.GeoURL = os.Getenv("GEO_LOOKUP_URL")
		if cfg.GeoURL == "" {
			cfg.GeoURL = DefaultGeoURL
		}
	}

	var err error
	if cfg.GeoTimeout, err = durationEnv(cfg.GeoTimeout, "GEO_TIMEOUT", 3*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.PollCacheTTL, err = durationEnv(cfg.PollCacheTTL, "POLL_CACHE_TTL", 15*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.VoteCacheTTL, err = durationEnv(cfg.VoteCacheTTL, "VOTE_CACHE_TTL", 30*time.Minute); err != nil {
		return Config{}, err
	}

	if cfg.LocalesDir == "" {
		cfg.LocalesDir = os.Getenv("LOCALES_DIR")
	}

	return cfg, nil
}

func durationEnv(current time.Duration, key string, fallback time.Duration) (time.Duration, error) {
	if current > 0 {
		return current, nil
	}
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return d, nil
}
