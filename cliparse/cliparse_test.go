// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var envKeys = []string{
	"PORT", "DATABASE_URL", "DATABASE_TYPE", "JWT_SECRET", "FINGERPRINT_SALT",
	"GEO_LOOKUP_URL", "GEO_TIMEOUT", "POLL_CACHE_TTL", "VOTE_CACHE_TTL", "LOCALES_DIR",
}

// clearEnv blanks every variable ParseFlags reads; t.Setenv restores them.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestParseFlags_EnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("FINGERPRINT_SALT", "test-salt")

	cfg, err := ParseFlags([]string{"-env-file", noEnvFile(t)})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("expected postgres, got %s", cfg.DatabaseType)
	}
	if cfg.JWTSecret != "test-secret" {
		t.Errorf("expected JWT secret from env, got %q", cfg.JWTSecret)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-jwt-secret", "s1", "-fingerprint-salt", "s2", "-env-file", noEnvFile(t)})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "file:test.db" {
		t.Errorf("expected database URL from flag, got %q", cfg.DatabaseURL)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := ParseFlags([]string{"-jwt-secret", "s1", "-fingerprint-salt", "s2", "-env-file", noEnvFile(t)})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3318 {
		t.Errorf("expected default port 3318, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected default sqlite, got %s", cfg.DatabaseType)
	}
	if cfg.DatabaseURL != DefaultSQLiteFile {
		t.Errorf("expected default sqlite file, got %s", cfg.DatabaseURL)
	}
	if cfg.GeoURL != DefaultGeoURL {
		t.Errorf("expected default geo URL, got %s", cfg.GeoURL)
	}
	if cfg.GeoTimeout != 3*time.Second {
		t.Errorf("expected 3s geo timeout, got %v", cfg.GeoTimeout)
	}
	if cfg.PollCacheTTL != 15*time.Minute || cfg.VoteCacheTTL != 30*time.Minute {
		t.Errorf("unexpected cache TTLs %v / %v", cfg.PollCacheTTL, cfg.VoteCacheTTL)
	}
}

func TestParseFlags_MissingSecrets(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no jwt secret", []string{"-fingerprint-salt", "s2"}},
		{"no fingerprint salt", []string{"-jwt-secret", "s1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			args := append(tt.args, "-env-file", noEnvFile(t))
			if _, err := ParseFlags(args); err == nil {
				t.Error("expected error for missing secret")
			}
		})
	}
}

func TestParseFlags_PostgresRequiresURL(t *testing.T) {
	clearEnv(t)

	_, err := ParseFlags([]string{"-t", "postgres", "-jwt-secret", "s1", "-fingerprint-salt", "s2", "-env-file", noEnvFile(t)})
	if err == nil {
		t.Error("expected error when postgres has no database URL")
	}
}

func TestParseFlags_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"bad port", map[string]string{"PORT": "abc"}, nil},
		{"bad db type", nil, []string{"-t", "mysql"}},
		{"bad ttl", map[string]string{"POLL_CACHE_TTL": "soon"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			args := append([]string{"-jwt-secret", "s1", "-fingerprint-salt", "s2", "-env-file", noEnvFile(t)}, tt.args...)
			if _, err := ParseFlags(args); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseFlags_EnvFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "test.env")
	content := "JWT_SECRET=from-file\nFINGERPRINT_SALT=salt-from-file\nVOTE_CACHE_TTL=5m\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := ParseFlags([]string{"-env-file", path})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.JWTSecret != "from-file" {
		t.Errorf("expected secret from env file, got %q", cfg.JWTSecret)
	}
	if cfg.VoteCacheTTL != 5*time.Minute {
		t.Errorf("expected 5m vote TTL, got %v", cfg.VoteCacheTTL)
	}
}
