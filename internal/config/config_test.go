package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "LISTEN_ADDR", "DATABASE_DRIVER", "DATABASE_PATH", "DATABASE_DSN",
		"SESSION_SECRET", "GIN_MODE", "APP_ENV", "LOG_LEVEL", "SITE_BASE_URL",
		"ADMIN_USERNAME", "ADMIN_PASSWORD", "REDIS_ADDR", "SENTRY_DSN",
		"OTEL_EXPORTER_OTLP_ENDPOINT", "CORS_ALLOWED_ORIGINS", "SEED_PAGES",
		"OTEL_ENABLED", "LEAD_RATE_LIMIT", "LEAD_RATE_CAPACITY", "LEAD_RATE_WINDOW",
		"TRUSTED_PROXIES",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("SESSION_SECRET", "test-session-secret")
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_PATH", "")
	chdir(t, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.ListenAddr != ":8080" {
		t.Errorf("expected listen addr :8080, got %q", cfg.ListenAddr)
	}
	if cfg.DatabaseDriver != DriverSQLite {
		t.Errorf("expected sqlite driver, got %q", cfg.DatabaseDriver)
	}
	if cfg.Environment != EnvProduction {
		t.Errorf("expected production environment, got %q", cfg.Environment)
	}
	if cfg.LeadRateWindow != 15*time.Minute {
		t.Errorf("expected 15m lead window, got %s", cfg.LeadRateWindow)
	}
	if cfg.IsDevelopment() {
		t.Error("expected production config not to report development")
	}
	if len(cfg.TrustedProxies) != 0 {
		t.Errorf("expected no trusted proxies by default, got %v", cfg.TrustedProxies)
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	clearEnv(t)

	if _, err := Load(); err == nil {
		t.Fatal("expected error for explicit missing config file")
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("port: \"9000\"\nsite_base_url: https://file.example.com/\nlead_rate_window: 2m\ncors_allowed_origins:\n  - https://a.example.com\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SITE_BASE_URL", "https://env.example.com/")
	t.Setenv("APP_ENV", "Development")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://b.example.com, https://c.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.ListenAddr != ":9000" {
		t.Errorf("expected port from file, got %q", cfg.ListenAddr)
	}
	if cfg.SiteBaseURL != "https://env.example.com" {
		t.Errorf("expected env base url without trailing slash, got %q", cfg.SiteBaseURL)
	}
	if cfg.LeadRateWindow != 2*time.Minute {
		t.Errorf("expected 2m window from file, got %s", cfg.LeadRateWindow)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://c.example.com" {
		t.Errorf("unexpected cors origins: %v", cfg.CORSOrigins)
	}
	if !cfg.IsDevelopment() {
		t.Error("expected development environment")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"LEAD_RATE_LIMIT":    "many",
		"LEAD_RATE_WINDOW":   "0s",
		"LEAD_RATE_CAPACITY": "-1",
		"TRUSTED_PROXIES":    "10.0.0.1, not-an-ip",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("CONFIG_PATH", "")
			chdir(t, t.TempDir())
			t.Setenv(key, value)

			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}

func TestLoadRejectsNegativeWindowFromFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("lead_rate_window: -5m\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)

	if _, err := Load(); err == nil {
		t.Fatal("expected error for negative lead_rate_window")
	}
}

func TestLoadRequiresSessionSecretInProduction(t *testing.T) {
	for _, secret := range []string{"", DevSessionSecret} {
		clearEnv(t)
		t.Setenv("CONFIG_PATH", "")
		chdir(t, t.TempDir())
		t.Setenv("SESSION_SECRET", secret)

		if _, err := Load(); err == nil {
			t.Fatalf("expected error for production session secret %q", secret)
		}
	}
}

func TestLoadAllowsDevSessionSecretInDevelopment(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_PATH", "")
	chdir(t, t.TempDir())
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("APP_ENV", "development")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1, 172.16.0.0/12")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.SessionSecret != DevSessionSecret {
		t.Errorf("expected dev session secret, got %q", cfg.SessionSecret)
	}
	if len(cfg.TrustedProxies) != 2 || cfg.TrustedProxies[1] != "172.16.0.0/12" {
		t.Errorf("unexpected trusted proxies: %v", cfg.TrustedProxies)
	}
}
