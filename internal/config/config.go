package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	// DevSessionSecret 仅用于本地开发，生产环境拒绝使用。
	DevSessionSecret = "realwork-dev-secret"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr     string        `yaml:"listen_addr"`
	Port           string        `yaml:"port"`
	DatabaseDriver string        `yaml:"database_driver"`
	DatabaseDSN    string        `yaml:"database_dsn"`
	SessionSecret  string        `yaml:"session_secret"`
	GinMode        string        `yaml:"gin_mode"`
	Environment    string        `yaml:"environment"`
	LogLevel       string        `yaml:"log_level"`
	SiteBaseURL    string        `yaml:"site_base_url"`
	AdminUsername  string        `yaml:"admin_username"`
	AdminPassword  string        `yaml:"admin_password"`
	CORSOrigins    []string      `yaml:"cors_allowed_origins"`
	TrustedProxies []string      `yaml:"trusted_proxies"`
	SeedPages      bool          `yaml:"seed_pages"`
	LeadRateLimit  int           `yaml:"lead_rate_limit"`
	LeadRateWindow time.Duration `yaml:"lead_rate_window"`
	LeadRateKeys   int           `yaml:"lead_rate_capacity"`
	RedisAddr      string        `yaml:"redis_addr"`
	SentryDSN      string        `yaml:"sentry_dsn"`
	OTelEnabled    bool          `yaml:"otel_enabled"`
	OTelEndpoint   string        `yaml:"otel_endpoint"`
}

// IsDevelopment reports whether detailed error output may be exposed.
func (c AppConfig) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

func defaults() AppConfig {
	return AppConfig{
		Port:           "8080",
		DatabaseDriver: DriverSQLite,
		DatabaseDSN:    "data/site.db",
		SessionSecret:  DevSessionSecret,
		GinMode:        "release",
		Environment:    EnvProduction,
		LogLevel:       "info",
		SiteBaseURL:    "https://realwork.example.com",
		LeadRateLimit:  5,
		LeadRateWindow: 15 * time.Minute,
		LeadRateKeys:   10000,
	}
}

// Load 读取可选的 YAML 配置文件，再用环境变量覆盖，缺失项使用安全的默认值。
func Load() (AppConfig, error) {
	cfg := defaults()

	path := strings.TrimSpace(os.Getenv("CONFIG_PATH"))
	explicit := path != ""
	if !explicit {
		path = "config.yaml"
	}
	if err := loadFile(path, &cfg); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return AppConfig{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return AppConfig{}, err
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *AppConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "reading config file %s", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return eris.Wrapf(err, "parsing config file %s", path)
	}
	return nil
}

func applyEnv(cfg *AppConfig) error {
	setString(&cfg.Port, "PORT")
	setString(&cfg.ListenAddr, "LISTEN_ADDR")
	setString(&cfg.DatabaseDriver, "DATABASE_DRIVER")
	setString(&cfg.DatabaseDSN, "DATABASE_PATH")
	setString(&cfg.DatabaseDSN, "DATABASE_DSN")
	setString(&cfg.SessionSecret, "SESSION_SECRET")
	setString(&cfg.GinMode, "GIN_MODE")
	setString(&cfg.Environment, "APP_ENV")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.SiteBaseURL, "SITE_BASE_URL")
	setString(&cfg.AdminUsername, "ADMIN_USERNAME")
	setString(&cfg.AdminPassword, "ADMIN_PASSWORD")
	setString(&cfg.RedisAddr, "REDIS_ADDR")
	setString(&cfg.SentryDSN, "SENTRY_DSN")
	setString(&cfg.OTelEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")

	if raw := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); raw != "" {
		cfg.CORSOrigins = splitList(raw)
	}
	if raw := strings.TrimSpace(os.Getenv("TRUSTED_PROXIES")); raw != "" {
		cfg.TrustedProxies = splitList(raw)
	}

	if err := setBool(&cfg.SeedPages, "SEED_PAGES"); err != nil {
		return err
	}
	if err := setBool(&cfg.OTelEnabled, "OTEL_ENABLED"); err != nil {
		return err
	}
	if err := setInt(&cfg.LeadRateLimit, "LEAD_RATE_LIMIT"); err != nil {
		return err
	}
	if err := setInt(&cfg.LeadRateKeys, "LEAD_RATE_CAPACITY"); err != nil {
		return err
	}
	if raw := strings.TrimSpace(os.Getenv("LEAD_RATE_WINDOW")); raw != "" {
		window, err := time.ParseDuration(raw)
		if err != nil {
			return eris.Wrapf(err, "invalid LEAD_RATE_WINDOW value: %s", raw)
		}
		cfg.LeadRateWindow = window
	}

	return nil
}

func (c *AppConfig) normalize() {
	c.DatabaseDriver = strings.ToLower(strings.TrimSpace(c.DatabaseDriver))
	if c.DatabaseDriver == "" {
		c.DatabaseDriver = DriverSQLite
	}
	c.Environment = strings.ToLower(strings.TrimSpace(c.Environment))
	if c.Environment == "" {
		c.Environment = EnvProduction
	}
	if c.ListenAddr == "" {
		c.ListenAddr = fmt.Sprintf(":%s", c.Port)
	}
	c.SiteBaseURL = strings.TrimRight(strings.TrimSpace(c.SiteBaseURL), "/")
}

func (c AppConfig) validate() error {
	if !c.IsDevelopment() {
		secret := strings.TrimSpace(c.SessionSecret)
		if secret == "" || secret == DevSessionSecret {
			return eris.Errorf("SESSION_SECRET must be set to a private value in %s", c.Environment)
		}
	}
	if c.LeadRateWindow <= 0 {
		return eris.Errorf("invalid LEAD_RATE_WINDOW value: %s, must be positive", c.LeadRateWindow)
	}
	if c.LeadRateKeys <= 0 {
		return eris.Errorf("invalid LEAD_RATE_CAPACITY value: %d, must be positive", c.LeadRateKeys)
	}
	for _, proxy := range c.TrustedProxies {
		if net.ParseIP(proxy) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(proxy); err != nil {
			return eris.Wrapf(err, "invalid TRUSTED_PROXIES entry: %s", proxy)
		}
	}
	return nil
}

func setString(dst *string, key string) {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		*dst = value
	}
}

func setInt(dst *int, key string) error {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return eris.Wrapf(err, "invalid %s value: %s", key, raw)
	}
	*dst = value
	return nil
}

func setBool(dst *bool, key string) error {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return eris.Wrapf(err, "invalid %s value: %s", key, raw)
	}
	*dst = value
	return nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
