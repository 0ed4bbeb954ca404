package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Backend   BackendConfig   `yaml:"backend"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Scanner   ScannerConfig   `yaml:"scanner"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// BackendConfig holds settings for the remote inventory REST service.
type BackendConfig struct {
	BaseURL       string        `yaml:"base_url"       env:"BACKEND_BASE_URL"       env-required:"true"`
	Timeout       time.Duration `yaml:"timeout"        env:"BACKEND_TIMEOUT"        env-default:"10s"`
	RetryAttempts int           `yaml:"retry_attempts" env:"BACKEND_RETRY_ATTEMPTS" env-default:"3"`
	RetryDelay    time.Duration `yaml:"retry_delay"    env:"BACKEND_RETRY_DELAY"    env-default:"1s"`
}

// CatalogConfig holds settings for the public product-image catalog.
type CatalogConfig struct {
	BaseURL string        `yaml:"base_url" env:"CATALOG_BASE_URL" env-default:"https://world.openfoodfacts.org"`
	Timeout time.Duration `yaml:"timeout"  env:"CATALOG_TIMEOUT"  env-default:"10s"`
}

// ScannerConfig holds barcode-scan session settings.
type ScannerConfig struct {
	FrameRate int `yaml:"frame_rate" env:"SCANNER_FRAME_RATE" env-default:"10"`
	// BoxSize is the side of the central square detection region, in pixels.
	BoxSize int `yaml:"box_size" env:"SCANNER_BOX_SIZE" env-default:"250"`
}

// DashboardConfig holds dashboard view settings.
type DashboardConfig struct {
	// ExpiryWindowDays is how far ahead an item counts as "expiring soon".
	ExpiryWindowDays int `yaml:"expiry_window_days" env:"DASHBOARD_EXPIRY_WINDOW_DAYS" env-default:"7"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	Enabled      bool          `yaml:"enabled"          env:"RATE_LIMIT_ENABLED"     env-default:"true"`
	MaxPerMinute int           `yaml:"max_per_minute"   env:"RATE_LIMIT_MAX_PER_MIN" env-default:"300"`
	Cleanup      time.Duration `yaml:"cleanup_interval" env:"RATE_LIMIT_CLEANUP"     env-default:"5m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}
