package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Foundline Core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Kiosk     KioskConfig     `yaml:"kiosk"`
	Database  DatabaseConfig  `yaml:"database"`
	API       APIConfig       `yaml:"api"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	Device    DeviceConfig    `yaml:"device"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	Logging   LoggingConfig   `yaml:"logging"`
	Security  SecurityConfig  `yaml:"security"`
}

// KioskConfig contains kiosk-site information.
type KioskConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	TLS      TLSConfig        `yaml:"tls"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// TLSConfig contains TLS certificate settings.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// APITimeoutConfig contains HTTP timeout settings (seconds).
//
// Write must comfortably exceed the full device signal sequence
// (call timeout + hold + call timeout), since a found-report submission
// blocks its handler for the whole sequence.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// WebSocketConfig contains WebSocket event feed settings.
type WebSocketConfig struct {
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
}

// DeviceConfig contains the LED indicator device settings.
type DeviceConfig struct {
	// Endpoint is the base URL of the indicator device,
	// e.g. "http://192.168.137.132". Commands are issued as
	// GET {endpoint}/led/{action}/{category}.
	Endpoint string `yaml:"endpoint"`

	// CallTimeout is the per-command HTTP timeout in seconds.
	CallTimeout int `yaml:"call_timeout"`

	// HoldSeconds is how long the indicator stays lit for a found
	// report before the automatic deactivate command is sent.
	HoldSeconds int `yaml:"hold_seconds"`
}

// InfluxDBConfig contains optional signal telemetry settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// SecurityConfig contains security settings.
type SecurityConfig struct {
	JWT JWTConfig `yaml:"jwt"`
}

// JWTConfig contains session token settings.
type JWTConfig struct {
	Secret string `yaml:"secret"`

	// SessionTTL is the session lifetime in minutes. Sessions are
	// server-side; the signed token only carries the session ID.
	SessionTTL int `yaml:"session_ttl"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: FOUNDLINE_SECTION_KEY
// For example: FOUNDLINE_DATABASE_PATH, FOUNDLINE_DEVICE_ENDPOINT
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default signal timing, matching the device firmware contract.
const (
	defaultCallTimeout = 3
	defaultHoldSeconds = 5
)

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Kiosk: KioskConfig{
			ID:   "kiosk-001",
			Name: "Foundline",
		},
		Database: DatabaseConfig{
			Path:        "./data/foundline.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			Path:           "/ws",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Device: DeviceConfig{
			Endpoint:    "http://192.168.137.132",
			CallTimeout: defaultCallTimeout,
			HoldSeconds: defaultHoldSeconds,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Security: SecurityConfig{
			JWT: JWTConfig{
				SessionTTL: 60,
			},
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FOUNDLINE_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("FOUNDLINE_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("FOUNDLINE_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}
	if v := os.Getenv("FOUNDLINE_DEVICE_ENDPOINT"); v != "" {
		cfg.Device.Endpoint = v
	}
	if v := os.Getenv("FOUNDLINE_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Session token secret (IMPORTANT: always override in production)
	if v := os.Getenv("FOUNDLINE_JWT_SECRET"); v != "" {
		cfg.Security.JWT.Secret = v
	}
}

// minJWTSecretLength guards against trivially forgeable session tokens.
const minJWTSecretLength = 32

// Validate checks the configuration for errors and security issues.
func (c *Config) Validate() error {
	var errs []string

	if c.Kiosk.ID == "" {
		errs = append(errs, "kiosk.id is required")
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if c.Device.Endpoint == "" {
		errs = append(errs, "device.endpoint is required")
	} else if !strings.HasPrefix(c.Device.Endpoint, "http://") && !strings.HasPrefix(c.Device.Endpoint, "https://") {
		errs = append(errs, "device.endpoint must be an http(s) URL")
	}
	if c.Device.CallTimeout <= 0 {
		errs = append(errs, "device.call_timeout must be positive")
	}
	if c.Device.HoldSeconds < 0 {
		errs = append(errs, "device.hold_seconds must not be negative")
	}

	// The session token secret is REQUIRED. A weak secret would let
	// anyone forge administrator sessions and delete report history.
	if c.Security.JWT.Secret == "" {
		errs = append(errs, "security.jwt.secret is required (set FOUNDLINE_JWT_SECRET environment variable)")
	} else if len(c.Security.JWT.Secret) < minJWTSecretLength {
		errs = append(errs, "security.jwt.secret must be at least 32 characters for adequate security")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetCallTimeout returns the device per-command timeout as a Duration.
func (c *DeviceConfig) GetCallTimeout() time.Duration {
	return time.Duration(c.CallTimeout) * time.Second
}

// GetHold returns the device hold duration as a Duration.
func (c *DeviceConfig) GetHold() time.Duration {
	return time.Duration(c.HoldSeconds) * time.Second
}

// GetSessionTTL returns the session lifetime as a Duration.
func (c *JWTConfig) GetSessionTTL() time.Duration {
	return time.Duration(c.SessionTTL) * time.Minute
}
