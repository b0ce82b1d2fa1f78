package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	pkglogger "github.com/pickboard/pickboard-backend/pkg/logger"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Redis       RedisConfig       `yaml:"redis"`
	JWT         JWTConfig         `yaml:"jwt"`
	CORS        CORSConfig        `yaml:"cors"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Port            int    `yaml:"port"`
	Env             string `yaml:"env"`
	ShutdownTimeout int    `yaml:"shutdown_timeout"` // seconds
	SecureCookies   bool   `yaml:"secure_cookies"`
}

// DatabaseConfig database settings. Driver is one of mysql, postgres, sqlite.
type DatabaseConfig struct {
	Driver          string `yaml:"driver"`
	DSN             string `yaml:"dsn"`
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	Name            string `yaml:"name"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"` // seconds
	LogLevel        string `yaml:"log_level"`
	SeedDemo        bool   `yaml:"seed_demo"` // insert demo picks into an empty database
}

// RedisConfig redis settings
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// JWTConfig token settings, lifetimes in seconds
type JWTConfig struct {
	Secret    string `yaml:"secret"`
	ExpiresIn int    `yaml:"expires_in"`
	RefreshIn int    `yaml:"refresh_in"`
}

// CORSConfig comma separated allowed origins
type CORSConfig struct {
	AllowOrigins string `yaml:"allow_origins"`
}

// LeaderboardConfig top picks settings
type LeaderboardConfig struct {
	WindowDays int `yaml:"window_days"`
	Size       int `yaml:"size"`
}

// RateLimitConfig per-IP request limit
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
}

// DefaultSQLiteFile is the sqlite database used when neither dsn nor name is set
const DefaultSQLiteFile = "pickboard.db"

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Env:             "local",
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Driver:          "sqlite",
			MaxIdleConns:    5,
			MaxOpenConns:    20,
			ConnMaxLifetime: 300,
			LogLevel:        "warn",
		},
		Redis: RedisConfig{
			Host:     "localhost",
			Port:     6379,
			PoolSize: 10,
		},
		JWT: JWTConfig{
			ExpiresIn: 900,
			RefreshIn: 7 * 24 * 3600,
		},
		CORS: CORSConfig{
			AllowOrigins: "http://localhost:3000",
		},
		Leaderboard: LeaderboardConfig{
			WindowDays: 7,
			Size:       3,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 120,
		},
	}
}

// Load reads the YAML file at path (a missing file is not an error),
// then applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		pkglogger.Warn("config file %s not found, using defaults", path)
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Env, "APP_ENV")
	setInt(&cfg.Server.Port, "PORT")
	setString(&cfg.Database.Driver, "DB_DRIVER")
	setString(&cfg.Database.DSN, "DB_DSN")
	setString(&cfg.Database.Host, "DB_HOST")
	setInt(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.Name, "DB_NAME")
	setString(&cfg.Redis.Host, "REDIS_HOST")
	setInt(&cfg.Redis.Port, "REDIS_PORT")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	if v := os.Getenv("REDIS_HOST"); v != "" {
		cfg.Redis.Enabled = true
	}
	setString(&cfg.JWT.Secret, "JWT_SECRET")
	setString(&cfg.CORS.AllowOrigins, "CORS_ALLOW_ORIGINS")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Validate checks required settings
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.JWT.Secret == "" {
		if !c.IsDevelopment() {
			return errors.New("jwt.secret is required outside development")
		}
		c.JWT.Secret = "pickboard-dev-secret"
	}
	if c.Leaderboard.WindowDays <= 0 {
		c.Leaderboard.WindowDays = 7
	}
	if c.Leaderboard.Size <= 0 {
		c.Leaderboard.Size = 3
	}
	return nil
}

// IsDevelopment reports whether the server runs in a local/dev environment
func (c *Config) IsDevelopment() bool {
	switch c.Server.Env {
	case "", "local", "dev", "development", "test":
		return true
	}
	return false
}

// LeaderboardWindow returns the like counting window
func (c *Config) LeaderboardWindow() time.Duration {
	return time.Duration(c.Leaderboard.WindowDays) * 24 * time.Hour
}

// GetDSN builds the driver DSN unless one is configured explicitly
func (d DatabaseConfig) GetDSN() string {
	if d.DSN != "" {
		return d.DSN
	}
	switch d.Driver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			d.User, d.Password, d.Host, d.Port, d.Name)
	case "postgres":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			d.Host, d.Port, d.User, d.Password, d.Name)
	}
	if d.Name != "" {
		return d.Name
	}
	return DefaultSQLiteFile
}

// LogResolved logs the effective, non-secret configuration
func LogResolved(cfg *Config) {
	pkglogger.Info("config: env=%s port=%d db=%s redis=%v leaderboard=%dd/top%d",
		cfg.Server.Env, cfg.Server.Port, cfg.Database.Driver, cfg.Redis.Enabled,
		cfg.Leaderboard.WindowDays, cfg.Leaderboard.Size)
	if origins := strings.TrimSpace(cfg.CORS.AllowOrigins); origins != "" {
		pkglogger.Info("config: cors origins=%s", origins)
	}
}
