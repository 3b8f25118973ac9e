package config

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	Addr      string `mapstructure:"ADDR"`
	DataDir   string `mapstructure:"DATA_DIR"`
	DBPath    string `mapstructure:"DB_PATH"`
	PublicDir string `mapstructure:"PUBLIC_DIR"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`

	AdminUsername string `mapstructure:"ADMIN_USERNAME"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`
	SeedDemoData  bool   `mapstructure:"SEED_DEMO_DATA"`

	// SessionBackend is "memory" or "redis".
	SessionBackend string `mapstructure:"SESSION_BACKEND"`
	RedisURL       string `mapstructure:"REDIS_URL"`

	CORSOrigins    []string `mapstructure:"CORS_ORIGINS"`
	MetricsEnabled bool     `mapstructure:"METRICS_ENABLED"`
}

// Load reads configuration from the environment and an optional .env file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("ADDR", ":3000")
	v.SetDefault("DATA_DIR", "./database")
	v.SetDefault("DB_PATH", "")
	v.SetDefault("PUBLIC_DIR", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD", "12345")
	v.SetDefault("SEED_DEMO_DATA", true)
	v.SetDefault("SESSION_BACKEND", "memory")
	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("METRICS_ENABLED", true)

	// Missing .env is fine.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	c.SessionBackend = strings.ToLower(strings.TrimSpace(c.SessionBackend))
	if c.SessionBackend == "" {
		c.SessionBackend = "memory"
	}
	if c.DataDir == "" {
		c.DataDir = "./database"
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.DataDir, "goop.db")
	}
	var origins []string
	for _, o := range c.CORSOrigins {
		for _, p := range strings.Split(o, ",") {
			if p = strings.TrimSpace(p); p != "" {
				origins = append(origins, p)
			}
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c.CORSOrigins = origins
}

// SlogLevel maps LOG_LEVEL to a slog level; unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
