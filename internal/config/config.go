package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	DB     DBConfig     `mapstructure:"db"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Report ReportConfig `mapstructure:"report"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type DBConfig struct {
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"maxOpenConns"`
}

type AuthConfig struct {
	Secret   string        `mapstructure:"secret"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

type RedisConfig struct {
	Addr string `mapstructure:"addr"`
}

type ReportConfig struct {
	// LowStockBuffer widens the warning band above the reorder level.
	LowStockBuffer int           `mapstructure:"lowStockBuffer"`
	TopProducts    int           `mapstructure:"topProducts"`
	CacheTTL       time.Duration `mapstructure:"cacheTTL"`
}

// LoadConfig loads configuration from config.yaml and environment variables
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./deploy/")
	v.AddConfigPath("./")
	v.AddConfigPath("$HOME/.stockforge/")
	v.AddConfigPath("/etc/stockforge/")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("db.maxOpenConns", 25)
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("report.lowStockBuffer", 5)
	v.SetDefault("report.topProducts", 5)
	v.SetDefault("report.cacheTTL", 30*time.Second)

	// Enable environment variable override with STOCKFORGE_ prefix
	v.SetEnvPrefix("STOCKFORGE")
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Auth.Secret == "" {
		return nil, fmt.Errorf("auth.secret must be set")
	}

	return &config, nil
}
