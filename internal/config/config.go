// Package config は環境変数と .env からアプリケーション設定を読み込みます。
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// 対応しているストアのドライバ名
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// DBConfig はデータベース接続設定です。
type DBConfig struct {
	Driver string
	User   string
	Pass   string
	Host   string
	Port   string
	Name   string
}

// Config はアプリケーション全体の設定です。
type Config struct {
	Addr             string
	GinMode          string
	MountPath        string
	DB               DBConfig
	CSRFEnabled      bool
	CSRFSecret       string
	CSRFTTL          time.Duration
	CORSAllowOrigins []string
}

// Load は .env (任意) と環境変数から設定を読み込みます。
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	cfg := &Config{
		Addr:      getEnv("APP_ADDR", ":8080"),
		GinMode:   getEnv("GIN_MODE", "debug"),
		MountPath: normalizeMountPath(os.Getenv("MOUNT_PATH")),
		DB: DBConfig{
			Driver: strings.ToLower(getEnv("DB_DRIVER", DriverMySQL)),
			User:   os.Getenv("DB_USER"),
			Pass:   os.Getenv("DB_PASS"),
			Host:   getEnv("DB_HOST", "127.0.0.1"),
			Port:   os.Getenv("DB_PORT"),
			Name:   os.Getenv("DB_NAME"),
		},
		CSRFSecret:       os.Getenv("CSRF_SECRET"),
		CSRFTTL:          12 * time.Hour,
		CORSAllowOrigins: splitList(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")),
	}

	enabled, err := strconv.ParseBool(getEnv("CSRF_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid CSRF_ENABLED: %w", err)
	}
	cfg.CSRFEnabled = enabled

	if ttl := os.Getenv("CSRF_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, fmt.Errorf("invalid CSRF_TTL: %w", err)
		}
		cfg.CSRFTTL = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate は設定の整合性を確認します。
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case DriverMySQL, DriverPostgres:
		if c.DB.Name == "" {
			return fmt.Errorf("DB_NAME is required for driver %q", c.DB.Driver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// normalizeMountPath は "/app/" や "app" を "/app" に、"/" を "" にそろえます。
func normalizeMountPath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}
