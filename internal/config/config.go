// internal/config/config.go
package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database struct {
		Host       string `json:"host"`
		Port       string `json:"port"`
		User       string `json:"user"`
		Password   string `json:"password"`
		Name       string `json:"name"`
		SSLMode    string `json:"sslmode"`
		SearchPath string `json:"schema"`
	} `json:"database"`
	JWT struct {
		Secret       string        `json:"secret"`
		ExpiryPeriod time.Duration `json:"expiry_period"`
	} `json:"jwt"`
	Server struct {
		Port         string        `json:"port"`
		ReadTimeout  time.Duration `json:"read_timeout"`
		WriteTimeout time.Duration `json:"write_timeout"`
		AllowOrigins []string      `json:"allow_origins"`
	} `json:"server"`
	RateLimit struct {
		Requests int           `json:"requests"`
		Window   time.Duration `json:"window"`
	} `json:"rate_limit"`
	Redis struct {
		Addr     string        `json:"addr"`
		Password string        `json:"password"`
		DB       int           `json:"db"`
		TTL      time.Duration `json:"ttl"`
	} `json:"redis"`
	Kafka struct {
		Brokers []string `json:"brokers"`
		Topic   string   `json:"topic"`
	} `json:"kafka"`
	Email struct {
		Provider string `json:"provider"`
		From     string `json:"from"`
		FromName string `json:"from_name"`
	} `json:"email"`
	Sendgrid struct {
		APIKey string `json:"api_key"`
	} `json:"sendgrid"`
	SMTP struct {
		Host     string `json:"host"`
		Port     int    `json:"port"`
		Username string `json:"username"`
		Password string `json:"password"`
	} `json:"smtp"`
	Reconcile struct {
		Interval  time.Duration `json:"interval"`
		BatchSize int           `json:"batch_size"`
	} `json:"reconcile"`
	BaseURL string `json:"base_url"`
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg := &Config{}

	// Database configuration
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnv("DB_PORT", "5432")
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "")
	cfg.Database.Name = getEnv("DB_NAME", "liaison")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.SearchPath = getEnv("DB_SCHEMA", "public")

	// JWT configuration
	cfg.JWT.Secret = getEnv("JWT_SECRET", "your-secret-key")
	cfg.JWT.ExpiryPeriod = getDuration("JWT_EXPIRY", time.Hour*24)

	// Server configuration
	cfg.Server.Port = getEnv("SERVER_PORT", "8080")
	cfg.Server.ReadTimeout = getDuration("SERVER_READ_TIMEOUT", time.Second*15)
	cfg.Server.WriteTimeout = getDuration("SERVER_WRITE_TIMEOUT", time.Second*15)
	cfg.Server.AllowOrigins = getList("SERVER_ALLOW_ORIGINS", []string{"http://localhost:3000"})

	cfg.RateLimit.Requests = getInt("RATE_LIMIT_REQUESTS", 100)
	cfg.RateLimit.Window = getDuration("RATE_LIMIT_WINDOW", time.Minute)

	// Redis is optional; an empty address disables the cache
	cfg.Redis.Addr = getEnv("REDIS_ADDR", "")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getInt("REDIS_DB", 0)
	cfg.Redis.TTL = getDuration("REDIS_TTL", time.Minute*5)

	cfg.Kafka.Brokers = getList("KAFKA_BROKERS", nil)
	cfg.Kafka.Topic = getEnv("KAFKA_TOPIC", "liaison.mutations")

	// Email configuration
	cfg.Email.Provider = getEnv("EMAIL_PROVIDER", "none")
	cfg.Email.From = getEnv("EMAIL_FROM", "")
	cfg.Email.FromName = getEnv("EMAIL_FROM_NAME", "Liaison")
	cfg.Sendgrid.APIKey = getEnv("SENDGRID_API_KEY", "")
	cfg.SMTP.Host = getEnv("SMTP_HOST", "")
	cfg.SMTP.Port = getInt("SMTP_PORT", 587)
	cfg.SMTP.Username = getEnv("SMTP_USERNAME", "")
	cfg.SMTP.Password = getEnv("SMTP_PASSWORD", "")

	cfg.Reconcile.Interval = getDuration("RECONCILE_INTERVAL", time.Minute*5)
	cfg.Reconcile.BatchSize = getInt("RECONCILE_BATCH_SIZE", 100)

	cfg.BaseURL = getEnv("BASE_URL", "http://localhost:3000")

	return cfg
}

// DSN returns the postgres connection string for the database section.
func (c *Config) DSN() string {
	return "host=" + c.Database.Host +
		" port=" + c.Database.Port +
		" user=" + c.Database.User +
		" password=" + c.Database.Password +
		" dbname=" + c.Database.Name +
		" sslmode=" + c.Database.SSLMode +
		" search_path=" + c.Database.SearchPath
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getList(key string, defaultValue []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
