package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	Broadcast BroadcastConfig
	NATS      NATSConfig
	Security  SecurityConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type RedisConfig struct {
	Addr                string
	Password            string
	DB                  int
	ConversationsStream string
	ErrorsStream        string
	ReadBlock           time.Duration
	ReadCount           int64
	BackoffMin          time.Duration
	BackoffMax          time.Duration
	DialTimeout         time.Duration
}

type BroadcastConfig struct {
	// Interval is the fixed cadence between dashboard snapshot broadcasts.
	Interval time.Duration
}

type NATSConfig struct {
	Enabled      bool
	URL          string
	AlertSubject string
}

type SecurityConfig struct {
	AllowedOrigins []string
	DemoRateRPS    float64
	DemoRateBurst  int
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	readBlock, err := parseDuration(getEnv("STREAM_READ_BLOCK", "1s"))
	if err != nil {
		return nil, fmt.Errorf("invalid STREAM_READ_BLOCK: %w", err)
	}

	readCount, err := strconv.ParseInt(getEnv("STREAM_READ_COUNT", "10"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid STREAM_READ_COUNT: %w", err)
	}

	backoffMin, err := parseDuration(getEnv("RECONNECT_BACKOFF_MIN", "500ms"))
	if err != nil {
		return nil, fmt.Errorf("invalid RECONNECT_BACKOFF_MIN: %w", err)
	}

	backoffMax, err := parseDuration(getEnv("RECONNECT_BACKOFF_MAX", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RECONNECT_BACKOFF_MAX: %w", err)
	}

	refreshInterval, err := parseDuration(getEnv("DASHBOARD_REFRESH_INTERVAL", "3s"))
	if err != nil {
		return nil, fmt.Errorf("invalid DASHBOARD_REFRESH_INTERVAL: %w", err)
	}

	demoRPS, err := strconv.ParseFloat(getEnv("DEMO_RATE_LIMIT_RPS", "5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid DEMO_RATE_LIMIT_RPS: %w", err)
	}

	demoBurst, err := strconv.Atoi(getEnv("DEMO_RATE_LIMIT_BURST", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEMO_RATE_LIMIT_BURST: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Redis: RedisConfig{
			Addr:                getEnv("REDIS_ADDR", "localhost:6379"),
			Password:            getEnv("REDIS_PASSWORD", ""),
			DB:                  redisDB,
			ConversationsStream: getEnv("STREAM_CONVERSATIONS", "voice:conversations"),
			ErrorsStream:        getEnv("STREAM_ERRORS", "voice:errors"),
			ReadBlock:           readBlock,
			ReadCount:           readCount,
			BackoffMin:          backoffMin,
			BackoffMax:          backoffMax,
			DialTimeout:         5 * time.Second,
		},
		Broadcast: BroadcastConfig{
			Interval: refreshInterval,
		},
		NATS: NATSConfig{
			Enabled:      getEnvBool("NATS_ENABLED", false),
			URL:          getEnv("NATS_URL", "nats://localhost:4222"),
			AlertSubject: getEnv("NATS_ALERT_SUBJECT", "dashboard.alerts"),
		},
		Security: SecurityConfig{
			AllowedOrigins: splitCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:8080,http://127.0.0.1:8080")),
			DemoRateRPS:    demoRPS,
			DemoRateBurst:  demoBurst,
		},
	}

	if cfg.Redis.ReadCount <= 0 {
		return nil, fmt.Errorf("STREAM_READ_COUNT must be positive")
	}
	if cfg.Broadcast.Interval <= 0 {
		return nil, fmt.Errorf("DASHBOARD_REFRESH_INTERVAL must be positive")
	}
	if cfg.Redis.BackoffMin > cfg.Redis.BackoffMax {
		return nil, fmt.Errorf("RECONNECT_BACKOFF_MIN must not exceed RECONNECT_BACKOFF_MAX")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return parsed
}

func splitCSV(raw string) []string {
	items := make([]string, 0)
	current := ""

	for _, r := range raw {
		if r == ',' {
			if current != "" {
				items = append(items, current)
				current = ""
			}
			continue
		}
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			current += string(r)
		}
	}

	if current != "" {
		items = append(items, current)
	}

	return items
}

func parseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}
