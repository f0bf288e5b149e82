package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DB       DB
	HTTPPort string
	GRPCPort string
	LogLevel string

	Kafka Kafka

	PageSize       int
	SearchDebounce time.Duration
	SearchLimit    int
	StuckAfter     time.Duration
	RealtimeLanes  int

	Outbox Outbox
	Notify Notify

	AdminUsername string
	AdminPassword string
}

type DB struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

func (c DB) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Name)
}

type Kafka struct {
	Brokers      []string
	ChangesTopic string
	GroupPrefix  string
}

type Outbox struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
}

type Notify struct {
	Workers   int
	BatchSize int
	Flush     time.Duration
}

// Load reads .env (or .example.env) from the working directory or one of its
// two parents, then the process environment. A missing file is not an error.
func Load() (*Config, string, error) {
	source, err := loadEnv()
	if err != nil {
		return nil, "", err
	}
	cfg, err := FromEnv()
	return cfg, source, err
}

// FromEnv builds the config from the process environment only.
func FromEnv() (*Config, error) {
	r := &envReader{}
	cfg := &Config{
		DB: DB{
			Host:     r.str("DB_HOST", "localhost"),
			Port:     r.int("DB_PORT", 5432),
			User:     r.str("POSTGRES_USER", "postgres"),
			Password: r.str("POSTGRES_PASSWORD", ""),
			Name:     r.str("POSTGRES_DB", "backoffice"),
		},
		HTTPPort: r.str("HTTP_PORT", "9000"),
		GRPCPort: r.str("GRPC_PORT", "50051"),
		LogLevel: r.str("LOG_LEVEL", "info"),
		Kafka: Kafka{
			Brokers:      r.list("KAFKA_BROKERS", []string{"localhost:9092"}),
			ChangesTopic: r.str("KAFKA_CHANGES_TOPIC", "backoffice.changes"),
			GroupPrefix:  r.str("KAFKA_GROUP_PREFIX", "backoffice-session"),
		},
		PageSize:       r.int("PAGE_SIZE", 30),
		SearchDebounce: r.duration("SEARCH_DEBOUNCE", 300*time.Millisecond),
		SearchLimit:    r.int("SEARCH_LIMIT", 100),
		StuckAfter:     r.duration("STUCK_AFTER", 72*time.Hour),
		RealtimeLanes:  r.int("REALTIME_LANES", 8),
		Outbox: Outbox{
			PollInterval: r.duration("OUTBOX_POLL_INTERVAL", time.Second),
			BatchSize:    r.int("OUTBOX_BATCH_SIZE", 50),
			MaxAttempts:  r.int("OUTBOX_MAX_ATTEMPTS", 3),
		},
		Notify: Notify{
			Workers:   r.int("NOTIFY_WORKERS", 2),
			BatchSize: r.int("NOTIFY_BATCH_SIZE", 10),
			Flush:     r.duration("NOTIFY_FLUSH", 500*time.Millisecond),
		},
		AdminUsername: r.str("ADMIN_USERNAME", "admin"),
		AdminPassword: r.str("ADMIN_PASSWORD", ""),
	}
	if r.err != nil {
		return nil, r.err
	}
	return cfg, nil
}

func loadEnv() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}

	possiblePaths := []string{
		filepath.Join(wd, ".env"),
		filepath.Join(wd, "..", ".env"),
		filepath.Join(wd, "..", "..", ".env"),
	}

	for _, envPath := range possiblePaths {
		if err := godotenv.Load(envPath); err == nil {
			return envPath, nil
		}
	}

	for _, envPath := range possiblePaths {
		examplePath := filepath.Join(filepath.Dir(envPath), ".example.env")
		if err := godotenv.Load(examplePath); err == nil {
			return examplePath, nil
		}
	}

	return "", nil
}

type envReader struct {
	err error
}

func (r *envReader) fail(key string, err error) {
	r.err = errors.Join(r.err, fmt.Errorf("%s: %w", key, err))
}

func (r *envReader) str(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func (r *envReader) int(key string, def int) int {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(key, err)
		return def
	}
	return n
}

func (r *envReader) duration(key string, def time.Duration) time.Duration {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.fail(key, err)
		return def
	}
	return d
}

func (r *envReader) list(key string, def []string) []string {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
