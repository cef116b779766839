package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPPort     string         `yaml:"http_port"`
	GRPCPort     string         `yaml:"grpc_port"`
	TemplatesDir string         `yaml:"templates_dir"`
	StaticDir    string         `yaml:"static_dir"`
	LogLevel     string         `yaml:"log_level"`
	LogSQL       bool           `yaml:"log_sql"`
	Postgres     PostgresConfig `yaml:"postgres"`
	Kafka        KafkaConfig    `yaml:"kafka"`
	Audit        AuditConfig    `yaml:"audit"`
	HealthProbe  time.Duration  `yaml:"health_probe"`
}

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

type KafkaConfig struct {
	Brokers    []string `yaml:"brokers"`
	AuditTopic string   `yaml:"audit_topic"`
	GroupID    string   `yaml:"group_id"`
}

type AuditConfig struct {
	Workers   int           `yaml:"workers"`
	BatchSize int           `yaml:"batch_size"`
	Timeout   time.Duration `yaml:"timeout"`
}

// DSN assembles the store connection URL from the five connection values.
func (p PostgresConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     net.JoinHostPort(p.Host, p.Port),
		Path:     "/" + p.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// LoadEnv looks for a .env file in the working directory and up to two parent
// directories. Variables already present in the environment win.
func LoadEnv() (string, bool) {
	wd, err := os.Getwd()
	if err != nil {
		return "", false
	}

	possiblePaths := []string{
		filepath.Join(wd, ".env"),
		filepath.Join(wd, "..", ".env"),
		filepath.Join(wd, "..", "..", ".env"),
	}

	for _, envPath := range possiblePaths {
		if err := godotenv.Load(envPath); err == nil {
			return envPath, true
		}
	}
	return "", false
}

// Load builds the configuration from the environment and, when path is not
// empty, overlays the YAML file found there.
func Load(path string) (*Config, error) {
	cfg := &Config{
		HTTPPort:     getEnv("HTTP_PORT", "9000"),
		GRPCPort:     getEnv("GRPC_PORT", "9001"),
		TemplatesDir: getEnv("TEMPLATES_DIR", "templates"),
		StaticDir:    getEnv("STATIC_DIR", "image"),
		LogLevel:     getEnv("LOG_LEVEL", "debug"),
		LogSQL:       getEnvBool("LOG_SQL", false),
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRESQL_HOST", "localhost"),
			Port:     getEnv("POSTGRESQL_PORT", "5432"),
			User:     getEnv("POSTGRESQL_USER", "postgres"),
			Password: os.Getenv("POSTGRESQL_PASSWORD"),
			DBName:   getEnv("POSTGRESQL_DBNAME", "postgres"),
		},
		Kafka: KafkaConfig{
			Brokers:    splitList(os.Getenv("KAFKA_BROKERS")),
			AuditTopic: getEnv("AUDIT_TOPIC", "audit_logs"),
			GroupID:    getEnv("AUDIT_GROUP_ID", "audit-log-consumer-group"),
		},
		Audit: AuditConfig{
			Workers:   2,
			BatchSize: 5,
			Timeout:   500 * time.Millisecond,
		},
		HealthProbe: 10 * time.Second,
	}

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := strconv.Atoi(c.Postgres.Port); err != nil {
		return fmt.Errorf("invalid postgres port %q: %w", c.Postgres.Port, err)
	}
	if c.Audit.Workers <= 0 || c.Audit.BatchSize <= 0 {
		return fmt.Errorf("audit workers and batch size must be positive")
	}
	if c.Audit.Timeout <= 0 {
		return fmt.Errorf("audit timeout must be positive, got %s", c.Audit.Timeout)
	}
	if c.HealthProbe <= 0 {
		return fmt.Errorf("health probe interval must be positive, got %s", c.HealthProbe)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
