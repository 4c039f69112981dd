package config

import (
	"log/slog"
	"time"

	"github.com/spf13/viper"

	"github.com/jgrantham/inlet/internal/db"
)

// ObjectStoreConfig holds the S3-compatible object store settings.
type ObjectStoreConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// QueueConfig holds job queue and worker settings.
type QueueConfig struct {
	Name         string
	PollInterval time.Duration
	Concurrency  int
}

// MetricsConfig holds the worker's metrics listener settings.
type MetricsConfig struct {
	Addr string
}

// Config aggregates every subsystem's settings.
type Config struct {
	Database    db.Config
	ObjectStore ObjectStoreConfig
	Queue       QueueConfig
	Metrics     MetricsConfig
	// Schedules maps a pipeline name to a cron expression, overriding the
	// pipeline's default schedule.
	Schedules map[string]string
	LogLevel  string
}

// Default returns the configuration used when no file or env override is
// present.
func Default() Config {
	return Config{
		Database: db.DefaultConfig(),
		ObjectStore: ObjectStoreConfig{
			Endpoint: "localhost:9000",
			Bucket:   "ingest-inbound",
			Region:   "eu-west-2",
		},
		Queue: QueueConfig{
			Name:         "long-running",
			PollInterval: 5 * time.Second,
			Concurrency:  2,
		},
		Metrics:   MetricsConfig{Addr: ":9402"},
		Schedules: map[string]string{},
		LogLevel:  "info",
	}
}

// Load reads config.yaml from configPath, allowing INLET_-prefixed
// environment overrides, and fills any gaps with defaults.
func Load(configPath string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()
	v.SetEnvPrefix("INLET")

	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.dbname")
	v.BindEnv("database.sslmode")
	v.BindEnv("objectstore.endpoint")
	v.BindEnv("objectstore.access_key")
	v.BindEnv("objectstore.secret_key")
	v.BindEnv("objectstore.bucket")
	v.BindEnv("objectstore.region")
	v.BindEnv("objectstore.use_ssl")
	v.BindEnv("queue.name")
	v.BindEnv("queue.poll_interval")
	v.BindEnv("queue.concurrency")
	v.BindEnv("metrics.addr")
	v.BindEnv("log.level")

	if err := v.ReadInConfig(); err != nil {
		slog.Info("no config.yaml found, using defaults and env vars")
	} else {
		slog.Info("loaded config.yaml", "path", v.ConfigFileUsed())
	}

	if v.IsSet("database.host") {
		cfg.Database.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.Database.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.Database.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.Database.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.Database.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.Database.SSLMode = v.GetString("database.sslmode")
	}

	if v.IsSet("objectstore.endpoint") {
		cfg.ObjectStore.Endpoint = v.GetString("objectstore.endpoint")
	}
	if v.IsSet("objectstore.access_key") {
		cfg.ObjectStore.AccessKey = v.GetString("objectstore.access_key")
	}
	if v.IsSet("objectstore.secret_key") {
		cfg.ObjectStore.SecretKey = v.GetString("objectstore.secret_key")
	}
	if v.IsSet("objectstore.bucket") {
		cfg.ObjectStore.Bucket = v.GetString("objectstore.bucket")
	}
	if v.IsSet("objectstore.region") {
		cfg.ObjectStore.Region = v.GetString("objectstore.region")
	}
	if v.IsSet("objectstore.use_ssl") {
		cfg.ObjectStore.UseSSL = v.GetBool("objectstore.use_ssl")
	}

	if v.IsSet("queue.name") {
		cfg.Queue.Name = v.GetString("queue.name")
	}
	if v.IsSet("queue.poll_interval") {
		cfg.Queue.PollInterval = v.GetDuration("queue.poll_interval")
	}
	if v.IsSet("queue.concurrency") {
		cfg.Queue.Concurrency = v.GetInt("queue.concurrency")
	}

	if v.IsSet("metrics.addr") {
		cfg.Metrics.Addr = v.GetString("metrics.addr")
	}
	if v.IsSet("schedules") {
		cfg.Schedules = v.GetStringMapString("schedules")
	}
	if v.IsSet("log.level") {
		cfg.LogLevel = v.GetString("log.level")
	}

	return cfg, nil
}

// SlogLevel translates the configured level string to a slog.Level.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
