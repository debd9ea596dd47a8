package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env         string
	Port        int
	APIPrefix   string
	ServiceName string

	Database   DatabaseConfig
	Redis      RedisConfig
	CORS       CORSConfig
	Log        LogConfig
	Scheduling SchedulingConfig
	Agenda     AgendaConfig
	Events     EventsConfig
	Tracing    TracingConfig
	Export     ExportConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SchedulingConfig tunes the availability engine.
type SchedulingConfig struct {
	Timezone     string
	CheckTimeout time.Duration
}

// Location resolves the configured timezone, falling back to UTC.
func (c SchedulingConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// AgendaConfig governs day agenda caching.
type AgendaConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// EventsConfig configures the schedule-change consumer.
type EventsConfig struct {
	Enabled             bool
	Brokers             []string
	GroupID             string
	Topic               string
	InvalidationWorkers int
	InvalidationRetries int
}

// TracingConfig configures OpenTelemetry export.
type TracingConfig struct {
	Enabled      bool
	OTLPEndpoint string
	SampleRatio  float64
}

// ExportConfig configures agenda file exports.
type ExportConfig struct {
	PDFFontPath string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.ServiceName = v.GetString("SERVICE_NAME")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Scheduling = SchedulingConfig{
		Timezone:     v.GetString("TIMEZONE"),
		CheckTimeout: parseDuration(v.GetString("AVAILABILITY_TIMEOUT"), 5*time.Second),
	}

	cfg.Agenda = AgendaConfig{
		CacheEnabled: v.GetBool("AGENDA_CACHE_ENABLED"),
		CacheTTL:     parseDuration(v.GetString("AGENDA_CACHE_TTL"), 2*time.Minute),
	}

	cfg.Events = EventsConfig{
		Enabled:             v.GetBool("EVENTS_ENABLED"),
		Brokers:             splitAndTrim(v.GetString("KAFKA_BROKERS")),
		GroupID:             v.GetString("KAFKA_GROUP_ID"),
		Topic:               v.GetString("SCHEDULE_EVENTS_TOPIC"),
		InvalidationWorkers: v.GetInt("INVALIDATION_WORKERS"),
		InvalidationRetries: v.GetInt("INVALIDATION_RETRIES"),
	}

	ratio := v.GetFloat64("OTEL_SAMPLING_RATIO")
	if ratio < 0 || ratio > 1 {
		ratio = 1
	}
	cfg.Tracing = TracingConfig{
		Enabled:      v.GetBool("OTEL_ENABLED"),
		OTLPEndpoint: v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		SampleRatio:  ratio,
	}

	cfg.Export = ExportConfig{PDFFontPath: v.GetString("EXPORT_PDF_FONT")}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("SERVICE_NAME", "tutoring-schedule-api")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "tutoring_school")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("TIMEZONE", "Asia/Bangkok")
	v.SetDefault("AVAILABILITY_TIMEOUT", "5s")

	v.SetDefault("AGENDA_CACHE_ENABLED", false)
	v.SetDefault("AGENDA_CACHE_TTL", "2m")

	v.SetDefault("EVENTS_ENABLED", false)
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_ID", "tutoring-schedule-api")
	v.SetDefault("SCHEDULE_EVENTS_TOPIC", "schedule.changed")
	v.SetDefault("INVALIDATION_WORKERS", 2)
	v.SetDefault("INVALIDATION_RETRIES", 3)

	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	v.SetDefault("OTEL_SAMPLING_RATIO", 1.0)

	v.SetDefault("EXPORT_PDF_FONT", "")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
