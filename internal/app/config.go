package app

import (
	"time"

	"github.com/yungbote/neurobridge-questionbank/internal/clients/redis"
	"github.com/yungbote/neurobridge-questionbank/internal/data/db"
	"github.com/yungbote/neurobridge-questionbank/internal/observability"
	"github.com/yungbote/neurobridge-questionbank/internal/platform/envutil"
	"github.com/yungbote/neurobridge-questionbank/internal/platform/logger"
	"github.com/yungbote/neurobridge-questionbank/internal/services"
)

type Config struct {
	Port        string
	LogMode     string
	CORSOrigins []string

	DB           db.Config
	PreviewCache redis.Config
	QuestionBank services.QuestionBankConfig
	Otel         observability.OtelConfig

	MetricsEnabled  bool
	MetricsInterval time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	serviceName := envutil.String("OTEL_SERVICE_NAME", "questionbank", log)
	return Config{
		Port:        envutil.String("PORT", "8080", log),
		LogMode:     envutil.String("LOG_MODE", "development", log),
		CORSOrigins: envutil.List("CORS_ALLOWED_ORIGINS", nil, log),
		DB: db.Config{
			Driver:           envutil.String("DB_DRIVER", db.DriverPostgres, log),
			SQLitePath:       envutil.String("SQLITE_PATH", "questionbank.db", log),
			PostgresHost:     envutil.String("POSTGRES_HOST", "localhost", log),
			PostgresPort:     envutil.String("POSTGRES_PORT", "5432", log),
			PostgresUser:     envutil.String("POSTGRES_USER", "postgres", log),
			PostgresPassword: envutil.String("POSTGRES_PASSWORD", "", log),
			PostgresName:     envutil.String("POSTGRES_NAME", "questionbank", log),
			PostgresSSLMode:  envutil.String("POSTGRES_SSLMODE", "disable", log),
			SlowThreshold:    envutil.Duration("DB_SLOW_THRESHOLD", 200*time.Millisecond, log),
		},
		PreviewCache: redis.Config{
			Addr:      envutil.String("REDIS_ADDR", "", log),
			Password:  envutil.String("REDIS_PASSWORD", "", log),
			DB:        envutil.Int("REDIS_DB", 0, log),
			KeyPrefix: envutil.String("PREVIEW_CACHE_PREFIX", "qb:preview:", log),
			TTL:       envutil.Duration("PREVIEW_CACHE_TTL", 10*time.Minute, log),
		},
		QuestionBank: services.QuestionBankConfig{
			DefaultPoints:   envutil.Int("DEFAULT_QUESTION_POINTS", 1, log),
			MaxContentBytes: envutil.Int("MAX_IMPORT_BYTES", 1<<20, log),
		},
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false, log),
			ServiceName: serviceName,
			Environment: envutil.String("OTEL_ENVIRONMENT", "development", log),
			Version:     envutil.String("OTEL_SERVICE_VERSION", "dev", log),
			SampleRatio: envutil.Float("OTEL_SAMPLE_RATIO", 1, log),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
			Headers:     envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "", log),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false, log),
		},
		MetricsEnabled:  envutil.Bool("METRICS_ENABLED", false, log),
		MetricsInterval: envutil.Duration("METRICS_SCRAPE_INTERVAL", 10*time.Second, log),
	}
}
