package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"homeview/pkg/client"
	sqldb "homeview/pkg/db/sql"
	kafka_config "homeview/pkg/kafka/config"
	"homeview/pkg/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string

	StoreDriver string

	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	SQLDSN           string
	SQLMaxOpenConns  int
	SQLSlowThreshold time.Duration

	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	EventsEnabled bool
	Kafka         *kafka_config.Config

	Log    *logger.Logger
	Client *client.Client
}

// Load reads the optional dotenv file, then the environment. Variables
// already present in the environment win over the file.
func Load(serviceName string) *Config {
	dotenvErr := loadDotenv()

	cfg := &Config{
		ServiceName: serviceName,

		StoreDriver: strings.ToLower(getEnvStr(EnvStoreDriver, DefaultStoreDriver)),

		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		SQLDSN:           getEnvStr(EnvSQLDSN, DefaultSQLDSN),
		SQLMaxOpenConns:  getEnvNum(EnvSQLMaxOpenConns, DefaultSQLMaxOpenConns),
		SQLSlowThreshold: getEnvDuration(EnvSQLSlowThreshold, DefaultSQLSlowThreshold),

		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		EventsEnabled: getEnvBool(EnvEventsEnabled, DefaultEventsEnabled),
		Kafka:         kafka_config.Load(),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, logger.INFO),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if dotenvErr != nil {
		cfg.Log.Warn("Failed to load dotenv file", "error", dotenvErr)
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func loadDotenv() error {
	path := getEnvStr(EnvDotenvPath, DefaultDotenvPath)
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}

func (cfg *Config) IsMongo() bool {
	return cfg.StoreDriver == StoreDriverMongo
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) SetSQL() {
	cfg.Client.SetSQL(cfg.Log, sqldb.Options{
		Driver:        cfg.StoreDriver,
		DSN:           cfg.SQLDSN,
		MaxOpenConns:  cfg.SQLMaxOpenConns,
		SlowThreshold: cfg.SQLSlowThreshold,
	})
}

// SetStore connects the backend selected by STORE_DRIVER.
func (cfg *Config) SetStore() {
	if cfg.IsMongo() {
		cfg.SetMongo()
		return
	}
	cfg.SetSQL()
}

func (cfg *Config) SetEvents() {
	if !cfg.EventsEnabled {
		cfg.Client.SetNoopEvents(cfg.Log)
		return
	}
	cfg.Client.SetEvents(cfg.Log, cfg.Kafka, cfg.ServiceName)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	switch {
	case cfg.StoreDriver == StoreDriverMongo:
		if cfg.MongoURI == "" {
			errors = append(errors, "MongoURI cannot be empty")
		} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
			errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
		}
		if cfg.MongoDatabaseName == "" {
			errors = append(errors, "MongoDatabaseName cannot be empty")
		}
		if cfg.MongoConnTimeout <= 0 {
			errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
		}
	case sqldb.IsSupportedDriver(cfg.StoreDriver):
		if cfg.SQLDSN == "" {
			errors = append(errors, fmt.Sprintf("SQLDSN cannot be empty when StoreDriver is %s", cfg.StoreDriver))
		}
		if cfg.SQLMaxOpenConns <= 0 {
			errors = append(errors, fmt.Sprintf("SQLMaxOpenConns must be positive, got: %d", cfg.SQLMaxOpenConns))
		}
	default:
		errors = append(errors, fmt.Sprintf("StoreDriver must be one of [%s, %s], got: %s",
			StoreDriverMongo, strings.Join(sqldb.Drivers, ", "), cfg.StoreDriver))
	}

	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.Kafka != nil {
		errors = append(errors, cfg.Kafka.Validate()...)
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	args := []any{
		"store_driver", cfg.StoreDriver,
		"port", cfg.Port,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"events_enabled", cfg.EventsEnabled,
	}
	if cfg.IsMongo() {
		args = append(args,
			"mongo_uri", redactMongoURI(cfg.MongoURI),
			"mongo_database", cfg.MongoDatabaseName,
			"mongo_conn_timeout", cfg.MongoConnTimeout,
		)
	} else {
		args = append(args,
			"sql_dsn", redactDSN(cfg.SQLDSN),
			"sql_max_open_conns", cfg.SQLMaxOpenConns,
			"sql_slow_threshold", cfg.SQLSlowThreshold,
		)
	}
	if cfg.Kafka != nil && cfg.Kafka.Enabled() {
		args = append(args,
			"kafka_brokers", cfg.Kafka.Brokers,
			"events_topic", cfg.Kafka.Topic,
			"events_dlq_topic", cfg.Kafka.DLQ,
		)
	}
	cfg.Log.Info("Configuration loaded successfully", args...)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

var (
	urlCredentialRegex = regexp.MustCompile(`(://)[^:/@]+:[^@]+@`)
	kvPasswordRegex    = regexp.MustCompile(`(?i)(password=)[^\s;&]+`)
	mysqlCredentials   = regexp.MustCompile(`^[^:/@]+:[^@]+@`)
)

// redactDSN hides passwords in URL, key/value and mysql style DSNs.
func redactDSN(dsn string) string {
	if strings.Contains(dsn, "://") {
		return urlCredentialRegex.ReplaceAllString(dsn, "${1}***:***@")
	}
	dsn = kvPasswordRegex.ReplaceAllString(dsn, "${1}***")
	return mysqlCredentials.ReplaceAllString(dsn, "***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = DefaultPageSize
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
