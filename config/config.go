package config

import "time"

type Config struct {
	AppName                       string   `env:"APP_NAME" env-default:"fern-api"`
	Version                       string   `env:"APP_VERSION" env-default:"dev"`
	Port                          int      `env:"PORT" env-default:"3004"`
	LogLevel                      string   `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs                    bool     `env:"PRETTY_LOGS" env-default:"false"`
	HttpServerWriteTimeoutSeconds int      `env:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" env-default:"30"`
	HttpServerReadTimeoutSeconds  int      `env:"HTTP_SERVER_READ_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerIdleTimeoutSeconds  int      `env:"HTTP_SERVER_IDLE_TIMEOUT_SECONDS" env-default:"10"`
	AllowOrigins                  []string `env:"HTTP_SERVER_ALLOW_ORIGINS" env-default:"*"`
	AllowMethods                  []string `env:"HTTP_SERVER_ALLOW_METHODS" env-default:"GET,POST,PUT,DELETE"`
	StartupMaxAttempts            int      `env:"STARTUP_MAX_ATTEMPTS" env-default:"5"`

	// PostgreSQL (dataset store)
	DatabaseDriver                string        `env:"DB_DRIVER" env-default:"postgres"`
	DatabaseHost                  string        `env:"DB_HOST" env-default:""`
	DatabasePort                  string        `env:"DB_PORT" env-default:"5432"`
	DatabaseUserName              string        `env:"DB_USER_NAME" env-default:""`
	DatabasePassword              string        `env:"DB_PASSWORD" env-default:""`
	DatabaseName                  string        `env:"DB_NAME" env-default:"fern"`
	DatabaseSSLMode               string        `env:"DB_SQL_MODE" env-default:"disable"`
	DatabaseMaxOpenConns          int           `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	DatabaseMaxIdleConns          int           `env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	DatabaseConnMaxLifetime       time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"10s"`
	DatabaseMigrationFolderPath   string        `env:"DB_MIGRATION_FOLDER_PATH" env-default:"db/pg"`
	DatabaseMigrationVersion      int           `env:"DB_MIGRATION_VERSION" env-default:"0"`
	DatabaseMigrationForce        int           `env:"DB_MIGRATION_FORCE" env-default:"0"`
	DatabaseMigrationAutoRollback bool          `env:"DB_MIGRATION_AUTO_ROLLBACK" env-default:"true"`

	// Redis (CRM response cache)
	RedisHost        string        `env:"REDIS_HOST" env-default:"localhost"`
	RedisPort        int           `env:"REDIS_PORT" env-default:"6379"`
	RedisPassword    string        `env:"REDIS_PASSWORD" env-default:""`
	RedisDB          int           `env:"REDIS_DB" env-default:"0"`
	CacheEnabled     bool          `env:"CACHE_ENABLED" env-default:"true"`
	CacheTTL         time.Duration `env:"CACHE_TTL" env-default:"300s"`
	CacheFilteredTTL time.Duration `env:"CACHE_FILTERED_TTL" env-default:"60s"`

	// Upstream CRM
	CRMBaseURL            string        `env:"CRM_BASE_URL" env-default:"https://api.airtable.com/v0"`
	CRMAPIKey             string        `env:"CRM_API_KEY" env-default:""`
	CRMBaseID             string        `env:"CRM_BASE_ID" env-default:""`
	CRMTimeout            time.Duration `env:"CRM_API_TIMEOUT" env-default:"15s"`
	CRMMaxRecords         int           `env:"CRM_MAX_RECORDS" env-default:"5000"`
	CRMLeadsTable         string        `env:"CRM_LEADS_TABLE" env-default:"GHL Leads"`
	CRMLeadsDateField     string        `env:"CRM_LEADS_DATE_FIELD" env-default:"Date Created"`
	CRMCustomersTable     string        `env:"CRM_CUSTOMERS_TABLE" env-default:"POS Transactions"`
	CRMCustomersDateField string        `env:"CRM_CUSTOMERS_DATE_FIELD" env-default:"Transaction Date"`

	// Kafka consumer (streamed record ingestion)
	KafkaBrokers         []string `env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	KafkaRecordsTopic    string   `env:"KAFKA_RECORDS_TOPIC" env-default:"raw-records"`
	KafkaConsumerGroup   string   `env:"KAFKA_CONSUMER_GROUP" env-default:"fern-consumer"`
	KafkaConsumerEnabled bool     `env:"KAFKA_CONSUMER_ENABLED" env-default:"true"`

	// Tracing
	TracingEnabled      bool   `env:"TRACING_ENABLED" env-default:"false"`
	TracingOTLPEndpoint string `env:"TRACING_OTLP_ENDPOINT" env-default:"localhost:4317"`
	TracingOTLPProtocol string `env:"TRACING_OTLP_PROTOCOL" env-default:"grpc"`
	TracingInsecure     bool   `env:"TRACING_INSECURE" env-default:"true"`
}
