package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite = "sqlite3"
	DriverMySQL  = "mysql"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	// Database Configuration
	DBDriver   string
	SQLitePath string
	MySQLDSN   string
	SeedData   bool
	// CORS Configuration
	CORSAllowedOrigin string
	// Redis Configuration (optional - idempotency store)
	UseRedis       bool
	RedisHost      string
	RedisPort      string
	RedisPassword  string
	RedisDB        int
	IdempotencyTTL int // seconds
	// Kafka Configuration (optional - domain events)
	UseKafka            bool
	KafkaBrokers        []string
	KafkaTopicCatalog   string
	KafkaTopicInventory string
	KafkaClientID       string
	KafkaAcks           string
	KafkaRetries        int
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Parse Kafka brokers (comma-separated)
	kafkaBrokersStr := getEnv("KAFKA_BROKERS", "localhost:9093")
	kafkaBrokers := strings.Split(kafkaBrokersStr, ",")
	for i, broker := range kafkaBrokers {
		kafkaBrokers[i] = strings.TrimSpace(broker)
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", ""),
		// Database Configuration
		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		SQLitePath: getEnv("SQLITE_PATH", "./stock.db"),
		MySQLDSN:   getEnv("MYSQL_DSN", "root:root@tcp(localhost:3306)/stock"),
		SeedData:   getEnvAsBool("SEED_DATA", true),
		// CORS Configuration
		CORSAllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "http://localhost:5173"),
		// Redis Configuration (optional)
		UseRedis:       getEnvAsBool("USE_REDIS", false),
		RedisHost:      getEnv("REDIS_HOST", "localhost"),
		RedisPort:      getEnv("REDIS_PORT", "6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvAsInt("REDIS_DB", 0),
		IdempotencyTTL: getEnvAsInt("IDEMPOTENCY_TTL", 300), // 5 minutes default
		// Kafka Configuration (optional)
		UseKafka:            getEnvAsBool("USE_KAFKA", false),
		KafkaBrokers:        kafkaBrokers,
		KafkaTopicCatalog:   getEnv("KAFKA_TOPIC_CATALOG", "stock.catalog"),
		KafkaTopicInventory: getEnv("KAFKA_TOPIC_INVENTORY", "stock.inventory"),
		KafkaClientID:       getEnv("KAFKA_CLIENT_ID", "stock-service"),
		KafkaAcks:           getEnv("KAFKA_ACKS", "all"),
		KafkaRetries:        getEnvAsInt("KAFKA_RETRIES", 3),
	}
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return strings.ToLower(value) == "true" || value == "1"
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return result
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
