package kafka_config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the settings of the batch-event producer
type Config struct {
	Brokers []string
	Topic   string

	ProducerMaxAttempts  int
	ProducerBatchTimeout time.Duration
	ProducerWriteTimeout time.Duration
	ProducerRequireAcks  int    // -1 = all, 0 = none, 1 = leader only
	ProducerCompression  string // "none", "gzip", "snappy", "lz4", "zstd"
}

// Load creates a Kafka config from environment variables
func Load() *Config {
	return &Config{
		Brokers: ParseBrokers(getEnvStr(EnvKafkaBrokers, DefaultKafkaBrokers)),
		Topic:   getEnvStr(EnvKafkaTopic, DefaultKafkaTopic),

		ProducerMaxAttempts:  getEnvInt(EnvKafkaProducerMaxAttempts, DefaultProducerMaxAttempts),
		ProducerBatchTimeout: getEnvDuration(EnvKafkaProducerBatchTimeout, DefaultProducerBatchTimeout),
		ProducerWriteTimeout: getEnvDuration(EnvKafkaProducerWriteTimeout, DefaultProducerWriteTimeout),
		ProducerRequireAcks:  getEnvInt(EnvKafkaProducerRequireAcks, DefaultProducerRequireAcks),
		ProducerCompression:  getEnvStr(EnvKafkaProducerCompression, DefaultProducerCompression),
	}
}

// ParseBrokers splits a comma-separated broker list, dropping blanks
func ParseBrokers(s string) []string {
	var brokers []string
	for _, broker := range strings.Split(s, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	return brokers
}

// Enabled reports whether batch events should be published at all
func (cfg *Config) Enabled() bool {
	return len(cfg.Brokers) > 0
}

// Validate validates the Kafka configuration; a disabled config is always valid
func (cfg *Config) Validate() error {
	if !cfg.Enabled() {
		return nil
	}

	var errors []string

	if cfg.Topic == "" {
		errors = append(errors, "Kafka topic cannot be empty when brokers are set")
	}

	if cfg.ProducerMaxAttempts <= 0 {
		errors = append(errors, fmt.Sprintf("ProducerMaxAttempts must be positive, got: %d", cfg.ProducerMaxAttempts))
	}

	if cfg.ProducerBatchTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ProducerBatchTimeout must be positive, got: %s", cfg.ProducerBatchTimeout))
	}

	if cfg.ProducerWriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ProducerWriteTimeout must be positive, got: %s", cfg.ProducerWriteTimeout))
	}

	validCompressions := map[string]bool{
		"none": true, "gzip": true, "snappy": true, "lz4": true, "zstd": true,
	}
	if !validCompressions[cfg.ProducerCompression] {
		errors = append(errors, fmt.Sprintf("ProducerCompression must be one of [none, gzip, snappy, lz4, zstd], got: %s", cfg.ProducerCompression))
	}

	validAcks := map[int]bool{-1: true, 0: true, 1: true}
	if !validAcks[cfg.ProducerRequireAcks] {
		errors = append(errors, fmt.Sprintf("ProducerRequireAcks must be -1, 0, or 1, got: %d", cfg.ProducerRequireAcks))
	}

	if len(errors) > 0 {
		return fmt.Errorf("kafka: %s", strings.Join(errors, "; "))
	}

	return nil
}

// Helper functions (private)

func getEnvStr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
