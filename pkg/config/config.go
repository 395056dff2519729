package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"phonesanitizer/pkg/client"
	apperrors "phonesanitizer/pkg/errors"
	kafka_config "phonesanitizer/pkg/kafka/config"
	"phonesanitizer/pkg/logger"
)

var reMongoScheme = regexp.MustCompile(`^mongodb(\+srv)?://`)

type Config struct {
	MongoURI             string        `validate:"required,min=10"`
	MongoDatabaseName    string        `validate:"required"`
	MongoUsername        string        `validate:"required_with=MongoPassword"`
	MongoPassword        string        `validate:"-"`
	MongoAuthSource      string        `validate:"required_with=MongoUsername"`
	MongoConnTimeout     time.Duration `validate:"gt=0"`
	MongoUseTransactions bool

	ReadTimeout  time.Duration `validate:"gt=0"`
	WriteTimeout time.Duration `validate:"gt=0"`

	ContactsCollection string `validate:"required,excludesall=$"`
	AccountsCollection string `validate:"required,excludesall=$,nefield=ContactsCollection"`
	BatchSize          int    `validate:"min=1"`
	ContinueOnError    bool

	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=json text"`

	Kafka *kafka_config.Config `validate:"-"`

	Log    *logger.Logger `validate:"-"`
	Client *client.Client `validate:"-"`
}

// Load reads the job configuration from the environment. It does not validate:
// callers may still override values (e.g. from command-line flags) and must
// call Validate before use.
func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:             getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName:    getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoUsername:        getEnvStr(EnvMongoUsername, ""),
		MongoPassword:        getEnvStr(EnvMongoPassword, ""),
		MongoAuthSource:      getEnvStr(EnvMongoAuthSource, DefaultMongoAuthSource),
		MongoConnTimeout:     getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),
		MongoUseTransactions: getEnvBool(EnvMongoUseTransactions, DefaultMongoUseTransactions),

		ReadTimeout:  getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout: getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),

		ContactsCollection: getEnvStr(EnvContactsCollection, DefaultContactsCollection),
		AccountsCollection: getEnvStr(EnvAccountsCollection, DefaultAccountsCollection),
		BatchSize:          getEnvNum(EnvBatchSize, DefaultBatchSize),
		ContinueOnError:    getEnvBool(EnvContinueOnError, DefaultContinueOnError),

		LogLevel:  getEnvStr(EnvLogLevel, DefaultLogLevel),
		LogFormat: getEnvStr(EnvLogFormat, DefaultLogFormat),

		Kafka: kafka_config.Load(),

		Client: client.NewClient(),
	}

	cfg.Log = logger.New(logger.Config{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		AddSource: false,
		Service:   serviceName,
	})

	return cfg
}

func (cfg *Config) SetMongo() error {
	return cfg.Client.SetMongo(cfg.Log, client.MongoOptions{
		URI:         cfg.MongoURI,
		Username:    cfg.MongoUsername,
		Password:    cfg.MongoPassword,
		AuthSource:  cfg.MongoAuthSource,
		ConnTimeout: cfg.MongoConnTimeout,
	})
}

func (cfg *Config) Validate() error {
	var problems []string

	if err := validator.New().Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return apperrors.Wrap(err, apperrors.CodeInvalidConfig, "Configuration validation failed")
		}
		for _, fe := range fieldErrs {
			problems = append(problems, describe(fe))
		}
	}

	if cfg.MongoURI != "" && !reMongoScheme.MatchString(cfg.MongoURI) {
		problems = append(problems, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}

	if cfg.Kafka != nil {
		if err := cfg.Kafka.Validate(); err != nil {
			problems = append(problems, err.Error())
		}
	}

	if len(problems) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, p := range problems {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, p)
		}
		return apperrors.InvalidConfig(errMsg).WithDetails(map[string]any{"problems": len(problems)})
	}

	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s cannot be empty", fe.Field())
	case "required_with":
		return fmt.Sprintf("%s is required when %s is set", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s, got: %v", fe.Field(), fe.Param(), fe.Value())
	case "gt":
		return fmt.Sprintf("%s must be positive, got: %v", fe.Field(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got: %v", fe.Field(), fe.Param(), fe.Value())
	case "nefield":
		return fmt.Sprintf("%s must differ from %s, got: %v", fe.Field(), fe.Param(), fe.Value())
	case "excludesall":
		return fmt.Sprintf("%s must not contain any of %q, got: %v", fe.Field(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_username_set", cfg.MongoUsername != "",
		"mongo_auth_source", cfg.MongoAuthSource,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"mongo_use_transactions", cfg.MongoUseTransactions,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"contacts_collection", cfg.ContactsCollection,
		"accounts_collection", cfg.AccountsCollection,
		"batch_size", cfg.BatchSize,
		"continue_on_error", cfg.ContinueOnError,
		"events_enabled", cfg.Kafka != nil && cfg.Kafka.Enabled(),
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
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

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
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

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log, cfg.MongoConnTimeout)
}
