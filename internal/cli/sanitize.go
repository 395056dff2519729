package cli

import (
	"github.com/spf13/cobra"

	"phonesanitizer/internal/phones/events"
	"phonesanitizer/internal/phones/repository"
	"phonesanitizer/internal/phones/service"
	"phonesanitizer/pkg/config"
	apperrors "phonesanitizer/pkg/errors"
	"phonesanitizer/pkg/kafka"
	kafka_middleware "phonesanitizer/pkg/kafka/middleware"
	"phonesanitizer/pkg/model"
)

func connect(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg.LogConfiguration()

	if err := cfg.SetMongo(); err != nil {
		return apperrors.StoreUnavailable("connect", cfg.MongoDatabaseName, err)
	}
	return nil
}

func runSanitize(cmd *cobra.Command, cfg *config.Config) error {
	if err := connect(cfg); err != nil {
		return err
	}
	defer cfg.GracefulShutdown()

	notifier, closeNotifier, err := newNotifier(cfg)
	if err != nil {
		return err
	}
	defer closeNotifier()

	job := service.NewJob(
		repository.NewMongoStore(cfg, model.ContactType(cfg.ContactsCollection)),
		repository.NewMongoStore(cfg, model.AccountType(cfg.AccountsCollection)),
		service.JobOptions{
			BatchSize:       cfg.BatchSize,
			ContinueOnError: cfg.ContinueOnError,
			Log:             cfg.Log,
			Audit:           cmd.OutOrStdout(),
			Notifier:        notifier,
		},
	)

	_, err = job.Run(cmd.Context())
	return err
}

// newNotifier returns a nil Notifier when no brokers are configured.
func newNotifier(cfg *config.Config) (service.Notifier, func(), error) {
	if cfg.Kafka == nil || !cfg.Kafka.Enabled() {
		return nil, func() {}, nil
	}

	producer, err := kafka.NewProducer(cfg.Kafka, cfg.Log)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.CodeInvalidConfig, "Kafka producer cannot be created")
	}

	metrics := &kafka_middleware.Metrics{}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	producer.Use(metrics.Middleware())

	closeFn := func() {
		stats := metrics.Snapshot()
		cfg.Log.Info("Batch events summary",
			"topic", producer.Topic(),
			"published", stats.Published,
			"failed", stats.Failed,
			"avg_publish_duration", stats.AvgPublishDuration,
		)
		if err := producer.Close(); err != nil {
			cfg.Log.Warn("Failed to close Kafka producer", "error", err)
		}
	}

	return events.NewPublisher(producer, ServiceName), closeFn, nil
}
