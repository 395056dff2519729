package events

import (
	"context"
	"fmt"
	"time"

	"phonesanitizer/internal/phones/service"
	"phonesanitizer/pkg/kafka"
)

const (
	EventBatchCommitted = "phones.batch_committed"
	SchemaVersion       = "1"

	// HeaderCollection lets consumers route on the collection without decoding the payload.
	HeaderCollection = "collection"
)

// BatchCommittedEvent is the JSON payload of a batch-committed event.
type BatchCommittedEvent struct {
	RunID       string    `json:"run_id"`
	Kind        string    `json:"kind"`
	Collection  string    `json:"collection"`
	Batch       int       `json:"batch"`
	Records     int       `json:"records"`
	CommittedAt time.Time `json:"committed_at"`
}

type messagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// Publisher turns committed batches into Kafka events.
type Publisher struct {
	producer messagePublisher
	source   string
}

func NewPublisher(producer messagePublisher, source string) *Publisher {
	return &Publisher{producer: producer, source: source}
}

func (p *Publisher) BatchCommitted(ctx context.Context, batch service.BatchCommitted) error {
	msg := kafka.NewMessage().
		WithKey(batch.Kind).
		WithValue(BatchCommittedEvent{
			RunID:       batch.RunID,
			Kind:        batch.Kind,
			Collection:  batch.Collection,
			Batch:       batch.Batch,
			Records:     batch.Records,
			CommittedAt: batch.CommittedAt,
		}).
		WithTimestamp(batch.CommittedAt).
		WithEventID("").
		WithEventType(EventBatchCommitted).
		WithCorrelationID(batch.RunID).
		WithSchemaVersion(SchemaVersion).
		WithSource(p.source).
		WithHeader(HeaderCollection, batch.Collection).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		return fmt.Errorf("publish %s batch %d: %w", batch.Kind, batch.Batch, err)
	}
	return nil
}
