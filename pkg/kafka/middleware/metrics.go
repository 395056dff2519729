package kafka_middleware

import (
	"context"
	"sync/atomic"
	"time"

	"phonesanitizer/pkg/kafka"
)

// Metrics holds publish counters for one producer
type Metrics struct {
	published     atomic.Int64
	failed        atomic.Int64
	durationTotal atomic.Int64 // Nanoseconds
}

// MetricsSnapshot is a point-in-time copy of Metrics
type MetricsSnapshot struct {
	Published          int64
	Failed             int64
	AvgPublishDuration time.Duration
}

// Middleware counts every publish attempt routed through it
func (m *Metrics) Middleware() kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)
		m.durationTotal.Add(int64(time.Since(start)))

		if err != nil {
			m.failed.Add(1)
			return err
		}
		m.published.Add(1)
		return nil
	}
}

// Snapshot returns the current counters
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Published: m.published.Load(),
		Failed:    m.failed.Load(),
	}
	if attempts := s.Published + s.Failed; attempts > 0 {
		s.AvgPublishDuration = time.Duration(m.durationTotal.Load() / attempts)
	}
	return s
}
