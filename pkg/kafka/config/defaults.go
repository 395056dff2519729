package kafka_config

import "time"

const (
	DefaultKafkaBrokers = ""
	DefaultKafkaTopic   = "crm.phone-sanitizer.batches"

	// Producer defaults
	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 10 * time.Millisecond
	DefaultProducerWriteTimeout = 10 * time.Second
	DefaultProducerRequireAcks  = -1 // Require all replicas
	DefaultProducerCompression  = "snappy"
)
