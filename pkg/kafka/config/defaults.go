package kafka_config

import "time"

const (
	DefaultKafkaBrokers   = ""
	DefaultEventsTopic    = "homeview.events"
	DefaultEventsDLQTopic = ""

	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 10 * time.Millisecond
	DefaultProducerRequireAcks  = -1
	DefaultProducerCompression  = "snappy"
	DefaultProducerAsync        = false
)
