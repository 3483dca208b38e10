package events

import (
	"context"

	"homeview/pkg/kafka"
	"homeview/pkg/logger"
	"homeview/pkg/middleware"
)

type kafkaPublisher struct {
	producer *kafka.Producer
	source   string
	log      *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, source string, log *logger.Logger) Publisher {
	return &kafkaPublisher{
		producer: producer,
		source:   source,
		log:      log,
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, eventType, aggregateID string, payload any) {
	event := newEvent(p.source, eventType, aggregateID, payload)

	msg := kafka.NewMessage().
		WithKey(aggregateID).
		WithValue(event).
		WithEventID(event.ID).
		WithEventType(eventType).
		WithSource(p.source).
		WithSchemaVersion(SchemaVersion).
		WithCorrelationID(middleware.RequestIDFromContext(ctx)).
		Build()
	if msg.Err != nil {
		p.log.Error("Failed to encode event",
			"event_type", eventType,
			"aggregate_id", aggregateID,
			"error", msg.Err,
		)
		return
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Warn("Event not delivered",
			"event_type", eventType,
			"aggregate_id", aggregateID,
			"error", err,
		)
	}
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}
