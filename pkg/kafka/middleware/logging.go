package kafka_middleware

import (
	"context"
	"time"

	"homeview/pkg/kafka"
	"homeview/pkg/logger"
)

// LoggingProducerMiddleware logs each publish attempt with its outcome.
func LoggingProducerMiddleware(log *logger.Logger) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()

		err := next(ctx, msg)

		args := []any{
			"topic", msg.Topic,
			"key", msg.Key,
			"event_id", msg.GetEventID(),
			"event_type", msg.GetEventType(),
			"duration", time.Since(start),
		}
		if err != nil {
			log.Error("Failed to publish message", append(args, "error", err, "transient", kafka.IsTransient(err))...)
		} else {
			log.Debug("Published message", args...)
		}

		return err
	}
}
