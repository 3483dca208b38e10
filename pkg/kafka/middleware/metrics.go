package kafka_middleware

import (
	"context"
	"sync/atomic"
	"time"

	"homeview/pkg/kafka"
)

type Metrics struct {
	MessagesPublished       int64
	MessagesPublishedFailed int64
	PublishDurationTotal    int64 // nanoseconds
}

func (m *Metrics) Reset() {
	atomic.StoreInt64(&m.MessagesPublished, 0)
	atomic.StoreInt64(&m.MessagesPublishedFailed, 0)
	atomic.StoreInt64(&m.PublishDurationTotal, 0)
}

func (m *Metrics) Published() int64 {
	return atomic.LoadInt64(&m.MessagesPublished)
}

func (m *Metrics) Failed() int64 {
	return atomic.LoadInt64(&m.MessagesPublishedFailed)
}

func (m *Metrics) AvgPublishDuration() time.Duration {
	published := atomic.LoadInt64(&m.MessagesPublished)
	if published == 0 {
		return 0
	}
	return time.Duration(atomic.LoadInt64(&m.PublishDurationTotal) / published)
}

func MetricsProducerMiddleware(m *Metrics) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)
		if err != nil {
			atomic.AddInt64(&m.MessagesPublishedFailed, 1)
			return err
		}
		atomic.AddInt64(&m.MessagesPublished, 1)
		atomic.AddInt64(&m.PublishDurationTotal, int64(time.Since(start)))
		return nil
	}
}
