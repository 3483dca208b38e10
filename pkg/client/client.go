package client

import (
	"context"
	"time"

	sqldb "homeview/pkg/db/sql"
	"homeview/pkg/events"
	"homeview/pkg/kafka"
	kafka_config "homeview/pkg/kafka/config"
	kafka_middleware "homeview/pkg/kafka/middleware"
	"homeview/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// Client holds the process-wide connections. Exactly one of Mongo and SQL is
// set, depending on the configured store driver.
type Client struct {
	Mongo        *mongo.Client
	SQL          *gorm.DB
	Events       events.Publisher
	EventMetrics *kafka_middleware.Metrics
}

func NewClient() *Client {
	return &Client{Events: events.NewNoopPublisher()}
}

func (c *Client) SetMongo(log *logger.Logger, mongoURI string, mongoConnTimeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoConnTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB", "error", err)
	}

	log.Info("Successfully connected to MongoDB")
	c.Mongo = client
}

func (c *Client) SetSQL(log *logger.Logger, opts sqldb.Options) {
	db, err := sqldb.Connect(log, opts)
	if err != nil {
		log.Fatal("Failed to connect to SQL database", "driver", opts.Driver, "error", err)
	}

	log.Info("Successfully connected to SQL database", "driver", opts.Driver)
	c.SQL = db
}

// SetEvents wires a Kafka backed publisher, or a no-op one when no brokers
// are configured.
func (c *Client) SetEvents(log *logger.Logger, cfg *kafka_config.Config, source string) {
	if cfg == nil || !cfg.Enabled() {
		c.SetNoopEvents(log)
		return
	}

	producer, err := kafka.NewProducer(cfg, log)
	if err != nil {
		log.Fatal("Failed to create Kafka producer", "error", err)
	}

	c.EventMetrics = &kafka_middleware.Metrics{}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(log))
	producer.Use(kafka_middleware.MetricsProducerMiddleware(c.EventMetrics))

	log.Info("Domain events enabled", "brokers", cfg.Brokers, "topic", cfg.Topic)
	c.Events = events.NewKafkaPublisher(producer, source, log)
}

func (c *Client) SetNoopEvents(log *logger.Logger) {
	log.Info("Domain events disabled")
	c.Events = events.NewNoopPublisher()
}

// Ping checks whichever store is connected.
func (c *Client) Ping(ctx context.Context) error {
	if c.Mongo != nil {
		return c.Mongo.Ping(ctx, nil)
	}
	if c.SQL != nil {
		return sqldb.Ping(ctx, c.SQL)
	}
	return ErrNoStore
}

func (c *Client) GracefulShutdown(log *logger.Logger) {
	if c.Events != nil {
		if err := c.Events.Close(); err != nil {
			log.Error("Failed to close event publisher", "error", err)
		}
		if c.EventMetrics != nil {
			log.Info("Event publisher closed",
				"published", c.EventMetrics.Published(),
				"failed", c.EventMetrics.Failed(),
				"avg_publish_duration", c.EventMetrics.AvgPublishDuration(),
			)
		}
	}

	if c.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := c.Mongo.Disconnect(ctx); err != nil {
			log.Error("Failed to disconnect from MongoDB", "error", err)
		} else {
			log.Info("Disconnected from MongoDB")
		}
	}

	if c.SQL != nil {
		if err := sqldb.Close(c.SQL); err != nil {
			log.Error("Failed to close SQL database", "error", err)
		} else {
			log.Info("Closed SQL database")
		}
	}
}
