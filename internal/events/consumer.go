// Package events consumes schedule-change notifications and turns them into
// agenda cache invalidation jobs.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
	"github.com/noah-isme/tutoring-schedule-api/pkg/config"
)

const readRetryDelay = time.Second

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Enqueuer accepts schedule changes for asynchronous processing.
type Enqueuer interface {
	Enqueue(change models.ScheduleChange) (string, error)
}

// Consumer reads schedule-change messages from Kafka.
type Consumer struct {
	reader     messageReader
	queue      Enqueuer
	logger     *zap.Logger
	tracer     trace.Tracer
	retryDelay time.Duration
}

// NewConsumer builds a consumer-group reader for the configured topic.
func NewConsumer(cfg config.EventsConfig, queue Enqueuer, logger *zap.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return newConsumer(reader, queue, logger)
}

func newConsumer(reader messageReader, queue Enqueuer, logger *zap.Logger) *Consumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consumer{
		reader:     reader,
		queue:      queue,
		logger:     logger,
		tracer:     otel.Tracer("github.com/noah-isme/tutoring-schedule-api/internal/events"),
		retryDelay: readRetryDelay,
	}
}

// Run consumes until ctx is cancelled, then closes the reader.
func (c *Consumer) Run(ctx context.Context) {
	defer func() {
		if err := c.reader.Close(); err != nil {
			c.logger.Warn("kafka reader close failed", zap.Error(err))
		}
	}()

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("kafka read error", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.retryDelay):
			}
			continue
		}
		c.consume(ctx, msg)
	}
}

func (c *Consumer) consume(ctx context.Context, msg kafka.Message) {
	ctx = otel.GetTextMapPropagator().Extract(ctx, headerCarrier{headers: &msg.Headers})
	_, span := c.tracer.Start(ctx, "kafka.consume", trace.WithAttributes(
		attribute.String("messaging.system", "kafka"),
		attribute.String("messaging.destination", msg.Topic),
		attribute.Int64("messaging.kafka.offset", msg.Offset),
	))
	defer span.End()

	change, err := Decode(msg)
	if err != nil {
		c.logger.Warn("skipping undecodable schedule change", zap.String("topic", msg.Topic), zap.Int64("offset", msg.Offset), zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode failed")
		return
	}

	jobID, err := c.queue.Enqueue(change)
	if err != nil {
		c.logger.Error("failed to enqueue invalidation", zap.String("branch_id", change.BranchID), zap.String("date", change.Date), zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "enqueue failed")
		return
	}
	c.logger.Debug("schedule change queued", zap.String("job_id", jobID), zap.String("type", change.Type))
}

// Decode parses a message body; the event type falls back to the event_type
// header and then the topic.
func Decode(msg kafka.Message) (models.ScheduleChange, error) {
	var change models.ScheduleChange
	if len(msg.Value) == 0 {
		return change, errors.New("empty message")
	}
	if err := json.Unmarshal(msg.Value, &change); err != nil {
		return change, fmt.Errorf("decode schedule change: %w", err)
	}
	if change.Type == "" {
		change.Type = headerValue(msg.Headers, "event_type")
	}
	if change.Type == "" {
		change.Type = msg.Topic
	}
	return change, nil
}
