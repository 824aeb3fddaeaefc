package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Publisher sends an event to a stream
type Publisher interface {
	Publish(ctx context.Context, stream string, event interface{}) error
}

// StreamPublisher publishes JSON events to Redis Streams
type StreamPublisher struct {
	client redis.Cmdable
	logger *zap.Logger
}

// NewStreamPublisher creates a new Redis stream publisher
func NewStreamPublisher(client redis.Cmdable, logger *zap.Logger) *StreamPublisher {
	return &StreamPublisher{
		client: client,
		logger: logger,
	}
}

// Publish adds event to stream under the "data" field
func (p *StreamPublisher) Publish(ctx context.Context, stream string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	_, err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to publish to stream %s: %w", stream, err)
	}

	p.logger.Debug("published event", zap.String("stream", stream))
	return nil
}
