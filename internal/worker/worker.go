package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/aescanero/scicalc/internal/config"
	"github.com/aescanero/scicalc/internal/engine"
	"github.com/aescanero/scicalc/internal/history"
)

// Evaluator runs one raw operation
type Evaluator interface {
	Evaluate(ctx context.Context, raw string) (engine.Result, error)
}

// Recorder stores evaluation outcomes
type Recorder interface {
	Record(ctx context.Context, e history.Entry) (history.Entry, error)
}

// StreamClient is the subset of the Redis client the consumer loop uses
type StreamClient interface {
	XGroupCreateMkStream(ctx context.Context, stream, group, start string) *redis.StatusCmd
	XReadGroup(ctx context.Context, a *redis.XReadGroupArgs) *redis.XStreamSliceCmd
	XAck(ctx context.Context, stream, group string, ids ...string) *redis.IntCmd
}

// Worker consumes calculation requests from a Redis stream and publishes
// their outcomes
type Worker struct {
	id            string
	redisClient   StreamClient
	evaluator     Evaluator
	publisher     Publisher
	recorder      Recorder
	logger        *zap.Logger
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	streamKey     string
	consumerGroup string
	resultStream  string
	errorStream   string
	blockTime     time.Duration
	now           func() time.Time
}

// NewWorker creates a new worker. recorder may be nil.
func NewWorker(
	cfg *config.Config,
	redisClient StreamClient,
	evaluator Evaluator,
	publisher Publisher,
	recorder Recorder,
	logger *zap.Logger,
) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	return &Worker{
		id:            cfg.WorkerID,
		redisClient:   redisClient,
		evaluator:     evaluator,
		publisher:     publisher,
		recorder:      recorder,
		logger:        logger,
		ctx:           ctx,
		cancel:        cancel,
		streamKey:     cfg.StreamKey,
		consumerGroup: cfg.ConsumerGroup,
		resultStream:  cfg.ResultStream,
		errorStream:   cfg.ResultStream + ".errors",
		blockTime:     cfg.BlockTime,
		now:           time.Now,
	}
}

// Start starts the worker
func (w *Worker) Start() error {
	w.logger.Info("starting calc worker",
		zap.String("worker_id", w.id),
		zap.String("stream_key", w.streamKey),
		zap.String("consumer_group", w.consumerGroup),
	)

	if err := w.ensureConsumerGroup(); err != nil {
		return fmt.Errorf("failed to ensure consumer group: %w", err)
	}

	w.wg.Add(1)
	go w.processWork()

	w.logger.Info("calc worker started", zap.String("worker_id", w.id))
	return nil
}

// Stop ends the read loop and waits, up to ctx, for the message being
// handled to be published and acknowledged
func (w *Worker) Stop(ctx context.Context) error {
	w.logger.Info("stopping calc worker", zap.String("worker_id", w.id))
	w.cancel()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("calc worker stopped", zap.String("worker_id", w.id))
		return nil
	case <-ctx.Done():
		return fmt.Errorf("worker did not stop: %w", ctx.Err())
	}
}

// ensureConsumerGroup creates the consumer group if it doesn't exist
func (w *Worker) ensureConsumerGroup() error {
	err := w.redisClient.XGroupCreateMkStream(w.ctx, w.streamKey, w.consumerGroup, "0").Err()
	if err != nil {
		if strings.HasPrefix(err.Error(), "BUSYGROUP") {
			w.logger.Debug("consumer group already exists",
				zap.String("group", w.consumerGroup),
			)
			return nil
		}
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	w.logger.Info("created consumer group",
		zap.String("group", w.consumerGroup),
		zap.String("stream", w.streamKey),
	)
	return nil
}

// processWork reads requests until the worker is stopped
func (w *Worker) processWork() {
	defer w.wg.Done()
	w.logger.Info("starting work processing loop")

	for {
		select {
		case <-w.ctx.Done():
			w.logger.Info("work processing loop stopped")
			return
		default:
		}

		streams, err := w.redisClient.XReadGroup(w.ctx, &redis.XReadGroupArgs{
			Group:    w.consumerGroup,
			Consumer: w.id,
			Streams:  []string{w.streamKey, ">"},
			Count:    1,
			Block:    w.blockTime,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) || w.ctx.Err() != nil {
				continue
			}
			w.logger.Error("failed to read from stream", zap.Error(err))
			select {
			case <-w.ctx.Done():
			case <-time.After(time.Second):
			}
			continue
		}

		for _, stream := range streams {
			for _, message := range stream.Messages {
				w.handleMessage(message)
			}
		}
	}
}

// handleMessage handles a single calculation request message. A message that
// has been read is always finished, even when the worker is stopping.
func (w *Worker) handleMessage(message redis.XMessage) {
	ctx := context.WithoutCancel(w.ctx)
	messageID := message.ID
	w.logger.Debug("processing calculation request", zap.String("message_id", messageID))

	request, err := parseRequest(message.Values)
	if err != nil {
		w.logger.Error("failed to parse request",
			zap.String("message_id", messageID),
			zap.Error(err),
		)
		w.acknowledgeMessage(ctx, messageID)
		return
	}

	if err := w.process(ctx, request); err != nil {
		w.logger.Error("failed to publish outcome",
			zap.String("message_id", messageID),
			zap.String("request_id", request.RequestID),
			zap.Error(err),
		)
	}

	w.acknowledgeMessage(ctx, messageID)
}

// process evaluates request and publishes its result or error event
func (w *Worker) process(ctx context.Context, request *Request) error {
	evalCtx := engine.WithOutputID(ctx, request.OutputID)
	res, err := w.evaluate(evalCtx, request.Operation)
	w.record(ctx, request, res, err)

	if err != nil {
		event := newErrorEvent(w.id, request, err, w.now())
		w.logger.Info("calculation failed",
			zap.String("request_id", request.RequestID),
			zap.String("error_kind", event.ErrorKind),
		)
		return w.publisher.Publish(ctx, w.errorStream, event)
	}

	w.logger.Info("calculation completed",
		zap.String("request_id", request.RequestID),
		zap.String("operator", res.Operator),
	)
	return w.publisher.Publish(ctx, w.resultStream, newResultEvent(w.id, request, res, w.now()))
}

// evaluate runs the evaluator, turning a panic into an unexpected error
func (w *Worker) evaluate(ctx context.Context, raw string) (res engine.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("evaluation panicked", zap.Any("panic", r), zap.String("operation", raw))
			res, err = engine.Result{}, fmt.Errorf("panic during evaluation: %v", r)
		}
	}()
	return w.evaluator.Evaluate(ctx, raw)
}

func (w *Worker) record(ctx context.Context, request *Request, res engine.Result, evalErr error) {
	if w.recorder == nil {
		return
	}

	entry := history.EntryFor(request.Operation, res, evalErr)
	if _, err := w.recorder.Record(ctx, entry); err != nil {
		w.logger.Warn("failed to record history", zap.Error(err))
	}
}

// acknowledgeMessage acknowledges a message from the stream
func (w *Worker) acknowledgeMessage(ctx context.Context, messageID string) {
	err := w.redisClient.XAck(ctx, w.streamKey, w.consumerGroup, messageID).Err()
	if err != nil {
		w.logger.Error("failed to acknowledge message",
			zap.String("message_id", messageID),
			zap.Error(err),
		)
	}
}
