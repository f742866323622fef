package redis

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dreschagin/call-analytics-dashboard/internal/domain/entity"
	"github.com/dreschagin/call-analytics-dashboard/internal/domain/service"
	"github.com/dreschagin/call-analytics-dashboard/pkg/logger"
)

// Config holds stream consumer settings.
type Config struct {
	ConversationsStream string
	ErrorsStream        string
	ReadBlock           time.Duration
	ReadCount           int64
	BackoffMin          time.Duration
	BackoffMax          time.Duration
}

// streamReader is the subset of the go-redis client the consumer uses.
// Narrowed for testability.
type streamReader interface {
	XRead(ctx context.Context, a *redis.XReadArgs) *redis.XStreamSliceCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// runState models the consumer lifecycle: connecting -> connected,
// with backoff between reconnect attempts and stopped on cancellation.
type runState int

const (
	stateConnecting runState = iota
	stateConnected
	stateBackoff
	stateStopped
)

// Consumer reads call-lifecycle and error entries from two Redis Streams
// and forwards decoded events to the metrics aggregator. Transport failures
// are recovered locally with capped exponential backoff; the retry count is
// unbounded because the dashboard has no fallback data source.
type Consumer struct {
	client     streamReader
	aggregator *service.MetricsAggregator
	cfg        Config
	logger     *logger.Logger

	// cursors track the last processed entry ID per stream. Entries are
	// forwarded to the aggregator before the cursor advances, so a reconnect
	// re-reads from the last acknowledged position (at-least-once).
	cursors map[string]string

	connected atomic.Bool
	attempt   int
}

// NewConsumer creates a consumer over the given Redis client.
func NewConsumer(client *redis.Client, aggregator *service.MetricsAggregator, cfg Config, log *logger.Logger) *Consumer {
	return newConsumer(client, aggregator, cfg, log)
}

func newConsumer(client streamReader, aggregator *service.MetricsAggregator, cfg Config, log *logger.Logger) *Consumer {
	if cfg.ReadBlock <= 0 {
		cfg.ReadBlock = time.Second
	}
	if cfg.ReadCount <= 0 {
		cfg.ReadCount = 10
	}
	if cfg.BackoffMin <= 0 {
		cfg.BackoffMin = 500 * time.Millisecond
	}
	if cfg.BackoffMax < cfg.BackoffMin {
		cfg.BackoffMax = 30 * time.Second
	}

	return &Consumer{
		client:     client,
		aggregator: aggregator,
		cfg:        cfg,
		logger:     log,
		// Start from the beginning so entries written before boot are replayed.
		cursors: map[string]string{
			cfg.ConversationsStream: "0-0",
			cfg.ErrorsStream:        "0-0",
		},
	}
}

// Connected reports whether the last transport operation succeeded.
// Updated in-band by the read loop; no extra probe connection.
func (c *Consumer) Connected() bool {
	return c.connected.Load()
}

// Run executes the read loop until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) {
	c.logger.Info("Stream consumer starting",
		"conversations", c.cfg.ConversationsStream,
		"errors", c.cfg.ErrorsStream,
	)

	state := stateConnecting
	for state != stateStopped {
		if ctx.Err() != nil {
			state = stateStopped
			continue
		}

		switch state {
		case stateConnecting:
			state = c.connect(ctx)
		case stateConnected:
			state = c.consume(ctx)
		case stateBackoff:
			state = c.backoff(ctx)
		}
	}

	c.connected.Store(false)
	c.logger.Info("Stream consumer stopped")
}

func (c *Consumer) connect(ctx context.Context) runState {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := c.client.Ping(pingCtx).Err(); err != nil {
		if ctx.Err() != nil {
			return stateStopped
		}
		c.connected.Store(false)
		c.logger.Error("Redis ping failed", err, "attempt", c.attempt)
		return stateBackoff
	}

	c.connected.Store(true)
	c.attempt = 0
	c.logger.Info("Connected to Redis streams", "cursors", c.cursors)
	return stateConnected
}

func (c *Consumer) consume(ctx context.Context) runState {
	args := &redis.XReadArgs{
		Streams: []string{
			c.cfg.ConversationsStream,
			c.cfg.ErrorsStream,
			c.cursors[c.cfg.ConversationsStream],
			c.cursors[c.cfg.ErrorsStream],
		},
		Count: c.cfg.ReadCount,
		Block: c.cfg.ReadBlock,
	}

	streams, err := c.client.XRead(ctx, args).Result()
	if err != nil {
		// Block timeout with no new entries: the transport is alive.
		if errors.Is(err, redis.Nil) {
			c.connected.Store(true)
			return stateConnected
		}
		if ctx.Err() != nil {
			return stateStopped
		}
		c.connected.Store(false)
		c.logger.Error("Stream read failed", err)
		return stateBackoff
	}

	c.connected.Store(true)

	for _, stream := range streams {
		for _, msg := range stream.Messages {
			c.handleEntry(stream.Stream, msg)
			// Cursor advances past malformed entries too: a bad entry is
			// skipped, never re-read in a loop.
			c.cursors[stream.Stream] = msg.ID
		}
	}

	return stateConnected
}

func (c *Consumer) backoff(ctx context.Context) runState {
	delay := c.backoffDelay()
	c.attempt++

	c.logger.Warn("Reconnecting after backoff",
		"delay", delay.String(),
		"attempt", c.attempt,
	)

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return stateStopped
	case <-timer.C:
		return stateConnecting
	}
}

// backoffDelay doubles the base delay per attempt, capped at BackoffMax,
// with up to 25% jitter to avoid synchronized reconnect storms.
func (c *Consumer) backoffDelay() time.Duration {
	delay := c.cfg.BackoffMin
	for i := 0; i < c.attempt && delay < c.cfg.BackoffMax; i++ {
		delay *= 2
	}
	if delay > c.cfg.BackoffMax {
		delay = c.cfg.BackoffMax
	}

	jitter := time.Duration(rand.Int64N(int64(delay)/4 + 1))
	return delay + jitter
}

// handleEntry decodes one stream entry and forwards it to the aggregator.
// Malformed entries are logged and skipped; they never stop the loop.
func (c *Consumer) handleEntry(stream string, msg redis.XMessage) {
	switch stream {
	case c.cfg.ConversationsStream:
		event, err := decodeCallEvent(msg.ID, msg.Values)
		if err != nil {
			c.logger.Warn("Skipping malformed conversation entry", "id", msg.ID, "reason", err.Error())
			return
		}

		switch event.Kind() {
		case entity.CallStarted:
			count := c.aggregator.RecordCallStarted(event.ConversationID(), event.Timestamp())
			c.logger.Info("Call started", "conversation_id", event.ConversationID(), "active_calls", count)
		case entity.CallEnded:
			count := c.aggregator.RecordCallEnded(event.ConversationID(), event.Timestamp())
			c.logger.Info("Call ended", "conversation_id", event.ConversationID(), "active_calls", count)
		}

	case c.cfg.ErrorsStream:
		event, err := decodeErrorEvent(msg.ID, msg.Values)
		if err != nil {
			c.logger.Warn("Skipping malformed error entry", "id", msg.ID, "reason", err.Error())
			return
		}

		c.aggregator.RecordError(event)
		c.logger.Warn("Error event recorded",
			"error_type", event.ErrorType(),
			"severity", event.Severity().String(),
		)

	default:
		c.logger.Debug("Entry from unhandled stream skipped", "stream", stream)
	}
}
