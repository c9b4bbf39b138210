package redisbus

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hookline/notification-engine/internal/domain"
)

// ActionHandler processes one decoded action envelope.
type ActionHandler interface {
	Dispatch(ctx context.Context, action domain.Action) error
}

// ActionConsumer reads action envelopes from the ingress stream with a
// consumer group and dispatches them one at a time. Sequential delivery per
// consumer preserves the per-action endpoint ordering downstream.
type ActionConsumer struct {
	client    *redis.Client
	handler   ActionHandler
	logger    *slog.Logger
	stream    string
	group     string
	consumer  string
	blockTime time.Duration
}

type ActionConsumerConfig struct {
	Stream    string
	Group     string
	Consumer  string
	BlockTime time.Duration
}

func NewActionConsumer(client *redis.Client, handler ActionHandler, cfg ActionConsumerConfig, logger *slog.Logger) *ActionConsumer {
	if cfg.BlockTime <= 0 {
		cfg.BlockTime = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ActionConsumer{
		client:    client,
		handler:   handler,
		logger:    logger.With("module", "redisbus", "layer", "adapter"),
		stream:    cfg.Stream,
		group:     cfg.Group,
		consumer:  cfg.Consumer,
		blockTime: cfg.BlockTime,
	}
}

// Run executes the consume loop until context cancellation. The consumer
// group is created on first run; a BUSYGROUP reply from a previous run is
// not an error.
func (c *ActionConsumer) Run(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.group,
			Consumer: c.consumer,
			Streams:  []string{c.stream, ">"},
			Count:    10,
			Block:    c.blockTime,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.ErrorContext(ctx, "stream read failed",
				"operation", "consume",
				"outcome", "failure",
				"stream", c.stream,
				"error", err.Error(),
			)
			time.Sleep(time.Second)
			continue
		}

		for _, stream := range streams {
			for _, message := range stream.Messages {
				c.handleMessage(ctx, message)
			}
		}
	}
}

// handleMessage decodes and dispatches one entry, then acks it. Malformed
// payloads are acked and dropped so a poison message cannot wedge the group;
// dispatch errors are also acked because the dispatcher already records
// per-endpoint failures and retrying the whole action would duplicate the
// deliveries that succeeded.
func (c *ActionConsumer) handleMessage(ctx context.Context, message redis.XMessage) {
	defer func() {
		if err := c.client.XAck(ctx, c.stream, c.group, message.ID).Err(); err != nil {
			c.logger.ErrorContext(ctx, "stream ack failed",
				"operation", "consume",
				"outcome", "failure",
				"message_id", message.ID,
				"error", err.Error(),
			)
		}
	}()

	raw, ok := message.Values["payload"].(string)
	if !ok {
		c.logger.WarnContext(ctx, "stream entry missing payload",
			"operation", "consume",
			"outcome", "failure",
			"message_id", message.ID,
		)
		return
	}

	var action domain.Action
	if err := json.Unmarshal([]byte(raw), &action); err != nil {
		c.logger.WarnContext(ctx, "malformed action dropped",
			"operation", "consume",
			"outcome", "failure",
			"message_id", message.ID,
			"error", err.Error(),
		)
		return
	}
	if action.AccountID == "" || action.Bundle == "" || action.Application == "" || action.EventType == "" {
		c.logger.WarnContext(ctx, "incomplete action dropped",
			"operation", "consume",
			"outcome", "failure",
			"message_id", message.ID,
		)
		return
	}
	if action.Timestamp.IsZero() {
		action.Timestamp = time.Now().UTC()
	}

	if err := c.handler.Dispatch(ctx, action); err != nil {
		c.logger.ErrorContext(ctx, "action dispatch failed",
			"operation", "consume",
			"outcome", "failure",
			"message_id", message.ID,
			"event_type", action.EventType,
			"error", err.Error(),
		)
	}
}
