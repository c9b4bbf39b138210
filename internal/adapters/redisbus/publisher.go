package redisbus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/hookline/notification-engine/internal/domain"
)

// StreamPublisher appends payloads to one named stream.
type StreamPublisher struct {
	client *redis.Client
	stream string
}

func NewStreamPublisher(client *redis.Client, stream string) *StreamPublisher {
	return &StreamPublisher{client: client, stream: stream}
}

func (p *StreamPublisher) Publish(ctx context.Context, payload []byte) error {
	err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{"payload": payload},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	return nil
}

// MailSender pushes rendered mail requests onto the mail stream for the
// downstream mailer to pick up.
type MailSender struct {
	client *redis.Client
	stream string
}

func NewMailSender(client *redis.Client, stream string) *MailSender {
	return &MailSender{client: client, stream: stream}
}

func (s *MailSender) Send(ctx context.Context, recipients []string, action domain.Action) error {
	payload, err := json.Marshal(action)
	if err != nil {
		return fmt.Errorf("marshal action: %w", err)
	}
	err = s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{
			"recipients": strings.Join(recipients, ","),
			"payload":    payload,
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", s.stream, err)
	}
	return nil
}
