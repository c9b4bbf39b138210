package processors

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/hookline/notification-engine/internal/domain"
)

type capturePublisher struct {
	payloads [][]byte
	err      error
}

func (p *capturePublisher) Publish(_ context.Context, payload []byte) error {
	p.payloads = append(p.payloads, payload)
	return p.err
}

func TestEventBusProcessFallbackNotification(t *testing.T) {
	t.Parallel()

	publisher := &capturePublisher{}
	processor := NewEventBusProcessor(publisher, nil)

	action := domain.Action{
		AccountID:   "acct-1",
		Bundle:      "insights",
		Application: "policies",
		EventType:   "policy-triggered",
	}
	history, err := processor.Process(context.Background(), domain.Notification{Action: action})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !history.InvocationResult {
		t.Fatalf("expected successful publish")
	}
	if history.EndpointID != uuid.Nil {
		t.Fatalf("fallback history must not carry an endpoint id")
	}
	if len(publisher.payloads) != 1 {
		t.Fatalf("expected one published payload, got %d", len(publisher.payloads))
	}

	var decoded domain.Action
	if err := json.Unmarshal(publisher.payloads[0], &decoded); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if decoded.EventType != "policy-triggered" || decoded.Bundle != "insights" {
		t.Fatalf("payload lost action fields: %+v", decoded)
	}
}

func TestEventBusProcessPublishFailureIsFailedHistory(t *testing.T) {
	t.Parallel()

	publisher := &capturePublisher{err: errors.New("stream unavailable")}
	processor := NewEventBusProcessor(publisher, nil)

	history, err := processor.Process(context.Background(), domain.Notification{
		Action: domain.Action{AccountID: "acct-1", EventType: "policy-triggered"},
	})
	if err != nil {
		t.Fatalf("a publish failure must not surface an error, got %v", err)
	}
	if history.InvocationResult {
		t.Fatalf("expected failed invocation on publish error")
	}
}
