package processors

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/hookline/notification-engine/internal/domain"
)

// TokenHeader carries the endpoint's shared secret on outbound calls.
const TokenHeader = "X-Insight-Token"

// WebhookProcessor delivers notifications to webhook endpoints. Retry,
// backoff and timeout policy live here, never in the dispatcher.
type WebhookProcessor struct {
	client         *retryablehttp.Client
	insecureClient *retryablehttp.Client
	logger         *slog.Logger
	nowFn          func() time.Time
}

type WebhookConfig struct {
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

func NewWebhookProcessor(cfg WebhookConfig, logger *slog.Logger) *WebhookProcessor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RetryMax <= 0 {
		cfg.RetryMax = 3
	}
	if cfg.RetryWaitMin <= 0 {
		cfg.RetryWaitMin = 500 * time.Millisecond
	}
	if cfg.RetryWaitMax <= 0 {
		cfg.RetryWaitMax = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	build := func(insecure bool) *retryablehttp.Client {
		client := retryablehttp.NewClient()
		client.RetryMax = cfg.RetryMax
		client.RetryWaitMin = cfg.RetryWaitMin
		client.RetryWaitMax = cfg.RetryWaitMax
		client.HTTPClient.Timeout = cfg.Timeout
		client.Logger = nil
		if insecure {
			client.HTTPClient.Transport = &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			}
		}
		return client
	}

	return &WebhookProcessor{
		client:         build(false),
		insecureClient: build(true),
		logger:         logger.With("module", "processors", "layer", "adapter", "processor", "webhook"),
		nowFn:          func() time.Time { return time.Now().UTC() },
	}
}

// Process posts the action envelope to the endpoint's URL and reports the
// attempt. Non-2xx responses and transport errors produce a failed history
// record instead of an error: delivery failure is an outcome, not a fault of
// the pipeline.
func (p *WebhookProcessor) Process(ctx context.Context, notification domain.Notification) (domain.NotificationHistory, error) {
	endpoint := notification.Endpoint
	if endpoint == nil {
		return domain.NotificationHistory{}, fmt.Errorf("webhook processor requires an endpoint")
	}
	props, ok := endpoint.WebhookAttributes()
	if !ok {
		return domain.NotificationHistory{}, fmt.Errorf("endpoint %s has no webhook attributes", endpoint.ID)
	}

	payload, err := json.Marshal(notification.Action)
	if err != nil {
		return domain.NotificationHistory{}, fmt.Errorf("marshal action: %w", err)
	}

	method := strings.ToUpper(strings.TrimSpace(props.Method))
	if method == "" {
		method = http.MethodPost
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, props.URL, bytes.NewReader(payload))
	if err != nil {
		return domain.NotificationHistory{}, fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if props.SecretToken != "" {
		req.Header.Set(TokenHeader, props.SecretToken)
	}
	if props.BasicAuth != nil {
		req.SetBasicAuth(props.BasicAuth.Username, props.BasicAuth.Password)
	}

	client := p.client
	if props.DisableSSLVerification {
		client = p.insecureClient
	}

	started := p.nowFn()
	history := domain.NotificationHistory{
		AccountID:      notification.Action.AccountID,
		EndpointID:     endpoint.ID,
		InvocationTime: started,
		EventType:      notification.Action.EventType,
	}

	resp, err := client.Do(req)
	history.InvocationDuration = time.Since(started)
	if err != nil {
		history.InvocationResult = false
		history.Details = map[string]any{
			"url":    props.URL,
			"method": method,
			"error":  err.Error(),
		}
		p.logger.WarnContext(ctx, "webhook delivery failed",
			"operation", "process",
			"outcome", "failure",
			"endpoint_id", endpoint.ID,
			"error", err.Error(),
		)
		return history, nil
	}
	defer resp.Body.Close()

	history.InvocationResult = resp.StatusCode >= 200 && resp.StatusCode < 300
	if !history.InvocationResult {
		history.Details = map[string]any{
			"url":    props.URL,
			"method": method,
			"code":   resp.StatusCode,
		}
		p.logger.WarnContext(ctx, "webhook delivery rejected",
			"operation", "process",
			"outcome", "failure",
			"endpoint_id", endpoint.ID,
			"status_code", resp.StatusCode,
		)
	}
	return history, nil
}
