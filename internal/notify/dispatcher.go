package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stillpoint/breathe/internal/config"
	"github.com/stillpoint/breathe/internal/logging"
	"github.com/stillpoint/breathe/internal/model"
	"github.com/stillpoint/breathe/internal/storage"
)

// Dispatcher fans session and reminder notifications out to every
// enabled webhook, formatting each payload for the target service.
type Dispatcher struct {
	webhookRepo *storage.WebhookRepo
	httpClient  *HTTPClient
}

func NewDispatcher(webhookRepo *storage.WebhookRepo, cfg config.HTTPConfig) *Dispatcher {
	return &Dispatcher{
		webhookRepo: webhookRepo,
		httpClient:  NewHTTPClient(cfg),
	}
}

// DispatchResult is the per-webhook outcome of one delivery.
type DispatchResult struct {
	WebhookName string
	Success     bool
	StatusCode  int
	Duration    time.Duration
	Error       error
}

// SendNotification delivers n to every enabled webhook concurrently
// and returns one result per webhook. Returns nil when no webhooks
// are enabled.
func (d *Dispatcher) SendNotification(ctx context.Context, n *model.Notification) []DispatchResult {
	webhooks, err := d.webhookRepo.ListEnabled()
	if err != nil {
		return []DispatchResult{{
			WebhookName: "all",
			Error:       fmt.Errorf("list webhooks: %w", err),
		}}
	}
	if len(webhooks) == 0 {
		return nil
	}

	results := make([]DispatchResult, len(webhooks))
	var wg sync.WaitGroup
	for i, webhook := range webhooks {
		wg.Add(1)
		go func(idx int, wh *model.Webhook) {
			defer wg.Done()
			results[idx] = d.deliver(ctx, n, wh)
		}(i, webhook)
	}
	wg.Wait()

	return results
}

// deliver formats n for one webhook's service and posts it.
func (d *Dispatcher) deliver(ctx context.Context, n *model.Notification, webhook *model.Webhook) DispatchResult {
	result := DispatchResult{WebhookName: webhook.Name}

	formatter := GetFormatter(webhook.Service)
	payload, err := formatter.Format(n)
	if err != nil {
		result.Error = fmt.Errorf("format notification: %w", err)
		return result
	}

	sent := d.httpClient.Send(ctx, webhook.URL, formatter.ContentType(), payload)
	result.StatusCode = sent.StatusCode
	result.Duration = sent.Duration
	result.Error = sent.Error
	result.Success = sent.Error == nil

	if result.Error != nil {
		logging.Logger().Warn("webhook delivery failed",
			logging.KeyWebhook, webhook.Name,
			"error", result.Error,
		)
	}
	return result
}

// SendToSingle delivers n to one webhook looked up by name.
func (d *Dispatcher) SendToSingle(ctx context.Context, n *model.Notification, webhookName string) DispatchResult {
	webhook, err := d.webhookRepo.Get(webhookName)
	if err != nil {
		return DispatchResult{
			WebhookName: webhookName,
			Error:       fmt.Errorf("webhook not found: %w", err),
		}
	}
	return d.deliver(ctx, n, webhook)
}

// TestWebhook posts a canned notification so `breathe webhook test`
// can verify an endpoint before any real session completes.
func (d *Dispatcher) TestWebhook(ctx context.Context, webhookName string) DispatchResult {
	n := model.NewNotification(
		"test",
		"Breathe Test",
		"This is a test notification from Breathe. If you see this, your webhook is configured correctly!",
	)
	return d.SendToSingle(ctx, n, webhookName)
}

// HasEnabledWebhooks reports whether any delivery target exists, so
// callers can skip building notifications nobody will receive.
func (d *Dispatcher) HasEnabledWebhooks() bool {
	webhooks, err := d.webhookRepo.ListEnabled()
	if err != nil {
		return false
	}
	return len(webhooks) > 0
}
