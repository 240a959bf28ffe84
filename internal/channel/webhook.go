package channel

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Krosebrook/oneuptime/internal/domain"
	"github.com/Krosebrook/oneuptime/internal/httpclient"
)

// WebhookChannel posts a rich-text summary to a subscriber's chat incoming
// webhook (Slack-compatible payload).
type WebhookChannel struct {
	client *httpclient.Client
}

func NewWebhookChannel(client *httpclient.Client) *WebhookChannel {
	return &WebhookChannel{client: client}
}

func (c *WebhookChannel) Kind() domain.ChannelKind {
	return domain.ChannelKindWebhook
}

func (c *WebhookChannel) CanSend(sub *domain.Subscriber) bool {
	return sub.WebhookURL != ""
}

func (c *WebhookChannel) Send(ctx context.Context, job *domain.DeliveryJob) error {
	if job.Webhook == nil {
		return fmt.Errorf("delivery job %s has no webhook payload", job.ID)
	}

	payload, err := json.Marshal(map[string]string{"text": job.Webhook.Text})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	resp, err := c.client.PostJSON(ctx, job.Webhook.URL, payload)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
