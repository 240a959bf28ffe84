package channel

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Krosebrook/oneuptime/internal/domain"
	"github.com/Krosebrook/oneuptime/internal/httpclient"
)

// SMSChannel submits plain-text messages to an HTTP SMS provider using the
// provider config carried by the job.
type SMSChannel struct {
	client *httpclient.Client
}

func NewSMSChannel(client *httpclient.Client) *SMSChannel {
	return &SMSChannel{client: client}
}

func (c *SMSChannel) Kind() domain.ChannelKind {
	return domain.ChannelKindSMS
}

func (c *SMSChannel) CanSend(sub *domain.Subscriber) bool {
	return sub.Phone != ""
}

func (c *SMSChannel) Send(ctx context.Context, job *domain.DeliveryJob) error {
	if job.SMS == nil {
		return fmt.Errorf("delivery job %s has no sms payload", job.ID)
	}
	msg := job.SMS

	if msg.SMS.ProviderURL == "" {
		return fmt.Errorf("no sms provider configured")
	}

	values := url.Values{}
	values.Set("To", msg.ToPhone)
	values.Set("From", msg.SMS.FromNumber)
	values.Set("Body", msg.Text)

	resp, err := c.client.PostForm(ctx, msg.SMS.ProviderURL, values, msg.SMS.AccountSID, msg.SMS.AuthToken)
	if err != nil {
		return fmt.Errorf("submit sms: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sms provider returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
