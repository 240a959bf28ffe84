package domain

import "time"

type ChannelKind string

const (
	ChannelKindEmail   ChannelKind = "email"
	ChannelKindSMS     ChannelKind = "sms"
	ChannelKindWebhook ChannelKind = "webhook"
)

// EmailMessage is a fully composed subscriber email plus the mail server it
// must be sent through.
type EmailMessage struct {
	ToEmail  string     `json:"to_email"`
	Subject  string     `json:"subject"`
	HTMLBody string     `json:"html_body"`
	SMTP     SMTPConfig `json:"smtp"`
}

// SMSMessage is a composed plain-text message plus the provider config for
// the owning status page.
type SMSMessage struct {
	ToPhone string    `json:"to_phone"`
	Text    string    `json:"text"`
	SMS     SMSConfig `json:"sms"`
}

// WebhookMessage is a chat webhook post. Text is already converted to the
// chat tool's rich-text markup.
type WebhookMessage struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// DeliveryJob is one channel submission for one subscriber, published to the
// broker by the dispatcher and delivered by the transport worker. Exactly
// one of Email/SMS/Webhook is set, matching Channel.
type DeliveryJob struct {
	ID           string      `json:"id"`
	NoteID       string      `json:"note_id"`
	Kind         EventKind   `json:"kind"`
	ProjectID    string      `json:"project_id"`
	StatusPageID string      `json:"status_page_id"`
	SubscriberID string      `json:"subscriber_id"`
	Channel      ChannelKind `json:"channel"`

	Email   *EmailMessage   `json:"email,omitempty"`
	SMS     *SMSMessage     `json:"sms,omitempty"`
	Webhook *WebhookMessage `json:"webhook,omitempty"`

	AttemptCount int       `json:"attempt_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// Destination returns the contact the job targets, for logging and attempt
// records.
func (j *DeliveryJob) Destination() string {
	switch j.Channel {
	case ChannelKindEmail:
		if j.Email != nil {
			return j.Email.ToEmail
		}
	case ChannelKindSMS:
		if j.SMS != nil {
			return j.SMS.ToPhone
		}
	case ChannelKindWebhook:
		if j.Webhook != nil {
			return j.Webhook.URL
		}
	}
	return ""
}

type DeliveryStatus string

const (
	DeliveryStatusSuccess DeliveryStatus = "SUCCESS"
	DeliveryStatusFailed  DeliveryStatus = "FAILED"
)

// DeliveryAttempt is the audit record of one transport try for one job.
type DeliveryAttempt struct {
	ID          string
	JobID       string
	NoteID      string
	Channel     ChannelKind
	Destination string
	Status      DeliveryStatus
	Error       string
	AttemptedAt time.Time
}
