package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"github.com/google/uuid"

	"github.com/Krosebrook/oneuptime/internal/domain"
	"github.com/Krosebrook/oneuptime/internal/ident"
	"github.com/Krosebrook/oneuptime/internal/markdown"
)

type composeInput struct {
	note           *domain.PublicNote
	event          *domain.Event
	page           *domain.StatusPage
	subscriber     *domain.Subscriber
	channel        domain.ChannelKind
	affected       []*domain.StatusPageResource
	noteHTML       string
	pageURL        string
	unsubscribeURL string
	smtp           domain.SMTPConfig
	sms            domain.SMSConfig
}

// composeJob builds the fully rendered payload for one subscriber on one
// channel. The transport worker only moves bytes; all wording is decided
// here.
func (e *Engine) composeJob(in composeInput) (*domain.DeliveryJob, error) {
	id, err := ident.NewDeliveryJobID()
	if err != nil {
		return nil, fmt.Errorf("generate delivery job id: %w", err)
	}

	job := &domain.DeliveryJob{
		ID:           id,
		NoteID:       in.note.ID,
		Kind:         in.note.Kind,
		ProjectID:    in.note.ProjectID,
		StatusPageID: in.page.ID,
		SubscriberID: in.subscriber.ID,
		Channel:      in.channel,
		CreatedAt:    e.now(),
	}

	switch in.channel {
	case domain.ChannelKindEmail:
		msg, err := e.composeEmail(in)
		if err != nil {
			return nil, err
		}
		job.Email = msg
	case domain.ChannelKindSMS:
		job.SMS = e.composeSMS(in)
	case domain.ChannelKindWebhook:
		job.Webhook = e.composeWebhook(in)
	default:
		return nil, fmt.Errorf("unknown channel kind %q", in.channel)
	}

	return job, nil
}

// submit publishes the job to its channel subject. This is the only point
// that must complete before the pipeline moves on; delivery itself is
// asynchronous.
func (e *Engine) submit(ctx context.Context, job *domain.DeliveryJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal delivery job: %w", err)
	}
	return e.publisher.Publish(ctx, "deliveries."+string(job.Channel), data)
}

func (e *Engine) renderNoteHTML(note *domain.PublicNote) (string, error) {
	html, err := markdown.ToHTML(note.Note)
	if err != nil {
		return "", fmt.Errorf("render note body: %w", err)
	}
	return html, nil
}

func (e *Engine) composeSMS(in composeInput) *domain.SMSMessage {
	pageName := e.dir.PageDisplayName(in.page)

	text := fmt.Sprintf(`%s Update - %s

%s

%s Title: %s

To view this note, visit %s

To update notification preferences or unsubscribe, visit %s`,
		e.source.Label(), pageName,
		e.source.NoteAddedPhrase(),
		e.source.Label(), in.event.Title,
		in.pageURL,
		in.unsubscribeURL,
	)

	return &domain.SMSMessage{
		ToPhone: in.subscriber.Phone,
		Text:    text,
		SMS:     in.sms,
	}
}

func (e *Engine) composeWebhook(in composeInput) *domain.WebhookMessage {
	md := fmt.Sprintf(`## %s - %s

**%s**

**Resources Affected:** %s
**Severity:** %s

**Note:**
%s

[View Status Page](%s) | [Unsubscribe](%s)`,
		e.source.Label(), in.event.Title,
		strings.TrimSuffix(e.source.NoteAddedPhrase(), "."),
		resourceDisplayList(in.affected),
		severityLabel(in.event),
		in.note.Note,
		in.pageURL, in.unsubscribeURL,
	)

	return &domain.WebhookMessage{
		URL:  in.subscriber.WebhookURL,
		Text: markdown.ToSlackText(md),
	}
}

var emailTemplate = template.Must(template.New("subscriber-note").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif;">
	{{if .LogoURL}}<img src="{{.LogoURL}}" alt="{{.PageName}}" style="max-height: 50px;" />{{end}}
	<h1>{{.Subject}}</h1>
	<p><strong>{{.NoteAddedPhrase}}</strong></p>
	<table>
		<tr><td><strong>{{.Label}}:</strong></td><td>{{.Title}}</td></tr>
		{{if .Description}}<tr><td><strong>Description:</strong></td><td>{{.Description}}</td></tr>{{end}}
		<tr><td><strong>Severity:</strong></td><td>{{.Severity}}</td></tr>
		<tr><td><strong>Resources Affected:</strong></td><td>{{.ResourcesAffected}}</td></tr>
	</table>
	<h2>Note</h2>
	{{.NoteHTML}}
	<p><a href="{{.PageURL}}">View Status Page</a> | <a href="{{.UnsubscribeURL}}">Unsubscribe</a></p>
	<hr />
	<p style="color: #666; font-size: 12px;">{{.FooterText}}</p>
</body>
</html>`))

func (e *Engine) composeEmail(in composeInput) (*domain.EmailMessage, error) {
	subject := fmt.Sprintf("[%s Update] %s", e.source.Label(), in.event.Title)

	var body strings.Builder
	err := emailTemplate.Execute(&body, map[string]any{
		"Subject":           subject,
		"PageName":          e.dir.PageDisplayName(in.page),
		"LogoURL":           e.dir.LogoURL(in.page),
		"NoteAddedPhrase":   e.source.NoteAddedPhrase(),
		"Label":             e.source.Label(),
		"Title":             in.event.Title,
		"Description":       in.event.Description,
		"Severity":          severityLabel(in.event),
		"ResourcesAffected": resourceDisplayList(in.affected),
		"NoteHTML":          template.HTML(in.noteHTML),
		"PageURL":           in.pageURL,
		"UnsubscribeURL":    in.unsubscribeURL,
		"FooterText":        e.dir.FooterText(in.page),
	})
	if err != nil {
		return nil, fmt.Errorf("render email template: %w", err)
	}

	return &domain.EmailMessage{
		ToEmail:  in.subscriber.Email,
		Subject:  subject,
		HTMLBody: body.String(),
		SMTP:     in.smtp,
	}, nil
}

func (e *Engine) appendFeedEntry(ctx context.Context, note *domain.PublicNote, ev *domain.Event) error {
	link := e.dir.DashboardLink(e.source.Kind(), ev.ProjectID, ev.ID)

	return e.feed.Append(ctx, &domain.FeedEntry{
		ID:        uuid.New().String(),
		EventID:   ev.ID,
		Kind:      e.source.Kind(),
		ProjectID: ev.ProjectID,
		EventType: domain.FeedEventSubscriberNotificationSent,
		Markdown: fmt.Sprintf("**Notification sent to subscribers** because a public note is added to this [%s %d](%s).",
			e.source.Label(), ev.Number, link),
		MoreMarkdown:  fmt.Sprintf("**Public Note:**\n\n%s", note.Note),
		DashboardLink: link,
		CreatedAt:     e.now(),
	})
}

func resourceDisplayList(affected []*domain.StatusPageResource) string {
	if len(affected) == 0 {
		return "None"
	}
	names := make([]string, 0, len(affected))
	for _, r := range affected {
		names = append(names, r.DisplayName)
	}
	return strings.Join(names, ", ")
}

func severityLabel(ev *domain.Event) string {
	if ev.SeverityLabel == "" {
		return " - "
	}
	return ev.SeverityLabel
}
