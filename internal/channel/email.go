package channel

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"regexp"
	"strings"

	"github.com/Krosebrook/oneuptime/internal/domain"
)

// EmailChannel sends subscriber emails over SMTP using the mail server
// carried by the job (page-level config or the platform default).
type EmailChannel struct{}

func NewEmailChannel() *EmailChannel {
	return &EmailChannel{}
}

func (c *EmailChannel) Kind() domain.ChannelKind {
	return domain.ChannelKindEmail
}

func (c *EmailChannel) CanSend(sub *domain.Subscriber) bool {
	return sub.Email != ""
}

func (c *EmailChannel) Send(ctx context.Context, job *domain.DeliveryJob) error {
	if job.Email == nil {
		return fmt.Errorf("delivery job %s has no email payload", job.ID)
	}
	msg := job.Email

	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", msg.SMTP.Host, msg.SMTP.Port)
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("dial smtp server %s: %w", addr, err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: msg.SMTP.Host}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	if msg.SMTP.Username != "" {
		auth := smtp.PlainAuth("", msg.SMTP.Username, msg.SMTP.Password, msg.SMTP.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(msg.SMTP.FromEmail); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(msg.ToEmail); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := wc.Write([]byte(BuildMIMEMessage(msg))); err != nil {
		wc.Close()
		return fmt.Errorf("write message: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("close message body: %w", err)
	}

	return client.Quit()
}

// BuildMIMEMessage renders the full RFC 5322 message: multipart/alternative
// with a plain-text fallback stripped from the HTML body.
func BuildMIMEMessage(msg *domain.EmailMessage) string {
	from := msg.SMTP.FromEmail
	if msg.SMTP.FromName != "" {
		from = fmt.Sprintf("%s <%s>", msg.SMTP.FromName, msg.SMTP.FromEmail)
	}

	boundary := "oneuptime-boundary"

	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + msg.ToEmail + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: multipart/alternative; boundary=\"" + boundary + "\"\r\n")
	b.WriteString("\r\n")
	b.WriteString("--" + boundary + "\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(stripHTMLTags(msg.HTMLBody) + "\r\n")
	b.WriteString("--" + boundary + "\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	b.WriteString(msg.HTMLBody + "\r\n")
	b.WriteString("--" + boundary + "--\r\n")
	return b.String()
}

var tagRe = regexp.MustCompile(`<[^>]*>`)

func stripHTMLTags(html string) string {
	text := tagRe.ReplaceAllString(html, "")
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = strings.ReplaceAll(text, "&amp;", "&")
	return strings.TrimSpace(text)
}
