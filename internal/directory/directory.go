// Package directory answers who gets notified about a status page event and
// builds every subscriber-facing and operator-facing link.
package directory

import (
	"context"
	"fmt"
	"strings"

	"github.com/Krosebrook/oneuptime/internal/domain"
	"github.com/Krosebrook/oneuptime/internal/store"
)

type Directory struct {
	pages       store.StatusPageStore
	baseURL     string
	smtpDefault domain.SMTPConfig
	smsDefault  domain.SMSConfig
}

func New(pages store.StatusPageStore, baseURL string, smtpDefault domain.SMTPConfig, smsDefault domain.SMSConfig) *Directory {
	return &Directory{
		pages:       pages,
		baseURL:     strings.TrimRight(baseURL, "/"),
		smtpDefault: smtpDefault,
		smsDefault:  smsDefault,
	}
}

// ShouldNotify is the per-subscriber eligibility predicate. A subscriber is
// notified when they have not unsubscribed, the page shows the event's kind,
// and their subscription scope covers at least one affected resource.
// An empty scope means subscribed to the whole page; for maintenance events
// announced directly on a page there may be no affected resources at all, in
// which case only unscoped subscribers are notified.
func (d *Directory) ShouldNotify(sub *domain.Subscriber, affected []*domain.StatusPageResource, page *domain.StatusPage, kind domain.EventKind) bool {
	if sub.Unsubscribed {
		return false
	}
	if !page.ShowsEventKind(kind) {
		return false
	}
	if len(sub.ResourceIDs) == 0 {
		return true
	}

	scoped := make(map[string]struct{}, len(sub.ResourceIDs))
	for _, id := range sub.ResourceIDs {
		scoped[id] = struct{}{}
	}
	for _, r := range affected {
		if _, ok := scoped[r.ID]; ok {
			return true
		}
	}
	return false
}

// PageDisplayName prefers the branded page title over the internal name.
func (d *Directory) PageDisplayName(page *domain.StatusPage) string {
	if page.PageTitle != "" {
		return page.PageTitle
	}
	if page.Name != "" {
		return page.Name
	}
	return "Status Page"
}

// PageURL is the canonical public URL of a status page.
func (d *Directory) PageURL(page *domain.StatusPage) string {
	if page.PageURL != "" {
		return page.PageURL
	}
	return fmt.Sprintf("%s/status-page/%s", d.baseURL, page.ID)
}

func (d *Directory) UnsubscribeLink(pageURL, subscriberID string) string {
	return fmt.Sprintf("%s/update-subscription/%s", strings.TrimRight(pageURL, "/"), subscriberID)
}

// LogoURL builds the public image URL for the page's logo file. Empty when
// the page has no logo.
func (d *Directory) LogoURL(page *domain.StatusPage) string {
	if page.LogoFileID == "" {
		return ""
	}
	return fmt.Sprintf("%s/file/image/%s", d.baseURL, page.LogoFileID)
}

// DashboardLink points operators at the event inside the dashboard.
func (d *Directory) DashboardLink(kind domain.EventKind, projectID, eventID string) string {
	switch kind {
	case domain.EventKindScheduledMaintenance:
		return fmt.Sprintf("%s/dashboard/%s/scheduled-maintenance-events/%s", d.baseURL, projectID, eventID)
	default:
		return fmt.Sprintf("%s/dashboard/%s/incidents/%s", d.baseURL, projectID, eventID)
	}
}

func (d *Directory) FooterText(page *domain.StatusPage) string {
	if page.SubscriberEmailFooterText != "" {
		return page.SubscriberEmailFooterText
	}
	return "This is an automated email sent to you because you are subscribed to " + d.PageDisplayName(page) + "."
}

// SMTPFor resolves the page's mail server, falling back to the platform
// default when the page has none configured.
func (d *Directory) SMTPFor(ctx context.Context, page *domain.StatusPage) (domain.SMTPConfig, error) {
	if page.SMTPConfigID == "" {
		return d.smtpDefault, nil
	}
	cfg, err := d.pages.SMTPConfig(ctx, page.SMTPConfigID)
	if err != nil {
		return domain.SMTPConfig{}, fmt.Errorf("resolve smtp config for page %s: %w", page.ID, err)
	}
	return *cfg, nil
}

// SMSFor resolves the page's SMS provider, falling back to the platform
// default.
func (d *Directory) SMSFor(ctx context.Context, page *domain.StatusPage) (domain.SMSConfig, error) {
	if page.SMSConfigID == "" {
		return d.smsDefault, nil
	}
	cfg, err := d.pages.SMSConfig(ctx, page.SMSConfigID)
	if err != nil {
		return domain.SMSConfig{}, fmt.Errorf("resolve sms config for page %s: %w", page.ID, err)
	}
	return *cfg, nil
}
