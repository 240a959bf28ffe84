package domain

// StatusPage aggregates monitor health for subscribers. Only the fields the
// fan-out engine consults are modeled here.
type StatusPage struct {
	ID        string
	ProjectID string
	Name      string
	PageTitle string
	PageURL   string

	IsPublic   bool
	LogoFileID string

	ShowIncidents             bool
	ShowScheduledMaintenances bool

	// Per-page channel configuration. Empty means the platform default
	// config is used.
	SMTPConfigID string
	SMSConfigID  string

	SubscriberEmailFooterText string
}

// ShowsEventKind reports whether the page displays events of the given kind
// at all. Pages that hide a kind never notify their subscribers about it.
func (p *StatusPage) ShowsEventKind(kind EventKind) bool {
	switch kind {
	case EventKindIncident:
		return p.ShowIncidents
	case EventKindScheduledMaintenance:
		return p.ShowScheduledMaintenances
	}
	return false
}

// StatusPageResource maps one monitor onto one status page under a display
// name. Several resources may point at the same page.
type StatusPageResource struct {
	ID           string
	StatusPageID string
	MonitorID    string
	DisplayName  string
}

// Subscriber is registered on exactly one status page. Each populated
// contact field is an independent delivery channel; none populated means the
// subscriber is never dispatched to.
type Subscriber struct {
	ID           string
	StatusPageID string

	Email      string
	Phone      string
	WebhookURL string

	Unsubscribed bool

	// ResourceIDs scopes the subscription to specific status page
	// resources. Empty means subscribed to everything on the page.
	ResourceIDs []string
}

// SMTPConfig is a project-scoped mail server configuration referenced by
// status pages.
type SMTPConfig struct {
	ID        string
	ProjectID string
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// SMSConfig is a project-scoped SMS provider configuration referenced by
// status pages.
type SMSConfig struct {
	ID          string
	ProjectID   string
	ProviderURL string
	AccountSID  string
	AuthToken   string
	FromNumber  string
}
