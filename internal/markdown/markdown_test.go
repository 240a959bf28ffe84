package markdown

import (
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	got, err := ToHTML("We are **investigating** the outage.")
	if err != nil {
		t.Fatalf("ToHTML failed: %v", err)
	}
	if !strings.Contains(got, "<strong>investigating</strong>") {
		t.Errorf("expected bold markup in output, got %q", got)
	}
}

func TestToSlackText(t *testing.T) {
	in := `## Incident - Database down

**Severity:** Critical

[View Status Page](https://status.example.com)`

	got := ToSlackText(in)

	if strings.Contains(got, "##") {
		t.Errorf("heading marker survived conversion: %q", got)
	}
	if !strings.Contains(got, "*Incident - Database down*") {
		t.Errorf("expected bold heading, got %q", got)
	}
	if !strings.Contains(got, "*Severity:*") {
		t.Errorf("expected converted bold, got %q", got)
	}
	if !strings.Contains(got, "<https://status.example.com|View Status Page>") {
		t.Errorf("expected slack link, got %q", got)
	}
}
