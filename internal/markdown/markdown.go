package markdown

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// ToHTML renders a note body from markdown to HTML for email templates.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

var (
	headingRe = regexp.MustCompile(`(?m)^#{1,6}\s+(.*)$`)
	boldRe    = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	linkRe    = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
)

// ToSlackText converts standard markdown to Slack's mrkdwn dialect: headings
// and **bold** become *bold*, [text](url) becomes <url|text>.
func ToSlackText(source string) string {
	out := headingRe.ReplaceAllString(source, "*$1*")
	out = boldRe.ReplaceAllString(out, "*$1*")
	out = linkRe.ReplaceAllString(out, "<$2|$1>")
	return strings.TrimSpace(out)
}
