package email

import (
	"fmt"
	"html"
	"net/mail"
	"strings"
)

const testBannerTemplate = `<div style="background:#fff3cd;border:1px solid #ffc107;color:#856404;padding:12px;margin-bottom:16px;font-family:sans-serif;font-size:14px;">` +
	`<strong>TEST MODE</strong>: this email was meant for <strong>%s</strong>.</div>`

// applyTestMode redirects msg to the authorized test address while the
// sending domain is unverified. The original recipient is kept visible in
// the subject and body.
func applyTestMode(msg *outgoing, settings Settings) {
	if !settings.TestModeActive || settings.TestRecipient == "" {
		return
	}
	if strings.EqualFold(bareAddress(msg.To), bareAddress(settings.TestRecipient)) {
		return
	}

	original := msg.To
	msg.TestMode = true
	msg.To = settings.TestRecipient
	msg.Subject = fmt.Sprintf("[TEST → %s] %s", original, msg.Subject)
	msg.HTML = fmt.Sprintf(testBannerTemplate, html.EscapeString(original)) + msg.HTML
	if msg.Text != "" {
		msg.Text = fmt.Sprintf("TEST MODE: this email was meant for %s.\n\n%s", original, msg.Text)
	}
}

// bareAddress drops any display name, so "QA <qa@plana.com>" and
// "qa@plana.com" compare equal.
func bareAddress(addr string) string {
	parsed, err := mail.ParseAddress(addr)
	if err != nil {
		return strings.TrimSpace(addr)
	}
	return parsed.Address
}
