package email

import (
	"fmt"
	"net/mail"
	"strings"
)

func validateRequest(req SendRequest) error {
	var missing []string
	if strings.TrimSpace(req.To) == "" {
		missing = append(missing, "to")
	}
	if strings.TrimSpace(req.Subject) == "" {
		missing = append(missing, "subject")
	}
	if strings.TrimSpace(req.HTML) == "" {
		missing = append(missing, "html")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	if _, err := mail.ParseAddress(req.To); err != nil {
		return fmt.Errorf("invalid recipient address %q: %w", req.To, err)
	}
	if req.From != "" {
		if _, err := mail.ParseAddress(req.From); err != nil {
			return fmt.Errorf("invalid sender address %q: %w", req.From, err)
		}
	}
	return nil
}
