package email

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

type apiEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text,omitempty"`
}

type apiEmailResponse struct {
	ID string `json:"id"`
}

type apiErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Name       string `json:"name"`
	Message    string `json:"message"`
	Error      string `json:"error"`
}

// sendViaHTTP posts directly to the provider REST API. Failures are handed to
// providerFailure, which applies the downgrade policy.
func (s *Service) sendViaHTTP(ctx context.Context, msg outgoing, attempts int) SendResult {
	url := s.settings.endpointURL()
	s.trace("sending via HTTP API", map[string]interface{}{"url": url})

	headers := map[string]string{
		"Authorization": "Bearer " + s.settings.APIKey,
	}
	payload := apiEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
	}

	resp, err := s.http.PostJSON(ctx, url, headers, payload)
	if err != nil {
		return s.providerFailure(ctx, msg, attempts, ReasonNetworkError, err.Error())
	}

	if !resp.OK() {
		detail := providerMessage(resp.Body)
		if detail == "" {
			detail = fmt.Sprintf("provider responded with status %d", resp.StatusCode)
		}
		return s.providerFailure(ctx, msg, attempts, classifyProviderError(detail), detail)
	}

	var out apiEmailResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil || out.ID == "" {
		return s.providerFailure(ctx, msg, attempts, ReasonProviderError, "provider response did not include a message id")
	}

	return msg.stamp(SendResult{
		Success:  true,
		ID:       out.ID,
		Provider: ProviderHTTP,
		Attempts: attempts,
	})
}

// providerFailure turns a failed HTTP send into either a degraded simulated
// success or a hard failure, depending on policy.
func (s *Service) providerFailure(ctx context.Context, msg outgoing, attempts int, reason Reason, detail string) SendResult {
	s.logger.Warn(s.tag("HTTP API send failed"), map[string]interface{}{
		"reason": string(reason),
		"error":  detail,
	})

	if s.settings.DowngradeProviderErrors {
		return s.simulate(ctx, msg, simulation{
			reason:   reason,
			detail:   detail,
			degraded: true,
			attempts: attempts,
		})
	}

	return msg.stamp(SendResult{
		Success:  false,
		Provider: ProviderHTTP,
		Attempts: attempts,
		Error:    detail,
		Reason:   reason,
	})
}

// providerMessage extracts the human readable part of an error body, falling
// back to the raw body.
func providerMessage(body []byte) string {
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if apiErr.Error != "" {
			return apiErr.Error
		}
	}
	return strings.TrimSpace(string(body))
}

func classifyProviderError(message string) Reason {
	m := strings.ToLower(message)
	switch {
	case strings.Contains(m, "domain is not verified"), strings.Contains(m, "verify a domain"):
		return ReasonDomainNotVerified
	case strings.Contains(m, "api key is invalid"):
		return ReasonInvalidAPIKey
	case strings.Contains(m, "only send testing emails"):
		return ReasonTestingRecipientsOnly
	default:
		return ReasonProviderError
	}
}
