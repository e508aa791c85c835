package email

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
)

// SDKClient is the provider library surface used by the first strategy.
type SDKClient interface {
	Send(ctx context.Context, req *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendSDK adapts the Resend Go client to SDKClient.
type ResendSDK struct {
	client *resend.Client
}

// NewResendSDK builds an SDK client. An empty endpoint keeps the library's
// default base URL.
func NewResendSDK(apiKey, endpoint string, timeout time.Duration) (*ResendSDK, error) {
	client := resend.NewCustomClient(&http.Client{Timeout: timeout}, apiKey)
	if endpoint != "" {
		base, err := url.Parse(strings.TrimRight(endpoint, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parse resend endpoint: %w", err)
		}
		client.BaseURL = base
	}
	return &ResendSDK{client: client}, nil
}

func (r *ResendSDK) Send(ctx context.Context, req *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	return r.client.Emails.SendWithContext(ctx, req)
}

// sendViaSDK makes up to sdkAttempts calls, sleeping base*attempt between
// them. On success the result carries the attempt that succeeded.
func (s *Service) sendViaSDK(ctx context.Context, msg outgoing) (SendResult, int, error) {
	maxAttempts := s.settings.sdkAttempts()
	params := &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}

	var lastErr error
	attempt := 0
	for attempt < maxAttempts {
		attempt++
		s.trace("SDK attempt", map[string]interface{}{
			"attempt":     attempt,
			"maxAttempts": maxAttempts,
		})

		resp, err := s.callSDK(ctx, params)
		if err == nil {
			return msg.stamp(SendResult{
				Success:  true,
				ID:       resp.Id,
				Provider: ProviderSDK,
				Attempts: attempt,
			}), attempt, nil
		}
		lastErr = err

		s.logger.Warn(s.tag("SDK send attempt failed"), map[string]interface{}{
			"attempt": attempt,
			"error":   err.Error(),
		})

		if attempt < maxAttempts {
			delay := s.settings.RetryBaseDelay * time.Duration(attempt)
			if err := s.sleep(ctx, delay); err != nil {
				return SendResult{}, attempt, err
			}
		}
	}

	return SendResult{}, attempt, lastErr
}

// callSDK converts a panic inside the library into an ordinary failure.
func (s *Service) callSDK(ctx context.Context, params *resend.SendEmailRequest) (resp *resend.SendEmailResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sdk panic: %v", r)
		}
	}()

	resp, err = s.sdk.Send(ctx, params)
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.Id == "" {
		return nil, fmt.Errorf("sdk returned no message id")
	}
	return resp, nil
}
