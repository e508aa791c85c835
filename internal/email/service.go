// Package email delivers transactional email through a degrading chain of
// strategies: the Resend SDK, the Resend REST API, and a local simulation.
// Callers always get a SendResult back; nothing is returned as an error.
package email

import (
	"context"
	"time"

	commonhttp "plana-backend/internal/common/http"
	"plana-backend/internal/common/logger"
	"plana-backend/internal/common/metrics"
)

const DefaultEndpoint = "https://api.resend.com"

// HTTPPoster is the subset of the shared HTTP client the REST fallback uses.
type HTTPPoster interface {
	PostJSON(ctx context.Context, url string, headers map[string]string, payload interface{}) (*commonhttp.Response, error)
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

type ServiceDependencies struct {
	Logger logger.Logger
	// SDK is nil when the provider library is not configured.
	SDK        SDKClient
	HTTPClient HTTPPoster
	Sleep      Sleeper
	Clock      func() time.Time
}

type Service struct {
	settings Settings
	logger   logger.Logger
	sdk      SDKClient
	http     HTTPPoster
	sleep    Sleeper
	now      func() time.Time
}

func NewService(deps ServiceDependencies, settings Settings) *Service {
	s := &Service{
		settings: settings,
		logger:   deps.Logger,
		sdk:      deps.SDK,
		http:     deps.HTTPClient,
		sleep:    deps.Sleep,
		now:      deps.Clock,
	}
	if s.logger == nil {
		s.logger = logger.NewNoOpLogger()
	}
	if s.http == nil {
		s.http = commonhttp.NewClient(15 * time.Second)
	}
	if s.sleep == nil {
		s.sleep = sleepContext
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.logger = s.logger.WithFields(map[string]interface{}{
		"component": "email",
		"env":       string(settings.Mode),
	})
	return s
}

// SendTransactionalEmail runs the fallback chain for one request.
func (s *Service) SendTransactionalEmail(ctx context.Context, req SendRequest) (result SendResult) {
	start := time.Now()
	defer func() {
		s.record(result, time.Since(start))
	}()

	if err := validateRequest(req); err != nil {
		s.logger.Warn(s.tag("email request rejected"), map[string]interface{}{
			"to":    req.To,
			"error": err.Error(),
		})
		return SendResult{
			Success:  false,
			Provider: ProviderNone,
			Reason:   ReasonInvalidRequest,
			Error:    err.Error(),
		}
	}

	msg := s.prepare(req)
	s.trace("sending transactional email", map[string]interface{}{
		"to":                msg.To,
		"originalRecipient": msg.OriginalRecipient,
		"subject":           msg.Subject,
		"testMode":          msg.TestMode,
	})

	if s.settings.SimulateForced {
		return s.simulate(ctx, msg, simulation{reason: ReasonForced})
	}
	if !s.settings.HasCredential() {
		return s.simulate(ctx, msg, simulation{reason: ReasonNotConfigured})
	}

	attempts := 0
	if s.sdk != nil {
		res, n, err := s.sendViaSDK(ctx, msg)
		if err == nil {
			return res
		}
		attempts = n
		s.logger.Warn(s.tag("SDK path exhausted, falling back to HTTP API"), map[string]interface{}{
			"attempts": n,
			"error":    err.Error(),
		})
	} else {
		s.trace("SDK client unavailable, using HTTP API", nil)
	}

	return s.sendViaHTTP(ctx, msg, attempts)
}

// outgoing is the message after defaults and test-mode rewriting.
type outgoing struct {
	From              string
	To                string
	Subject           string
	HTML              string
	Text              string
	OriginalRecipient string
	TestMode          bool
}

func (s *Service) prepare(req SendRequest) outgoing {
	msg := outgoing{
		From:              req.From,
		To:                req.To,
		Subject:           req.Subject,
		HTML:              req.HTML,
		Text:              req.Text,
		OriginalRecipient: req.To,
	}
	if msg.From == "" {
		msg.From = s.settings.DefaultFrom
	}
	applyTestMode(&msg, s.settings)
	return msg
}

func (m outgoing) stamp(r SendResult) SendResult {
	r.TestMode = m.TestMode
	r.OriginalRecipient = m.OriginalRecipient
	r.ActualRecipient = m.To
	return r
}

func (s *Service) tag(msg string) string {
	return s.settings.Mode.Tag() + " " + msg
}

// trace logs stage details only when verbose logging is on.
func (s *Service) trace(msg string, fields map[string]interface{}) {
	if !s.settings.Verbose {
		return
	}
	s.logger.Info(s.tag(msg), fields)
}

func (s *Service) record(r SendResult, elapsed time.Duration) {
	metrics.EmailSendsTotal.WithLabelValues(string(r.Provider), r.Outcome()).Inc()
	metrics.EmailSDKAttempts.Observe(float64(r.Attempts))
	metrics.EmailSendDuration.WithLabelValues(string(r.Provider)).Observe(elapsed.Seconds())

	fields := map[string]interface{}{
		"provider": string(r.Provider),
		"outcome":  r.Outcome(),
		"id":       r.ID,
		"attempts": r.Attempts,
		"to":       r.ActualRecipient,
	}
	if r.Reason != "" {
		fields["reason"] = string(r.Reason)
	}
	if r.Success {
		s.logger.Info(s.tag("email send finished"), fields)
		return
	}
	fields["error"] = r.Error
	s.logger.Error(s.tag("email send failed"), fields)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
