package bookings

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	commonerrors "plana-backend/internal/common/errors"
	"plana-backend/internal/common/logger"
	"plana-backend/internal/email"
)

// Mailer is the email chain as seen by the notifier.
type Mailer interface {
	SendTransactionalEmail(ctx context.Context, req email.SendRequest) email.SendResult
}

// Notifier sends booking confirmation emails.
type Notifier struct {
	lookup   Lookup
	renderer *Renderer
	mailer   Mailer
	logger   logger.Logger
}

// NewNotifier builds a notifier. lookup may be nil, in which case only inline
// booking details are accepted.
func NewNotifier(lookup Lookup, renderer *Renderer, mailer Mailer, log logger.Logger) *Notifier {
	return &Notifier{
		lookup:   lookup,
		renderer: renderer,
		mailer:   mailer,
		logger:   log.WithFields(map[string]interface{}{"component": "booking-notifier"}),
	}
}

// SendConfirmation resolves the booking, renders the confirmation and sends
// it. Lookup, validation and rendering problems come back as errors; the send
// outcome is always the chain's result.
func (n *Notifier) SendConfirmation(ctx context.Context, req ConfirmationRequest) (email.SendResult, error) {
	details, err := n.resolve(ctx, req)
	if err != nil {
		return email.SendResult{}, err
	}

	if err := validateDetails(details); err != nil {
		return email.SendResult{}, err
	}

	rendered, err := n.renderer.RenderConfirmation(*details)
	if err != nil {
		return email.SendResult{}, commonerrors.NewTemplateRenderError("confirmation", err)
	}

	result := n.mailer.SendTransactionalEmail(ctx, email.SendRequest{
		To:      details.CustomerEmail,
		Subject: rendered.Subject,
		HTML:    rendered.HTML,
		Text:    rendered.Text,
	})

	n.logger.Info("booking confirmation processed", map[string]interface{}{
		"bookingId": details.BookingID,
		"success":   result.Success,
		"provider":  string(result.Provider),
		"emailId":   result.ID,
	})
	return result, nil
}

func (n *Notifier) resolve(ctx context.Context, req ConfirmationRequest) (*BookingDetails, error) {
	if req.Booking != nil {
		return req.Booking, nil
	}
	if strings.TrimSpace(req.BookingID) == "" {
		return nil, commonerrors.NewValidationError("either bookingId or booking is required")
	}
	if n.lookup == nil {
		return nil, commonerrors.NewValidationError("booking lookups are not configured; send booking details inline")
	}

	details, err := n.lookup.GetBookingDetails(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return nil, commonerrors.NewBookingNotFoundError(req.BookingID)
		}
		n.logger.Error("booking lookup failed", map[string]interface{}{
			"bookingId": req.BookingID,
			"error":     err.Error(),
		})
		return nil, commonerrors.NewBookingLookupFailedError(req.BookingID, err)
	}
	return details, nil
}

func validateDetails(d *BookingDetails) error {
	var problems []string
	if strings.TrimSpace(d.CustomerName) == "" {
		problems = append(problems, "customerName is required")
	}
	if strings.TrimSpace(d.ActivityTitle) == "" {
		problems = append(problems, "activityTitle is required")
	}
	if _, err := mail.ParseAddress(d.CustomerEmail); err != nil {
		problems = append(problems, fmt.Sprintf("customerEmail %q is not a valid address", d.CustomerEmail))
	}
	if d.Participants < 1 {
		problems = append(problems, "participants must be at least 1")
	}
	if len(problems) > 0 {
		return commonerrors.NewValidationError(strings.Join(problems, "; "))
	}
	return nil
}
