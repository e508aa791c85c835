package emailsend

import (
	"plana-backend/internal/email"
)

// Input is the job payload: one transactional email plus an optional booking
// reference used for log correlation.
type Input struct {
	email.SendRequest
	BookingID string `json:"bookingId,omitempty"`
}

// Output becomes the job's completion variables.
type Output struct {
	EmailSent     bool             `json:"emailSent"`
	EmailID       string           `json:"emailId,omitempty"`
	EmailProvider string           `json:"emailProvider"`
	EmailResult   email.SendResult `json:"emailResult"`
}
