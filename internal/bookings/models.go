// Package bookings looks up confirmed bookings and turns them into
// confirmation emails sent through the email fallback chain.
package bookings

import (
	"errors"
	"time"
)

var ErrBookingNotFound = errors.New("booking not found")

// BookingDetails is everything the confirmation email needs.
type BookingDetails struct {
	BookingID     string    `json:"bookingId"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail"`
	ActivityTitle string    `json:"activityTitle"`
	GuideName     string    `json:"guideName,omitempty"`
	ActivityDate  time.Time `json:"activityDate"`
	Participants  int       `json:"participants"`
	TotalPrice    float64   `json:"totalPrice"`
	Currency      string    `json:"currency,omitempty"`
	MeetingPoint  string    `json:"meetingPoint,omitempty"`
	Language      string    `json:"language,omitempty"`
}

// ConfirmationRequest names a stored booking or carries its details inline.
// Inline details win when both are set.
type ConfirmationRequest struct {
	BookingID string          `json:"bookingId,omitempty"`
	Booking   *BookingDetails `json:"booking,omitempty"`
}
