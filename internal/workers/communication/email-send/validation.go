package emailsend

import "plana-backend/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"to", "subject", "html"},
		Properties: map[string]validation.Property{
			"to": {
				Type:        "string",
				Description: "Recipient email address",
				Format:      "email",
				MaxLength:   validation.IntPtr(255),
			},
			"subject": {
				Type:        "string",
				Description: "Email subject line",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(500),
			},
			"html": {
				Type:        "string",
				Description: "HTML body",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(200000),
			},
			"text": {
				Type:        "string",
				Description: "Plain text body",
				MaxLength:   validation.IntPtr(100000),
			},
			"from": {
				Type:        "string",
				Description: "Sender address, defaults to the verified sender",
				MaxLength:   validation.IntPtr(255),
			},
			"bookingId": {
				Type:        "string",
				Description: "Booking the email belongs to",
			},
		},
		// Process variables are merged into the job, so extra keys are allowed.
		AdditionalProperties: true,
	}
}
