package server

import "plana-backend/internal/common/validation"

var bookingConfirmationSchema = validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"bookingId": {Type: "string", MinLength: validation.IntPtr(1), MaxLength: validation.IntPtr(128)},
		"booking": {
			Type:     "object",
			Required: []string{"customerName", "customerEmail", "activityTitle", "activityDate", "participants"},
			Properties: map[string]validation.Property{
				"bookingId":     {Type: "string"},
				"customerName":  {Type: "string", MinLength: validation.IntPtr(1)},
				"customerEmail": {Type: "string", Format: "email"},
				"activityTitle": {Type: "string", MinLength: validation.IntPtr(1)},
				"guideName":     {Type: "string"},
				"activityDate":  {Type: "string", Format: "date-time"},
				"participants":  {Type: "integer", Minimum: validation.FloatPtr(1), Maximum: validation.FloatPtr(50)},
				"totalPrice":    {Type: "number", Minimum: validation.FloatPtr(0)},
				"currency":      {Type: "string", Pattern: "^[A-Z]{3}$"},
				"meetingPoint":  {Type: "string"},
				"language":      {Type: "string", MaxLength: validation.IntPtr(10)},
			},
		},
	},
	AnyOf: []validation.Requirement{
		{Required: []string{"bookingId"}},
		{Required: []string{"booking"}},
	},
	AdditionalProperties: false,
}

var testEmailSchema = validation.JSONSchema{
	Type:     "object",
	Required: []string{"to"},
	Properties: map[string]validation.Property{
		"to":   {Type: "string", Format: "email"},
		"name": {Type: "string", MaxLength: validation.IntPtr(120)},
	},
	AdditionalProperties: false,
}
