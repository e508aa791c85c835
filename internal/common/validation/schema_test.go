package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() JSONSchema {
	return JSONSchema{
		Type:     "object",
		Required: []string{"to", "subject"},
		Properties: map[string]Property{
			"to":      {Type: "string", Format: "email"},
			"subject": {Type: "string", MinLength: IntPtr(1), MaxLength: IntPtr(10)},
			"count":   {Type: "integer", Minimum: FloatPtr(1)},
		},
		AdditionalProperties: false,
	}
}

func TestValidate_Valid(t *testing.T) {
	res := Validate(testSchema(), map[string]interface{}{
		"to":      "user@example.com",
		"subject": "Hi",
		"count":   2,
	})
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Summary())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name      string
		doc       map[string]interface{}
		wantField string
	}{
		{"missing required", map[string]interface{}{"to": "user@example.com"}, "subject"},
		{"bad email", map[string]interface{}{"to": "nope", "subject": "Hi"}, "to"},
		{"too long", map[string]interface{}{"to": "user@example.com", "subject": "way too long subject"}, "subject"},
		{"below minimum", map[string]interface{}{"to": "user@example.com", "subject": "Hi", "count": 0}, "count"},
		{"extra field", map[string]interface{}{"to": "user@example.com", "subject": "Hi", "cc": "x"}, "(root)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(testSchema(), tt.doc)
			require.False(t, res.Valid)
			require.NotEmpty(t, res.Errors)
			assert.Contains(t, res.Summary(), tt.wantField)
		})
	}
}

func TestValidateJSON_Malformed(t *testing.T) {
	res := ValidateJSON(testSchema(), []byte(`{"to":`))
	require.False(t, res.Valid)
	assert.Equal(t, "INVALID_DOCUMENT", res.Errors[0].Code)
}

func TestValidate_AnyOf(t *testing.T) {
	schema := JSONSchema{
		Type: "object",
		Properties: map[string]Property{
			"bookingId": {Type: "string"},
			"booking":   {Type: "object"},
		},
		AnyOf:                []Requirement{{Required: []string{"bookingId"}}, {Required: []string{"booking"}}},
		AdditionalProperties: false,
	}

	assert.True(t, Validate(schema, map[string]interface{}{"bookingId": "bk-1"}).Valid)
	assert.True(t, Validate(schema, map[string]interface{}{"booking": map[string]interface{}{}}).Valid)
	assert.False(t, Validate(schema, map[string]interface{}{}).Valid)
}
