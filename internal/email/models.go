package email

// SendRequest is a single transactional email.
type SendRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text,omitempty"`
	From    string `json:"from,omitempty"`
}

// Provider names the strategy that produced a SendResult.
type Provider string

const (
	ProviderSDK        Provider = "sdk"
	ProviderHTTP       Provider = "http-fallback"
	ProviderSimulation Provider = "simulation"
	// ProviderNone marks requests rejected before any strategy ran.
	ProviderNone Provider = "none"
)

// Reason is a machine readable explanation attached to simulated or failed
// results.
type Reason string

const (
	ReasonForced                Reason = "forced"
	ReasonNotConfigured         Reason = "not_configured"
	ReasonDomainNotVerified     Reason = "domain_not_verified"
	ReasonInvalidAPIKey         Reason = "invalid_api_key"
	ReasonTestingRecipientsOnly Reason = "testing_recipients_only"
	ReasonProviderError         Reason = "provider_error"
	ReasonNetworkError          Reason = "network_error"
	ReasonInvalidRequest        Reason = "invalid_request"
)

// SendResult is what every call returns; the chain never reports failure
// through an error value.
type SendResult struct {
	Success           bool     `json:"success"`
	ID                string   `json:"id,omitempty"`
	Provider          Provider `json:"provider"`
	TestMode          bool     `json:"testMode,omitempty"`
	OriginalRecipient string   `json:"originalRecipient,omitempty"`
	ActualRecipient   string   `json:"actualRecipient,omitempty"`
	Attempts          int      `json:"attempts"`
	Error             string   `json:"error,omitempty"`
	Reason            Reason   `json:"reason,omitempty"`
	// Degraded is set when a simulated result stands in for a real
	// provider failure.
	Degraded bool `json:"degraded,omitempty"`
}

// Outcome buckets a result for metrics and logs.
func (r SendResult) Outcome() string {
	switch {
	case !r.Success:
		return "failed"
	case r.Degraded:
		return "degraded"
	case r.Provider == ProviderSimulation:
		return "simulated"
	default:
		return "delivered"
	}
}
