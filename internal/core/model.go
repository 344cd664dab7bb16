package core

import (
	"strconv"
)

// Kickbox result types
const (
	ResultDeliverable   = "deliverable"
	ResultUndeliverable = "undeliverable"
	ResultRisky         = "risky"
	ResultUnknown       = "unknown"
)

// Pseudo-reasons used for message template lookup alongside the
// provider-supplied reason tokens.
const (
	ReasonGeneric        = "generic"
	ReasonSuggestedEmail = "suggested_email"
)

// SuggestedEmailPlaceholder is replaced with the provider's did_you_mean
// correction in the suggested-email message template.
const SuggestedEmailPlaceholder = "%suggested-email%"

// knownReasons is the set of reason tokens Kickbox can return.
// Message overrides are validated against it at configuration load time.
var knownReasons = map[string]bool{
	"invalid_email":      true,
	"invalid_domain":     true,
	"rejected_email":     true,
	"accepted_email":     true,
	"low_quality":        true,
	"low_deliverability": true,
	"no_connect":         true,
	"timeout":            true,
	"invalid_smtp":       true,
	"unavailable_smtp":   true,
	"unexpected_error":   true,
}

// IsKnownReason reports whether reason is a recognized Kickbox reason token
// or one of the pseudo-reasons used for message templates.
func IsKnownReason(reason string) bool {
	return knownReasons[reason] || reason == ReasonGeneric || reason == ReasonSuggestedEmail
}

// IsValidSendex reports whether v is a usable minimum-sendex setting.
func IsValidSendex(v float64) bool {
	return v > 0 && v <= 1
}

// ParseSendex parses a raw sendex setting. The second return value is false
// when the value is not numeric or outside (0,1].
func ParseSendex(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, IsValidSendex(v)
}

// VerificationBody is the parsed Kickbox response payload. Batch calls reuse
// the same shape; they populate ID and Message instead of the verdict fields.
type VerificationBody struct {
	Success    bool    `json:"success"`
	Result     string  `json:"result,omitempty"`
	Reason     string  `json:"reason,omitempty"`
	Sendex     float64 `json:"sendex,omitempty"`
	Email      string  `json:"email,omitempty"`
	DidYouMean string  `json:"did_you_mean,omitempty"`
	ID         int64   `json:"id,omitempty"`
	Message    string  `json:"message,omitempty"`
}

// VerificationData carries the detail of one verification attempt. Body is
// only present on transport success; Error holds the failure detail otherwise.
type VerificationData struct {
	Code    int               `json:"code,omitempty"`
	Body    *VerificationBody `json:"body,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// VerificationEnvelope is the uniform result of one verification attempt,
// fresh or cached.
type VerificationEnvelope struct {
	Success   bool             `json:"success"`
	FromCache bool             `json:"from_cache"`
	Data      VerificationData `json:"data"`
}

// CacheEntry is a persisted verdict.
type CacheEntry struct {
	Key          string               `json:"key"`
	Verification VerificationEnvelope `json:"verification"`
	Timestamp    int64                `json:"timestamp"`
}

// Policy is the effective acceptance rule for one verification.
type Policy struct {
	ValidResultTypes []string
	MinSendex        float64
}

// Allows reports whether the result type passes the policy.
func (p Policy) Allows(result string) bool {
	for _, t := range p.ValidResultTypes {
		if t == result {
			return true
		}
	}
	return false
}

// Interpretation is the accept/reject decision for one verification.
type Interpretation struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// MessageOverrides carries configured error-message templates. Empty values
// fall through to the next source in the precedence chain.
type MessageOverrides struct {
	Generic        string            `json:"generic,omitempty"`
	SuggestedEmail string            `json:"suggested_email,omitempty"`
	Reasons        map[string]string `json:"reasons,omitempty"`
}

// For returns the override for a reason token, or "" when none is set.
func (o MessageOverrides) For(reason string) string {
	switch reason {
	case ReasonGeneric:
		return o.Generic
	case ReasonSuggestedEmail:
		return o.SuggestedEmail
	default:
		return o.Reasons[reason]
	}
}

// GlobalSettings is the process-wide verification configuration, built once
// from the configuration store and passed explicitly to the validator.
type GlobalSettings struct {
	Disabled           bool
	Mode               string
	AllowUndeliverable bool
	AllowRisky         bool
	AllowUnknown       bool
	MinSendex          string
	Messages           MessageOverrides
}

// FormSettings are per-submission overrides of the global configuration.
// ModeDisabled means "use the global configuration unchanged".
type FormSettings struct {
	Disabled           bool             `json:"disabled,omitempty"`
	Mode               string           `json:"mode,omitempty"`
	AllowUndeliverable bool             `json:"allow_undeliverable,omitempty"`
	AllowRisky         bool             `json:"allow_risky,omitempty"`
	AllowUnknown       bool             `json:"allow_unknown,omitempty"`
	MinSendex          string           `json:"min_sendex,omitempty"`
	Messages           MessageOverrides `json:"messages,omitempty"`
}

// ModeDisabled is the form-level mode that defers to the global configuration.
const ModeDisabled = "disabled"

// Field is one submitted form field as delivered by the host framework.
type Field struct {
	ID                string `json:"id"`
	Page              int    `json:"page,omitempty"`
	Verify            bool   `json:"verify,omitempty"`
	Hidden            bool   `json:"hidden,omitempty"`
	FailedValidation  bool   `json:"failed_validation,omitempty"`
	Value             string `json:"value"`
	ValidationMessage string `json:"validation_message,omitempty"`
}

// Submission is one form submission with its per-form settings.
type Submission struct {
	SourcePage int          `json:"source_page,omitempty"`
	Fields     []Field      `json:"fields"`
	Settings   FormSettings `json:"settings,omitempty"`
}

// ValidationOutcome marks the submission overall valid or invalid. Rejected
// fields carry their message on the (mutated) submission.
type ValidationOutcome struct {
	Valid      bool        `json:"valid"`
	Submission *Submission `json:"submission"`
}
