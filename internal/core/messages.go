package core

import "strings"

// Built-in message templates, used when no override is configured.
const (
	builtinGenericMessage        = "There seems to be an issue with your email address."
	builtinSuggestedEmailMessage = "Did you mean " + SuggestedEmailPlaceholder + "?"
)

// MessageResolver selects the error message for a rejection reason,
// preferring a per-submission override, then a global override, then the
// built-in fallback. Registered message hooks get the final say.
type MessageResolver struct {
	global MessageOverrides
	hooks  *Hooks
}

// NewMessageResolver creates a message resolver over the global overrides.
func NewMessageResolver(global MessageOverrides, hooks *Hooks) *MessageResolver {
	return &MessageResolver{global: global, hooks: hooks}
}

// Resolve returns the message for a reason token.
func (r *MessageResolver) Resolve(reason string, form MessageOverrides) string {
	message := r.genericMessage(form)

	if reason == ReasonSuggestedEmail {
		message = builtinSuggestedEmailMessage
	}

	if m := r.global.For(reason); m != "" {
		message = m
	}
	if m := form.For(reason); m != "" {
		message = m
	}

	return r.hooks.FireMessage(reason, message)
}

// ResolveSuggested returns the suggested-email message with the placeholder
// substituted by the provider's correction.
func (r *MessageResolver) ResolveSuggested(suggested string, form MessageOverrides) string {
	message := r.Resolve(ReasonSuggestedEmail, form)
	return strings.ReplaceAll(message, SuggestedEmailPlaceholder, suggested)
}

// genericMessage is the fallback when a reason has no dedicated override.
func (r *MessageResolver) genericMessage(form MessageOverrides) string {
	message := builtinGenericMessage

	if m := r.global.Generic; m != "" {
		message = m
	}
	if m := form.Generic; m != "" {
		message = m
	}

	return message
}
