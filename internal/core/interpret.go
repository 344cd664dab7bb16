package core

import (
	"go.uber.org/zap"
)

// defaultIgnoredReasons are provider-side transients that never block a
// submission.
var defaultIgnoredReasons = []string{"timeout", "unexpected_error"}

// Interpreter turns a verification envelope and a resolved policy into an
// accept/reject decision. Transport and provider failures are interpreted as
// valid: an outage must never block a legitimate submission.
type Interpreter struct {
	messages *MessageResolver
	hooks    *Hooks
	logger   *zap.Logger
}

// NewInterpreter creates a verdict interpreter.
func NewInterpreter(messages *MessageResolver, hooks *Hooks, logger *zap.Logger) *Interpreter {
	return &Interpreter{
		messages: messages,
		hooks:    hooks,
		logger:   logger,
	}
}

// Interpret produces the decision for one verification envelope.
func (i *Interpreter) Interpret(env VerificationEnvelope, policy Policy, form MessageOverrides) Interpretation {
	interpretation := Interpretation{Valid: true}

	// Fail open when the HTTP call errored or the provider reported a soft
	// failure of its own, e.g. insufficient account balance.
	if !env.Success || env.Data.Body == nil || !env.Data.Body.Success {
		i.logger.Debug("Verification inconclusive, accepting",
			zap.Bool("transport_success", env.Success),
			zap.String("error", env.Data.Error))
		return i.finish(env, interpretation)
	}

	body := env.Data.Body

	ignored := i.hooks.FireIgnoredReasons(append([]string(nil), defaultIgnoredReasons...))
	for _, reason := range ignored {
		if reason == body.Reason {
			i.logger.Debug("Ignoring transient verification reason, accepting",
				zap.String("reason", body.Reason))
			return i.finish(env, interpretation)
		}
	}

	if !policy.Allows(body.Result) {
		message := i.messages.Resolve(body.Reason, form)
		if body.DidYouMean != "" {
			message = i.messages.ResolveSuggested(body.DidYouMean, form)
		}

		interpretation = Interpretation{Valid: false, Message: message}
	} else if body.Sendex <= policy.MinSendex {
		interpretation = Interpretation{
			Valid:   false,
			Message: i.messages.Resolve(body.Reason, form),
		}
	}

	if !interpretation.Valid {
		i.logger.Debug("Verification rejected",
			zap.String("result", body.Result),
			zap.String("reason", body.Reason),
			zap.Float64("sendex", body.Sendex))
	}

	return i.finish(env, interpretation)
}

func (i *Interpreter) finish(env VerificationEnvelope, interpretation Interpretation) Interpretation {
	i.hooks.FireInterpretation(env, &interpretation)
	return interpretation
}
