package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestInterpreter(global MessageOverrides, hooks *Hooks) *Interpreter {
	if hooks == nil {
		hooks = NewHooks()
	}
	return NewInterpreter(NewMessageResolver(global, hooks), hooks, zap.NewNop())
}

func successEnvelope(body VerificationBody) VerificationEnvelope {
	body.Success = true
	return VerificationEnvelope{
		Success: true,
		Data:    VerificationData{Code: 200, Body: &body},
	}
}

func TestInterpret_TransportFailureFailsOpen(t *testing.T) {
	interpreter := newTestInterpreter(MessageOverrides{}, nil)
	policy := ResolvePolicy(GlobalSettings{Mode: ModeStrict}, FormSettings{})

	env := VerificationEnvelope{
		Success: false,
		Data:    VerificationData{Error: "connection refused"},
	}

	interpretation := interpreter.Interpret(env, policy, MessageOverrides{})
	assert.True(t, interpretation.Valid)
	assert.Empty(t, interpretation.Message)
}

func TestInterpret_ProviderSoftFailureFailsOpen(t *testing.T) {
	interpreter := newTestInterpreter(MessageOverrides{}, nil)
	policy := ResolvePolicy(GlobalSettings{Mode: ModeStrict}, FormSettings{})

	// Insufficient balance: HTTP call succeeded, provider body says no.
	env := VerificationEnvelope{
		Success: true,
		Data: VerificationData{
			Code: 200,
			Body: &VerificationBody{Success: false, Message: "Insufficient balance"},
		},
	}

	interpretation := interpreter.Interpret(env, policy, MessageOverrides{})
	assert.True(t, interpretation.Valid)
	assert.Empty(t, interpretation.Message)
}

func TestInterpret_IgnoredReasonsFailOpen(t *testing.T) {
	interpreter := newTestInterpreter(MessageOverrides{}, nil)
	policy := ResolvePolicy(GlobalSettings{Mode: ModeStrict}, FormSettings{})

	for _, reason := range []string{"timeout", "unexpected_error"} {
		env := successEnvelope(VerificationBody{
			Result: ResultUnknown,
			Reason: reason,
			Sendex: 0,
		})

		interpretation := interpreter.Interpret(env, policy, MessageOverrides{})
		assert.True(t, interpretation.Valid, reason)
	}
}

func TestInterpret_StrictRejectsLowSendex(t *testing.T) {
	interpreter := newTestInterpreter(MessageOverrides{}, nil)
	policy := ResolvePolicy(GlobalSettings{Mode: ModeStrict}, FormSettings{})

	env := successEnvelope(VerificationBody{
		Result: ResultDeliverable,
		Reason: "low_deliverability",
		Sendex: 0.65,
	})

	interpretation := interpreter.Interpret(env, policy, MessageOverrides{})
	assert.False(t, interpretation.Valid)
	assert.Equal(t, "There seems to be an issue with your email address.", interpretation.Message)
}

func TestInterpret_SendexBoundaryIsInclusive(t *testing.T) {
	interpreter := newTestInterpreter(MessageOverrides{}, nil)
	policy := ResolvePolicy(GlobalSettings{Mode: ModeStrict}, FormSettings{})

	env := successEnvelope(VerificationBody{
		Result: ResultDeliverable,
		Reason: "accepted_email",
		Sendex: 0.7,
	})

	// sendex <= minSendex rejects, so exactly 0.7 under strict fails.
	interpretation := interpreter.Interpret(env, policy, MessageOverrides{})
	assert.False(t, interpretation.Valid)
}

func TestInterpret_PermissiveAcceptsRisky(t *testing.T) {
	interpreter := newTestInterpreter(MessageOverrides{}, nil)
	policy := ResolvePolicy(GlobalSettings{Mode: ModePermissive}, FormSettings{})

	env := successEnvelope(VerificationBody{
		Result: ResultRisky,
		Reason: "low_quality",
		Sendex: 0.5,
	})

	interpretation := interpreter.Interpret(env, policy, MessageOverrides{})
	assert.True(t, interpretation.Valid)
}

func TestInterpret_SuggestedEmail(t *testing.T) {
	interpreter := newTestInterpreter(MessageOverrides{}, nil)
	policy := ResolvePolicy(GlobalSettings{Mode: ModePermissive}, FormSettings{})

	env := successEnvelope(VerificationBody{
		Result:     ResultUndeliverable,
		Reason:     "rejected_email",
		Sendex:     0,
		DidYouMean: "jane@gmail.com",
	})

	interpretation := interpreter.Interpret(env, policy, MessageOverrides{})
	assert.False(t, interpretation.Valid)
	assert.Equal(t, "Did you mean jane@gmail.com?", interpretation.Message)
}

func TestInterpret_CustomPolicyRejectsDisallowedType(t *testing.T) {
	interpreter := newTestInterpreter(MessageOverrides{
		Reasons: map[string]string{"invalid_domain": "We could not verify that domain."},
	}, nil)

	policy := Policy{
		ValidResultTypes: []string{ResultDeliverable, ResultRisky},
		MinSendex:        0.3,
	}

	env := successEnvelope(VerificationBody{
		Result: ResultUnknown,
		Reason: "invalid_domain",
		Sendex: 0.9,
	})

	interpretation := interpreter.Interpret(env, policy, MessageOverrides{})
	assert.False(t, interpretation.Valid)
	assert.Equal(t, "We could not verify that domain.", interpretation.Message)
}

func TestInterpret_IgnoredReasonsHook(t *testing.T) {
	hooks := NewHooks()
	hooks.OnIgnoredReasons(func(reasons []string) []string {
		return append(reasons, "no_connect")
	})

	interpreter := newTestInterpreter(MessageOverrides{}, hooks)
	policy := ResolvePolicy(GlobalSettings{Mode: ModeStrict}, FormSettings{})

	env := successEnvelope(VerificationBody{
		Result: ResultUnknown,
		Reason: "no_connect",
	})

	interpretation := interpreter.Interpret(env, policy, MessageOverrides{})
	assert.True(t, interpretation.Valid)
}

func TestInterpret_InterpretationHookOverrides(t *testing.T) {
	hooks := NewHooks()
	hooks.OnInterpretation(func(env VerificationEnvelope, in *Interpretation) {
		in.Valid = false
		in.Message = "blocked by hook"
	})

	interpreter := newTestInterpreter(MessageOverrides{}, hooks)
	policy := ResolvePolicy(GlobalSettings{Mode: ModePermissive}, FormSettings{})

	env := successEnvelope(VerificationBody{
		Result: ResultDeliverable,
		Sendex: 0.95,
	})

	interpretation := interpreter.Interpret(env, policy, MessageOverrides{})
	assert.False(t, interpretation.Valid)
	assert.Equal(t, "blocked by hook", interpretation.Message)
}
