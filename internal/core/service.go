package core

import (
	"context"

	"go.uber.org/zap"
)

// ValidatorService orchestrates verification for one form submission: it
// resolves the effective policy, consults the cache, calls the verification
// provider on a miss, interprets the result and attaches rejection messages
// to failed fields.
type ValidatorService struct {
	client         VerificationClient
	cache          VerificationCache
	interpreter    *Interpreter
	hooks          *Hooks
	logger         *zap.Logger
	settings       GlobalSettings
	apiKey         string
	timeoutSeconds int
}

// NewValidatorService creates a new submission validator.
func NewValidatorService(
	client VerificationClient,
	cache VerificationCache,
	interpreter *Interpreter,
	hooks *Hooks,
	logger *zap.Logger,
	settings GlobalSettings,
	apiKey string,
	timeoutSeconds int,
) *ValidatorService {
	return &ValidatorService{
		client:         client,
		cache:          cache,
		interpreter:    interpreter,
		hooks:          hooks,
		logger:         logger,
		settings:       settings,
		apiKey:         apiKey,
		timeoutSeconds: timeoutSeconds,
	}
}

// Validate verifies every flagged field on the active page of the submission.
// Fields are evaluated independently: a rejection never short-circuits the
// remaining fields. The submission's field state is mutated in place.
func (s *ValidatorService) Validate(ctx context.Context, sub *Submission) *ValidationOutcome {
	outcome := &ValidationOutcome{Valid: true, Submission: sub}

	// Missing credential or configuration short-circuits to a pass-through.
	if s.settings.Disabled || s.apiKey == "" || s.settings.Mode == "" || sub.Settings.Disabled {
		s.logger.Debug("Verification skipped for submission",
			zap.Bool("globally_disabled", s.settings.Disabled),
			zap.Bool("form_disabled", sub.Settings.Disabled),
			zap.Bool("credential_configured", s.apiKey != ""),
			zap.String("mode", s.settings.Mode))
		return outcome
	}

	currentPage := sub.SourcePage
	if currentPage == 0 {
		currentPage = 1
	}

	policy := ResolvePolicy(s.settings, sub.Settings)
	s.hooks.FirePolicy(&policy)

	for idx := range sub.Fields {
		field := &sub.Fields[idx]

		if !field.Verify || field.FailedValidation {
			continue
		}
		fieldPage := field.Page
		if fieldPage == 0 {
			fieldPage = 1
		}
		if fieldPage != currentPage || field.Hidden {
			continue
		}

		env, fromCache := s.verify(ctx, field.Value)
		interpretation := s.interpreter.Interpret(env, policy, sub.Settings.Messages)

		if interpretation.Valid {
			if !fromCache {
				s.cache.Store(ctx, env)
			}
			continue
		}

		outcome.Valid = false
		field.FailedValidation = true
		field.ValidationMessage = interpretation.Message

		s.logger.Info("Field rejected by email verification",
			zap.String("field_id", field.ID),
			zap.String("message", interpretation.Message))
	}

	return outcome
}

// VerifyEmail runs a single address through the full pipeline: policy
// resolution, cache, remote call and interpretation, with the same caching
// side effects as submission validation.
func (s *ValidatorService) VerifyEmail(ctx context.Context, email string, form FormSettings) Interpretation {
	policy := ResolvePolicy(s.settings, form)
	s.hooks.FirePolicy(&policy)

	env, fromCache := s.verify(ctx, email)
	interpretation := s.interpreter.Interpret(env, policy, form.Messages)

	if interpretation.Valid && !fromCache {
		s.cache.Store(ctx, env)
	}

	return interpretation
}

// verify returns the envelope for an address, from the cache when a fresh
// verdict exists, otherwise from the provider.
func (s *ValidatorService) verify(ctx context.Context, email string) (VerificationEnvelope, bool) {
	if s.cache.IsFresh(ctx, email) {
		if cached, ok := s.cache.Lookup(ctx, email); ok {
			s.logger.Debug("Using cached verification", zap.String("email", email))
			return *cached, true
		}
	}

	s.hooks.FirePreVerification(email)
	env := s.client.Verify(ctx, email, s.timeoutSeconds)
	s.hooks.FirePostVerification(email, &env)

	return env, false
}
