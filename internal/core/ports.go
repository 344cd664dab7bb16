package core

import (
	"context"
	"time"
)

// BatchOptions configure a batch verification call.
type BatchOptions struct {
	Filename    string
	CallbackURL string
}

// VerificationClient defines the interface for the Kickbox verification API.
// Transport failures are reported inside the envelope, never as a Go error.
type VerificationClient interface {
	// Verify verifies a single email address
	Verify(ctx context.Context, email string, timeoutSeconds int) VerificationEnvelope

	// VerifyBatch submits a batch verification job
	VerifyBatch(ctx context.Context, emails []string, opts BatchOptions) VerificationEnvelope

	// CheckBatch retrieves the status of a batch verification job
	CheckBatch(ctx context.Context, jobID string) VerificationEnvelope
}

// StateStore is the durable home of the verification cache: one named slot
// holding the whole keyed collection, read and replaced wholesale.
type StateStore interface {
	// Load reads the full cache collection; an absent slot yields an empty map
	Load(ctx context.Context) (map[string]CacheEntry, error)

	// Save replaces the full cache collection in one write
	Save(ctx context.Context, entries map[string]CacheEntry) error

	// Clear removes the slot entirely
	Clear(ctx context.Context) error

	// Close releases any underlying resources
	Close() error
}

// EntryCache is an optional best-effort per-entry read-through layer in
// front of the state store. It is never authoritative.
type EntryCache interface {
	// Get retrieves a single cached entry
	Get(ctx context.Context, key string) (*CacheEntry, bool)

	// Set stores a single entry with a bounded lifetime
	Set(ctx context.Context, key string, entry CacheEntry, ttl time.Duration)
}

// VerificationCache is what the validator sees of the caching layer.
type VerificationCache interface {
	// IsFresh reports whether a usable cached verdict exists for the
	// submitted email
	IsFresh(ctx context.Context, email string) bool

	// Lookup returns the cached envelope for the submitted email, tagged
	// as coming from the cache
	Lookup(ctx context.Context, email string) (*VerificationEnvelope, bool)

	// Store caches a fresh verification result
	Store(ctx context.Context, env VerificationEnvelope)
}

// SubmissionSource delivers submissions from the host into the validator.
type SubmissionSource interface {
	// Start starts accepting submissions
	Start() error

	// Stop stops the source
	Stop() error
}
