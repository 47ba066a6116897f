// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Auth failure reasons.
const (
	AuthReasonMissingKey = "missing_key"
	AuthReasonInvalidKey = "invalid_key"
	AuthReasonRateLimit  = "rate_limited"
)

// Recorder captures metric events for the application.
type Recorder interface {
	// Set cache metrics
	IncSetCacheHit()
	IncSetCacheMiss()

	// Set management metrics
	IncSetCreated()
	IncSetUpdated()
	IncSetsDeleted(count int)
	IncWordDeleted()

	// Auth metrics
	IncAuthFailure(reason string)
}

