package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncSetCacheHit is a no-op.
func (n *NoopRecorder) IncSetCacheHit() {}

// IncSetCacheMiss is a no-op.
func (n *NoopRecorder) IncSetCacheMiss() {}

// IncSetCreated is a no-op.
func (n *NoopRecorder) IncSetCreated() {}

// IncSetUpdated is a no-op.
func (n *NoopRecorder) IncSetUpdated() {}

// IncSetsDeleted is a no-op.
func (n *NoopRecorder) IncSetsDeleted(count int) {}

// IncWordDeleted is a no-op.
func (n *NoopRecorder) IncWordDeleted() {}

// IncAuthFailure is a no-op.
func (n *NoopRecorder) IncAuthFailure(reason string) {}
