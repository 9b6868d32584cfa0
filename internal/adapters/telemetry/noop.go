package telemetry

import (
	"context"

	"go.trai.ch/lode/internal/core/domain"
	"go.trai.ch/lode/internal/core/ports"
)

// NoopRecorder is a no-op implementation of ports.Telemetry, used when no
// progress display is wanted (plain output, tests).
type NoopRecorder struct{}

// NewNoop creates a NoopRecorder.
func NewNoop() *NoopRecorder {
	return &NoopRecorder{}
}

// Record returns a vertex that discards everything.
func (r *NoopRecorder) Record(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	return ctx, &NoopVertex{}
}

// Close does nothing.
func (r *NoopRecorder) Close() error { return nil }

// NoopVertex is a no-op implementation of ports.Vertex.
type NoopVertex struct{}

// Log does nothing.
func (v *NoopVertex) Log(_ domain.LogLevel, _ string) {}

// Complete does nothing.
func (v *NoopVertex) Complete(_ error) {}

// Cached does nothing.
func (v *NoopVertex) Cached() {}
