package ports

import (
	"context"

	"go.trai.ch/lode/internal/core/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Telemetry records progress of resolve work as vertexes: one vertex per
// package fetch or solver decision.
type Telemetry interface {
	// Record starts a vertex and returns a context carrying it.
	Record(ctx context.Context, name string) (context.Context, Vertex)
	// Close flushes and terminates the recording session.
	Close() error
}

// Vertex is one recorded unit of work.
type Vertex interface {
	// Log attaches a message to the vertex.
	Log(level domain.LogLevel, msg string)
	// Complete marks the vertex finished, with err nil on success.
	Complete(err error)
	// Cached marks the vertex as satisfied from cache.
	Cached()
}

type vertexContextKey struct{}

// ContextWithVertex attaches a vertex to the context so nested work can log
// against its parent unit.
func ContextWithVertex(ctx context.Context, v Vertex) context.Context {
	return context.WithValue(ctx, vertexContextKey{}, v)
}

// VertexFromContext returns the vertex attached to the context, if any.
func VertexFromContext(ctx context.Context) (Vertex, bool) {
	v, ok := ctx.Value(vertexContextKey{}).(Vertex)
	return v, ok
}
