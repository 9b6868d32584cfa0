package domain

// VertexStatus represents the lifecycle state of a recorded unit of work,
// such as one package fetch or one solver decision.
type VertexStatus string

const (
	// VertexStatusPending indicates the vertex is waiting to start.
	VertexStatusPending VertexStatus = "pending"
	// VertexStatusRunning indicates the vertex is in flight.
	VertexStatusRunning VertexStatus = "running"
	// VertexStatusCompleted indicates the vertex finished successfully.
	VertexStatusCompleted VertexStatus = "completed"
	// VertexStatusFailed indicates the vertex failed.
	VertexStatusFailed VertexStatus = "failed"
	// VertexStatusCached indicates the vertex was satisfied from cache.
	VertexStatusCached VertexStatus = "cached"
)

// IsTerminal reports whether the status is a final state.
func (s VertexStatus) IsTerminal() bool {
	switch s {
	case VertexStatusCompleted, VertexStatusFailed, VertexStatusCached:
		return true
	default:
		return false
	}
}

// LogLevel represents the severity of a log message, mirroring the standard
// slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}
