package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vito/progrock"
	"go.trai.ch/lode/internal/adapters/telemetry"
	"go.trai.ch/lode/internal/core/domain"
	"go.trai.ch/lode/internal/core/ports"
)

func TestRecorder_Record_AttachesVertexToContext(t *testing.T) {
	rec := telemetry.NewRecorder(progrock.NewTape())

	ctx, vtx := rec.Record(context.Background(), "index requests")
	require.NotNil(t, vtx)

	fromCtx, ok := ports.VertexFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, vtx, fromCtx)

	vtx.Log(domain.LogLevelInfo, "listed 12 versions")
	vtx.Complete(nil)
	assert.NoError(t, rec.Close())
}

func TestNoopRecorder_AllMethodsAreSafe(t *testing.T) {
	rec := telemetry.NewNoop()

	ctx, vtx := rec.Record(context.Background(), "fetch requests 2.0")
	assert.NotNil(t, ctx)
	vtx.Log(domain.LogLevelDebug, "ignored")
	vtx.Complete(nil)
	vtx.Cached()
	assert.NoError(t, rec.Close())
}
