package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultsToNone(t *testing.T) {
	tm, err := New(context.Background(), "", nil)
	require.NoError(t, err)
	require.NotNil(t, tm)
	assert.NoError(t, tm.Shutdown(context.Background()))
}

func TestNewConsoleExporter(t *testing.T) {
	var buf bytes.Buffer
	tm, err := New(context.Background(), ExporterConsole, &buf)
	require.NoError(t, err)
	require.NotNil(t, tm)

	ctx, end := tm.Start(context.Background(), "peek")
	tm.RecordBytes(ctx, "get", 128)
	end()

	require.NoError(t, tm.Shutdown(context.Background()))
	assert.NotEmpty(t, buf.String())
}

func TestStartOnNilTelemeterIsNoop(t *testing.T) {
	var tm *Telemeter
	ctx, end := tm.Start(context.Background(), "peek")
	assert.NotNil(t, ctx)
	assert.NotPanics(t, func() { end() })
	assert.NotPanics(t, func() { tm.RecordBytes(ctx, "get", 64) })
	assert.NotPanics(t, func() { tm.RecordError(ctx, assert.AnError) })
	assert.NoError(t, tm.Shutdown(ctx))
}

func TestRecordBytesZeroIsNoop(t *testing.T) {
	tm, err := New(context.Background(), ExporterNone, nil)
	require.NoError(t, err)
	assert.NotPanics(t, func() { tm.RecordBytes(context.Background(), "put", 0) })
}
