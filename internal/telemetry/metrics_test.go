package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetMetrics_Singleton(t *testing.T) {
	m := GetMetrics()
	require.NotNil(t, m)
	require.Same(t, m, GetMetrics())

	require.NotNil(t, m.StepRunsTotal)
	require.NotNil(t, m.SubmodulesRestoredTotal)
	require.NotNil(t, m.ProtectionRequestsTotal)

	// Recording against the no-op provider must not panic.
	m.StepRunsTotal.Add(context.Background(), 1)
	m.StepDuration.Record(context.Background(), 12.5)
}

func TestTracer(t *testing.T) {
	_, span := Tracer().Start(context.Background(), "test")
	span.End()
}
