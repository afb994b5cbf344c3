package telemetry

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "github.com/wolfeidau/projinit"
)

// Metrics holds all the OpenTelemetry metric instruments
type Metrics struct {
	// Pipeline metrics
	StepRunsTotal     metric.Int64Counter
	StepFailuresTotal metric.Int64Counter
	StepDuration      metric.Float64Histogram

	// Submodule metrics
	SubmodulesRestoredTotal metric.Int64Counter
	SubmodulesFailedTotal   metric.Int64Counter

	// External call metrics
	CommandsTotal           metric.Int64Counter
	ProtectionRequestsTotal metric.Int64Counter
	RegistryLookupsTotal    metric.Int64Counter
}

var (
	once    sync.Once
	metrics *Metrics
)

// GetMetrics returns the singleton Metrics instance, initializing it if necessary
func GetMetrics() *Metrics {
	once.Do(func() {
		metrics = initMetrics()
	})
	return metrics
}

// initMetrics creates and registers all metric instruments
func initMetrics() *Metrics {
	meter := otel.GetMeterProvider().Meter(meterName)

	m := &Metrics{}

	m.StepRunsTotal, _ = meter.Int64Counter(
		"projinit.steps.total",
		metric.WithDescription("Total number of pipeline steps run"),
		metric.WithUnit("{step}"),
	)

	m.StepFailuresTotal, _ = meter.Int64Counter(
		"projinit.steps.failures.total",
		metric.WithDescription("Total number of pipeline steps that failed"),
		metric.WithUnit("{step}"),
	)

	m.StepDuration, _ = meter.Float64Histogram(
		"projinit.steps.duration",
		metric.WithDescription("Duration of pipeline steps"),
		metric.WithUnit("ms"),
	)

	m.SubmodulesRestoredTotal, _ = meter.Int64Counter(
		"projinit.submodules.restored.total",
		metric.WithDescription("Total number of submodules restored"),
		metric.WithUnit("{submodule}"),
	)

	m.SubmodulesFailedTotal, _ = meter.Int64Counter(
		"projinit.submodules.failed.total",
		metric.WithDescription("Total number of submodules that could not be restored"),
		metric.WithUnit("{submodule}"),
	)

	m.CommandsTotal, _ = meter.Int64Counter(
		"projinit.commands.total",
		metric.WithDescription("Total number of external commands run"),
		metric.WithUnit("{command}"),
	)

	m.ProtectionRequestsTotal, _ = meter.Int64Counter(
		"projinit.protection.requests.total",
		metric.WithDescription("Total number of branch protection requests"),
		metric.WithUnit("{request}"),
	)

	m.RegistryLookupsTotal, _ = meter.Int64Counter(
		"projinit.registry.lookups.total",
		metric.WithDescription("Total number of package registry version lookups"),
		metric.WithUnit("{lookup}"),
	)

	return m
}
