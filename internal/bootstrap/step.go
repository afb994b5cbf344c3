package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfeidau/projinit/internal/telemetry"
)

// Step is one isolated unit of a pipeline.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// Outcome records how a step finished.
type Outcome struct {
	Step     string
	Err      error
	Fatal    bool
	Duration time.Duration
}

// Report collects the outcomes of a pipeline run in execution order.
type Report struct {
	Pipeline string
	Skipped  bool
	Outcomes []Outcome

	// Interrupted holds the context error when the run was cancelled. The
	// remaining steps are not attempted.
	Interrupted error
}

// Failed returns the outcomes that carry an error.
func (r *Report) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// Err returns the interruption and the fatal failures joined, or nil when
// every failure was recoverable.
func (r *Report) Err() error {
	var errs []error
	if r.Interrupted != nil {
		errs = append(errs, fmt.Errorf("interrupted: %w", r.Interrupted))
	}
	for _, o := range r.Outcomes {
		if o.Fatal {
			errs = append(errs, fmt.Errorf("%s: %w", o.Step, o.Err))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%s failed: %w", r.Pipeline, errors.Join(errs...))
}

// RunSteps runs steps in order. A step that fails or panics is recorded and
// the next step still runs. Cancelling ctx stops the run before the next
// step.
func RunSteps(ctx context.Context, pipeline string, steps []Step) *Report {
	return run(ctx, pipeline, steps, false)
}

func run(ctx context.Context, pipeline string, steps []Step, stopOnFatal bool) *Report {
	report := &Report{Pipeline: pipeline}
	for _, s := range steps {
		if ctx.Err() != nil {
			break
		}
		out := runStep(ctx, pipeline, s)
		report.Outcomes = append(report.Outcomes, out)
		if out.Fatal && stopOnFatal {
			break
		}
	}
	report.Interrupted = ctx.Err()
	if report.Interrupted != nil {
		zerolog.Ctx(ctx).Warn().Str("pipeline", pipeline).Int("completed", len(report.Outcomes)).Msg("Run interrupted")
	}
	logSummary(ctx, report)
	return report
}

// FindStep looks up a step by name.
func FindStep(steps []Step, name string) (Step, error) {
	for _, s := range steps {
		if s.Name == name {
			return s, nil
		}
	}
	return Step{}, fmt.Errorf("%w: %s", ErrUnknownStep, name)
}

// StepNames lists the names of steps.
func StepNames(steps []Step) []string {
	names := make([]string, 0, len(steps))
	for _, s := range steps {
		names = append(names, s.Name)
	}
	return names
}

func runStep(ctx context.Context, pipeline string, s Step) (out Outcome) {
	log := zerolog.Ctx(ctx).With().Str("step", s.Name).Logger()
	metrics := telemetry.GetMetrics()
	attrs := metric.WithAttributes(
		attribute.String("pipeline", pipeline),
		attribute.String("step", s.Name),
	)

	ctx, span := telemetry.Tracer().Start(ctx, pipeline+"."+s.Name,
		trace.WithAttributes(attribute.String("step", s.Name)))
	defer span.End()

	ctx = log.WithContext(ctx)
	started := time.Now()
	out.Step = s.Name

	defer func() {
		if r := recover(); r != nil {
			out.Err = fmt.Errorf("step panicked: %v", r)
			log.Error().Str("stack", string(debug.Stack())).Interface("panic", r).Msg("Step panicked")
		}

		out.Duration = time.Since(started)
		out.Fatal = errors.Is(out.Err, ErrFatal)

		metrics.StepRunsTotal.Add(ctx, 1, attrs)
		metrics.StepDuration.Record(ctx, float64(out.Duration.Milliseconds()), attrs)

		if out.Err != nil {
			metrics.StepFailuresTotal.Add(ctx, 1, attrs)
			span.RecordError(out.Err)
			span.SetStatus(codes.Error, out.Err.Error())

			if out.Fatal {
				log.Error().Err(out.Err).Msg("Step failed")
			} else {
				log.Warn().Err(out.Err).Msg("Step failed, continuing")
			}
			return
		}

		log.Debug().Dur("duration", out.Duration).Msg("Step completed")
	}()

	out.Err = s.Run(ctx)

	return out
}

func logSummary(ctx context.Context, report *Report) {
	log := zerolog.Ctx(ctx)

	failed := report.Failed()
	if len(failed) == 0 {
		return
	}

	names := make([]string, 0, len(failed))
	for _, o := range failed {
		names = append(names, o.Step)
	}

	log.Warn().
		Str("pipeline", report.Pipeline).
		Int("failed", len(failed)).
		Int("total", len(report.Outcomes)).
		Msgf("Some steps did not complete: %s", strings.Join(names, ", "))
}
