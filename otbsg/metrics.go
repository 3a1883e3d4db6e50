// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package otbsg

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	bsg "github.com/petenewcomb/bsg-go"
)

const meterName = "github.com/petenewcomb/bsg-go/otbsg"

// MetricsWorkUnit adds metrics collection to a work unit, recording count,
// duration, and error metrics under the given metric name prefix.
func MetricsWorkUnit[I any, O any](
	metricName string,
	work bsg.WorkUnit[I, O],
) bsg.WorkUnit[I, O] {
	return func(ctx context.Context, item I) (O, error) {
		startTime := time.Now()
		meter := otel.GetMeterProvider().Meter(meterName)

		unitCounter, _ := meter.Int64Counter(metricName + ".count")
		unitDuration, _ := meter.Float64Histogram(metricName + ".duration")

		unitCounter.Add(ctx, 1)

		result, err := work(ctx, item)

		unitDuration.Record(ctx, time.Since(startTime).Seconds())
		if err != nil {
			errorCounter, _ := meter.Int64Counter(metricName + ".errors")
			errorCounter.Add(ctx, 1)
		}

		return result, err
	}
}

// NewMetricsObserver returns a [bsg.Observer] that records run-level
// metrics through the global OpenTelemetry meter provider: units admitted,
// completed, and discarded, the in-flight gauge, and run durations
// attributed by terminal state.
func NewMetricsObserver() bsg.Observer {
	meter := otel.GetMeterProvider().Meter(meterName)
	o := &metricsObserver{}
	o.runs, _ = meter.Int64Counter("bsg.runs.count")
	o.runDuration, _ = meter.Float64Histogram("bsg.runs.duration")
	o.admitted, _ = meter.Int64Counter("bsg.units.admitted")
	o.completed, _ = meter.Int64Counter("bsg.units.completed")
	o.discarded, _ = meter.Int64Counter("bsg.units.discarded")
	o.inFlight, _ = meter.Int64UpDownCounter("bsg.units.in_flight")
	return o
}

type metricsObserver struct {
	runs        metric.Int64Counter
	runDuration metric.Float64Histogram
	admitted    metric.Int64Counter
	completed   metric.Int64Counter
	discarded   metric.Int64Counter
	inFlight    metric.Int64UpDownCounter
}

func (o *metricsObserver) RunStarted(items int, limit int) {
	o.runs.Add(context.Background(), 1)
}

func (o *metricsObserver) UnitAdmitted(item int, inFlight int) {
	ctx := context.Background()
	o.admitted.Add(ctx, 1)
	o.inFlight.Add(ctx, 1)
}

func (o *metricsObserver) UnitCompleted(item int, inFlight int, err error) {
	ctx := context.Background()
	o.completed.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("failed", err != nil)))
	o.inFlight.Add(ctx, -1)
}

func (o *metricsObserver) OutcomeDiscarded(item int, err error) {
	o.discarded.Add(context.Background(), 1)
}

func (o *metricsObserver) RunFinished(state bsg.RunState, elapsed time.Duration, err error) {
	o.runDuration.Record(context.Background(), elapsed.Seconds(),
		metric.WithAttributes(attribute.String("state", state.String())))
}
