// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package otbsg

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	bsg "github.com/petenewcomb/bsg-go"
)

const tracerName = "github.com/petenewcomb/bsg-go/otbsg"

// TracedWorkUnit adds distributed tracing to a work unit. Each invocation
// creates a span named operationName as a child of whatever span is
// carried by the run's context, and records the unit's error, if any.
func TracedWorkUnit[I any, O any](
	operationName string,
	work bsg.WorkUnit[I, O],
) bsg.WorkUnit[I, O] {
	return func(ctx context.Context, item I) (O, error) {
		tracer := otel.GetTracerProvider().Tracer(tracerName)
		ctx, span := tracer.Start(ctx, operationName,
			trace.WithAttributes(attribute.String("bsg.component", "workunit")))
		defer span.End()

		result, err := work(ctx, item)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		return result, err
	}
}
