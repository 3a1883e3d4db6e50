// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package otbsg

import (
	"context"
	"time"

	"go.uber.org/zap"

	bsg "github.com/petenewcomb/bsg-go"
)

// LoggedWorkUnit adds structured logging to a work unit. It logs the start
// and completion of each invocation, including timing information and any
// error that occurs. If logger is nil, the process-global zap logger is
// used.
func LoggedWorkUnit[I any, O any](
	logger *zap.Logger,
	operationName string,
	work bsg.WorkUnit[I, O],
) bsg.WorkUnit[I, O] {
	return func(ctx context.Context, item I) (O, error) {
		log := logger
		if log == nil {
			log = zap.L()
		}

		log.Debug("starting work unit",
			zap.String("operation", operationName))

		startTime := time.Now()
		result, err := work(ctx, item)
		duration := time.Since(startTime)

		if err != nil {
			log.Error("work unit failed",
				zap.String("operation", operationName),
				zap.Duration("duration", duration),
				zap.Error(err))
		} else {
			log.Debug("work unit completed",
				zap.String("operation", operationName),
				zap.Duration("duration", duration))
		}

		return result, err
	}
}

// NewLogObserver returns a [bsg.Observer] that logs run lifecycle events
// to the given logger. Admissions and completions are logged at debug
// level; discarded outcomes and terminal transitions at info level, with
// failures at error level.
func NewLogObserver(logger *zap.Logger) bsg.Observer {
	if logger == nil {
		logger = zap.L()
	}
	return &logObserver{log: logger}
}

type logObserver struct {
	log *zap.Logger
}

func (o *logObserver) RunStarted(items int, limit int) {
	o.log.Info("run started",
		zap.Int("items", items),
		zap.Int("limit", limit))
}

func (o *logObserver) UnitAdmitted(item int, inFlight int) {
	o.log.Debug("work unit admitted",
		zap.Int("item", item),
		zap.Int("inFlight", inFlight))
}

func (o *logObserver) UnitCompleted(item int, inFlight int, err error) {
	if err != nil {
		o.log.Debug("work unit failed",
			zap.Int("item", item),
			zap.Int("inFlight", inFlight),
			zap.Error(err))
		return
	}
	o.log.Debug("work unit completed",
		zap.Int("item", item),
		zap.Int("inFlight", inFlight))
}

func (o *logObserver) OutcomeDiscarded(item int, err error) {
	o.log.Info("outcome discarded after run termination",
		zap.Int("item", item),
		zap.Error(err))
}

func (o *logObserver) RunFinished(state bsg.RunState, elapsed time.Duration, err error) {
	if err != nil {
		o.log.Error("run failed",
			zap.Stringer("state", state),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return
	}
	o.log.Info("run completed",
		zap.Stringer("state", state),
		zap.Duration("elapsed", elapsed))
}
