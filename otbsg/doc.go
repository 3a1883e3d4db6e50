// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package otbsg provides observability wrappers for
// [github.com/petenewcomb/bsg-go]: structured logging via zap, and metrics
// and tracing via OpenTelemetry. Work units can be wrapped individually,
// and run-level telemetry is attached through the bsg.Observer interface.
package otbsg
