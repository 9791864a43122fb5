// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package producer

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/bruegth/otlp-log-producer/producer"

type loopMetrics struct {
	attempts metric.Int64Counter
	failures metric.Int64Counter
	attrs    metric.MeasurementOption
}

func newLoopMetrics(mp metric.MeterProvider, delivery string) (*loopMetrics, error) {
	meter := mp.Meter(meterName)

	attempts, err := meter.Int64Counter("logproducer.delivery.attempts",
		metric.WithDescription("Number of envelopes handed to the delivery adapter"),
		metric.WithUnit("{envelope}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create attempts counter: %w", err)
	}

	failures, err := meter.Int64Counter("logproducer.delivery.failures",
		metric.WithDescription("Number of envelopes the delivery adapter failed to hand off"),
		metric.WithUnit("{envelope}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create failures counter: %w", err)
	}

	return &loopMetrics{
		attempts: attempts,
		failures: failures,
		attrs:    metric.WithAttributes(attribute.String("delivery", delivery)),
	}, nil
}
