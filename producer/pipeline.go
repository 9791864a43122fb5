// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package producer

import (
	"context"
	"errors"

	"go.opentelemetry.io/collector/consumer"

	"github.com/bruegth/otlp-log-producer/logdata"
)

// PipelineAdapter hands envelopes to the next consumer of a collector
// logs pipeline
type PipelineAdapter struct {
	next consumer.Logs
}

// NewPipelineAdapter creates an adapter feeding next
func NewPipelineAdapter(next consumer.Logs) (*PipelineAdapter, error) {
	if next == nil {
		return nil, errors.New("nil next consumer")
	}
	return &PipelineAdapter{next: next}, nil
}

// Deliver converts the envelope to plog.Logs and calls ConsumeLogs
func (a *PipelineAdapter) Deliver(ctx context.Context, env logdata.Envelope) error {
	if err := env.Validate(); err != nil {
		return newDeliveryError(string(DeliveryPipeline), err)
	}
	logs, err := logdata.ToLogs(env)
	if err != nil {
		return newDeliveryError(string(DeliveryPipeline), err)
	}
	if err := a.next.ConsumeLogs(ctx, logs); err != nil {
		return newDeliveryError(string(DeliveryPipeline), err)
	}
	return nil
}

// Shutdown is a no-op; the pipeline is owned by the collector
func (a *PipelineAdapter) Shutdown(context.Context) error { return nil }
