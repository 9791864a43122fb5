// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package logproducerreceiver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/collector/component"
	"go.opentelemetry.io/collector/consumer"
	"go.opentelemetry.io/collector/receiver"
	"go.uber.org/zap"

	"github.com/bruegth/otlp-log-producer/producer"
)

// logsReceiver runs a producer loop feeding the next consumer
type logsReceiver struct {
	config   *Config
	settings receiver.Settings
	adapter  *producer.PipelineAdapter
	stop     *producer.ShutdownController
	loop     *producer.Loop
	cancel   context.CancelFunc
	done     chan struct{}
}

func newLogsReceiver(
	config *Config,
	settings receiver.Settings,
	nextConsumer consumer.Logs,
) (receiver.Logs, error) {
	if nextConsumer == nil {
		return nil, errors.New("nil nextConsumer")
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	adapter, err := producer.NewPipelineAdapter(nextConsumer)
	if err != nil {
		return nil, err
	}

	return &logsReceiver{
		config:   config,
		settings: settings,
		adapter:  adapter,
		stop:     producer.NewShutdownController(settings.Logger),
	}, nil
}

// Start builds the loop and runs it in the background
func (r *logsReceiver) Start(_ context.Context, _ component.Host) error {
	builder := producer.NewRecordBuilder(&r.config.Config)

	loop, err := producer.NewLoop(&r.config.Config, builder, r.adapter, r.stop, producer.LoopSettings{
		Logger:        r.settings.Logger,
		MeterProvider: r.settings.MeterProvider,
	})
	if err != nil {
		return fmt.Errorf("failed to create producer loop: %w", err)
	}
	r.loop = loop

	// The loop outlives Start, so it must not inherit its context
	var ctx context.Context
	ctx, r.cancel = context.WithCancel(context.Background())
	r.done = make(chan struct{})

	go func() {
		defer close(r.done)
		if err := loop.Run(ctx); err != nil {
			r.settings.Logger.Error("Log producer loop failed", zap.Error(err))
		}
	}()

	r.settings.Logger.Info("Log producer receiver started",
		zap.String("body", string(r.config.Body)),
		zap.Duration("interval", r.config.Interval))

	return nil
}

// Shutdown requests a stop and waits for the loop to finish its teardown
func (r *logsReceiver) Shutdown(ctx context.Context) error {
	r.stop.RequestStop()

	if r.done == nil {
		return nil
	}

	select {
	case <-r.done:
		r.settings.Logger.Info("Log producer loop finished")
	case <-ctx.Done():
		r.settings.Logger.Warn("Shutdown context timeout, forcing stop")
		r.cancel()
	case <-time.After(5 * time.Second):
		r.settings.Logger.Warn("Log producer loop did not finish within timeout")
		r.cancel()
	}

	r.settings.Logger.Info("Log producer receiver shut down",
		zap.Uint64("attempts", r.loop.Attempts()),
		zap.Uint64("failures", r.loop.Failures()))
	return nil
}
