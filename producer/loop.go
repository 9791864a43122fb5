// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package producer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"

	"github.com/bruegth/otlp-log-producer/logdata"
)

// ErrLoopStopped is returned by Run when the loop has already been run
var ErrLoopStopped = errors.New("producer loop has already been run")

// State is the lifecycle state of a Loop
type State int32

const (
	StateRunning State = iota
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "Running"
	case StateStopped:
		return "Stopped"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// LoopSettings holds the optional collaborators of a Loop. Zero values
// select a no-op logger, a no-op meter provider and the system clock.
type LoopSettings struct {
	Logger        *zap.Logger
	MeterProvider metric.MeterProvider
	Clock         Clock
}

// Loop generates one envelope per tick and delivers it until a stop is
// requested. Ticks never overlap: each build, delivery and sleep completes
// before the next tick starts, so the real period is the delivery time plus
// the interval.
type Loop struct {
	builder         *RecordBuilder
	adapter         Adapter
	stop            StopSignal
	clock           Clock
	logger          *zap.Logger
	metrics         *loopMetrics
	delivery        DeliveryKind
	interval        time.Duration
	shutdownTimeout time.Duration

	started  atomic.Bool
	state    atomic.Int32
	sequence atomic.Uint64
	attempts atomic.Uint64
	failures atomic.Uint64
}

// NewLoop creates a loop in the Running state
func NewLoop(cfg *Config, builder *RecordBuilder, adapter Adapter, stop StopSignal, set LoopSettings) (*Loop, error) {
	if builder == nil || adapter == nil || stop == nil {
		return nil, errors.New("builder, adapter and stop signal are required")
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got: %s", cfg.Interval)
	}
	if cfg.ShutdownTimeout <= 0 {
		return nil, fmt.Errorf("shutdown_timeout must be positive, got: %s", cfg.ShutdownTimeout)
	}
	if set.Logger == nil {
		set.Logger = zap.NewNop()
	}
	if set.MeterProvider == nil {
		set.MeterProvider = noop.NewMeterProvider()
	}
	if set.Clock == nil {
		set.Clock = SystemClock()
	}

	metrics, err := newLoopMetrics(set.MeterProvider, string(cfg.Delivery))
	if err != nil {
		return nil, err
	}

	return &Loop{
		builder:         builder,
		adapter:         adapter,
		stop:            stop,
		clock:           set.Clock,
		logger:          set.Logger,
		metrics:         metrics,
		delivery:        cfg.Delivery,
		interval:        cfg.Interval,
		shutdownTimeout: cfg.ShutdownTimeout,
	}, nil
}

// Run ticks until the stop signal fires or ctx is done, then shuts the
// adapter down exactly once. A stop request interrupts the sleep between
// ticks but never an in-flight delivery. Run may only be called once.
func (l *Loop) Run(ctx context.Context) error {
	if !l.started.CompareAndSwap(false, true) {
		return ErrLoopStopped
	}

	l.logger.Info("Starting log producer",
		zap.String("delivery", string(l.delivery)),
		zap.Duration("interval", l.interval))

	sleepCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-l.stop.Done():
			cancel()
		case <-sleepCtx.Done():
		}
	}()

	for ctx.Err() == nil && !l.stop.StopRequested() {
		l.tick(ctx)
		if err := l.clock.Sleep(sleepCtx, l.interval); err != nil {
			break
		}
	}

	return l.teardown(ctx)
}

// tick builds and delivers one envelope. Delivery failures are logged and
// counted, never returned.
func (l *Loop) tick(ctx context.Context) {
	seq := l.sequence.Load()
	env := l.builder.Envelope(seq)

	l.logger.Debug("Sending log envelope", zap.Uint64("sequence", seq))
	l.attempts.Add(1)
	l.metrics.attempts.Add(ctx, 1, l.metrics.attrs)

	if err := l.deliver(ctx, env); err != nil {
		l.failures.Add(1)
		l.metrics.failures.Add(ctx, 1, l.metrics.attrs)
		l.logger.Error("Failed to send log envelope",
			zap.Uint64("sequence", seq),
			zap.Error(err))
	}

	l.sequence.Add(1)
}

// deliver calls the adapter, turning a panic into a DeliveryError so a
// misbehaving adapter cannot end the loop
func (l *Loop) deliver(ctx context.Context, env logdata.Envelope) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newDeliveryError(string(l.delivery), fmt.Errorf("adapter panic: %v", r))
		}
	}()
	return l.adapter.Deliver(ctx, env)
}

func (l *Loop) teardown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.shutdownTimeout)
	defer cancel()

	err := l.adapter.Shutdown(shutdownCtx)
	l.state.Store(int32(StateStopped))

	if err != nil {
		l.logger.Error("Failed to shut down delivery pipeline", zap.Error(err))
		return fmt.Errorf("failed to shut down delivery pipeline: %w", err)
	}

	l.logger.Info("Log producer stopped",
		zap.Uint64("attempts", l.attempts.Load()),
		zap.Uint64("failures", l.failures.Load()))
	return nil
}

// State returns the current lifecycle state
func (l *Loop) State() State { return State(l.state.Load()) }

// Sequence returns the sequence number of the next tick
func (l *Loop) Sequence() uint64 { return l.sequence.Load() }

// Attempts returns the number of delivery attempts made
func (l *Loop) Attempts() uint64 { return l.attempts.Load() }

// Failures returns the number of failed delivery attempts
func (l *Loop) Failures() uint64 { return l.failures.Load() }
