// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package producer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/bruegth/otlp-log-producer/logdata"
)

// ErrAdapterClosed is returned by Deliver after Shutdown
var ErrAdapterClosed = errors.New("delivery adapter is shut down")

// Adapter delivers envelopes to their destination. Implementations never
// retry; the loop decides what happens after a failure.
type Adapter interface {
	// Deliver hands off one envelope. Any failure is a *DeliveryError.
	Deliver(ctx context.Context, env logdata.Envelope) error
	// Shutdown flushes and releases the delivery pipeline
	Shutdown(ctx context.Context) error
}

// DeliveryError reports a failed hand-off or transmission. It is always
// recoverable.
type DeliveryError struct {
	Adapter string
	Err     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s delivery failed: %v", e.Adapter, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

func newDeliveryError(adapter string, err error) error {
	return &DeliveryError{Adapter: adapter, Err: err}
}

// NewAdapter creates the standalone adapter selected by cfg.Delivery. The
// pipeline adapter needs a collector consumer and is built by the receiver.
func NewAdapter(ctx context.Context, cfg *Config, builder *RecordBuilder, logger *zap.Logger) (Adapter, error) {
	switch cfg.Delivery {
	case DeliveryRemote:
		return NewRemoteAdapter(&cfg.Remote, logger), nil
	case DeliveryInProcess:
		provider, err := NewLoggerProvider(ctx, &cfg.Exporter, builder.Resource())
		if err != nil {
			return nil, err
		}
		return NewInProcessAdapter(provider, builder.Scope()), nil
	default:
		return nil, fmt.Errorf("delivery %q is only available inside a collector pipeline", cfg.Delivery)
	}
}
