// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package producer

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// StopSignal is observed by the loop between ticks
type StopSignal interface {
	StopRequested() bool
	// Done is closed once a stop has been requested
	Done() <-chan struct{}
}

// ShutdownController is the single control surface of a running producer.
// RequestStop may be called from any goroutine, any number of times.
type ShutdownController struct {
	stopped atomic.Bool
	done    chan struct{}
	logger  *zap.Logger
}

// NewShutdownController creates a controller in the running state
func NewShutdownController(logger *zap.Logger) *ShutdownController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShutdownController{
		done:   make(chan struct{}),
		logger: logger,
	}
}

// RequestStop moves the producer from running to stopped. Calls after the
// first are no-ops.
func (c *ShutdownController) RequestStop() {
	if !c.stopped.CompareAndSwap(false, true) {
		return
	}
	close(c.done)
	c.logger.Info("Shutting down")
}

// StopRequested reports whether RequestStop has been called
func (c *ShutdownController) StopRequested() bool { return c.stopped.Load() }

// Done returns a channel closed by the first RequestStop
func (c *ShutdownController) Done() <-chan struct{} { return c.done }
