// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package testdata

import (
	"context"
	"errors"
	"sync"

	"github.com/bruegth/otlp-log-producer/logdata"
)

// ErrSimulatedFailure is returned by FlakyAdapter for its failing calls
var ErrSimulatedFailure = errors.New("simulated delivery failure")

// FlakyAdapter records every envelope and fails the first FailFirst calls
type FlakyAdapter struct {
	// FailFirst is the number of initial calls that fail
	FailFirst int
	// OnDeliver, when set, runs inside Deliver with the 1-based call number
	OnDeliver func(call int)
	// Panic makes every call panic instead of returning
	Panic bool

	mu        sync.Mutex
	envelopes []logdata.Envelope
	shutdowns int
}

// Deliver records env and fails while the call number is within FailFirst
func (a *FlakyAdapter) Deliver(_ context.Context, env logdata.Envelope) error {
	a.mu.Lock()
	a.envelopes = append(a.envelopes, env)
	call := len(a.envelopes)
	a.mu.Unlock()

	if a.OnDeliver != nil {
		a.OnDeliver(call)
	}
	if a.Panic {
		panic("simulated adapter panic")
	}
	if call <= a.FailFirst {
		return ErrSimulatedFailure
	}
	return nil
}

// Shutdown counts teardown calls
func (a *FlakyAdapter) Shutdown(context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.shutdowns++
	return nil
}

// Calls returns the number of Deliver calls
func (a *FlakyAdapter) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.envelopes)
}

// Envelopes returns every delivered envelope in call order
func (a *FlakyAdapter) Envelopes() []logdata.Envelope {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]logdata.Envelope(nil), a.envelopes...)
}

// Shutdowns returns the number of Shutdown calls
func (a *FlakyAdapter) Shutdowns() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.shutdowns
}
