// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package producer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/bruegth/otlp-log-producer/logdata"
)

const (
	contentTypeJSON  = "application/json"
	contentTypeProto = "application/x-protobuf"
)

// RemoteAdapter serializes each envelope as an OTLP logs export request and
// POSTs it to the configured endpoint
type RemoteAdapter struct {
	config *RemoteConfig
	client *http.Client
	logger *zap.Logger
	closed atomic.Bool
}

// NewRemoteAdapter creates a remote adapter. Every request is bounded by
// config.RequestTimeout.
func NewRemoteAdapter(config *RemoteConfig, logger *zap.Logger) *RemoteAdapter {
	return &RemoteAdapter{
		config: config,
		client: &http.Client{Timeout: config.RequestTimeout},
		logger: logger,
	}
}

// Deliver performs one synchronous POST. Any completed round trip is a
// success unless FailOnHTTPStatus is set and the status is not 2xx.
func (a *RemoteAdapter) Deliver(ctx context.Context, env logdata.Envelope) error {
	if a.closed.Load() {
		return newDeliveryError(string(DeliveryRemote), ErrAdapterClosed)
	}
	if err := env.Validate(); err != nil {
		return newDeliveryError(string(DeliveryRemote), err)
	}

	payload, contentType, err := a.encode(env)
	if err != nil {
		return newDeliveryError(string(DeliveryRemote), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return newDeliveryError(string(DeliveryRemote), fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := a.client.Do(req)
	if err != nil {
		return newDeliveryError(string(DeliveryRemote), err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	a.logger.Debug("Posted log envelope",
		zap.String("endpoint", a.config.Endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(payload)))

	if a.config.FailOnHTTPStatus && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		return newDeliveryError(string(DeliveryRemote), fmt.Errorf("unexpected HTTP status: %s", resp.Status))
	}

	return nil
}

func (a *RemoteAdapter) encode(env logdata.Envelope) ([]byte, string, error) {
	if a.config.Encoding == EncodingProto {
		b, err := logdata.MarshalProto(env)
		return b, contentTypeProto, err
	}
	b, err := logdata.MarshalJSON(env)
	return b, contentTypeJSON, err
}

// Shutdown releases idle connections. There is nothing to flush.
func (a *RemoteAdapter) Shutdown(context.Context) error {
	if a.closed.CompareAndSwap(false, true) {
		a.client.CloseIdleConnections()
	}
	return nil
}
