// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package testdata

import (
	"context"
	"fmt"
	"net"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	collogspb "go.opentelemetry.io/proto/otlp/collector/logs/v1"
	logspb "go.opentelemetry.io/proto/otlp/logs/v1"
)

// MockCollector is an OTLP/gRPC logs endpoint that keeps every received
// log record
type MockCollector struct {
	collogspb.UnimplementedLogsServiceServer

	logger   *zap.Logger
	server   *grpc.Server
	listener net.Listener

	mu      sync.Mutex
	records []*logspb.LogRecord
	scopes  []string
}

// NewMockCollector starts a collector on a random loopback port
func NewMockCollector(logger *zap.Logger) (*MockCollector, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}

	c := &MockCollector{
		logger:   logger,
		server:   grpc.NewServer(),
		listener: lis,
	}
	collogspb.RegisterLogsServiceServer(c.server, c)

	go func() {
		if err := c.server.Serve(lis); err != nil {
			c.logger.Debug("Mock collector stopped serving", zap.Error(err))
		}
	}()

	c.logger.Info("Mock OTLP collector started", zap.String("endpoint", c.Endpoint()))
	return c, nil
}

// Endpoint returns the host:port the collector listens on
func (c *MockCollector) Endpoint() string {
	return c.listener.Addr().String()
}

// Export implements the OTLP logs service
func (c *MockCollector) Export(_ context.Context, req *collogspb.ExportLogsServiceRequest) (*collogspb.ExportLogsServiceResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, rl := range req.GetResourceLogs() {
		for _, sl := range rl.GetScopeLogs() {
			c.scopes = append(c.scopes, sl.GetScope().GetName())
			c.records = append(c.records, sl.GetLogRecords()...)
		}
	}
	return &collogspb.ExportLogsServiceResponse{}, nil
}

// Records returns the received log records
func (c *MockCollector) Records() []*logspb.LogRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*logspb.LogRecord(nil), c.records...)
}

// Scopes returns the scope name of every received scope log
func (c *MockCollector) Scopes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.scopes...)
}

// Stop shuts the server down
func (c *MockCollector) Stop() {
	c.server.Stop()
	c.logger.Info("Mock OTLP collector stopped")
}
