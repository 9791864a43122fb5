// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package logproducerreceiver

import (
	"context"

	"go.opentelemetry.io/collector/component"
	"go.opentelemetry.io/collector/consumer"
	"go.opentelemetry.io/collector/receiver"

	"github.com/bruegth/otlp-log-producer/producer"
)

var (
	// Type is the type of this receiver
	Type = component.MustNewType("logproducer")

	stability = component.StabilityLevelAlpha
)

// NewFactory creates a factory for the log producer receiver
func NewFactory() receiver.Factory {
	return receiver.NewFactory(
		Type,
		createDefaultConfig,
		receiver.WithLogs(createLogsReceiver, stability),
	)
}

func createDefaultConfig() component.Config {
	cfg := producer.NewDefaultConfig()
	cfg.Delivery = producer.DeliveryPipeline
	return &Config{Config: *cfg}
}

func createLogsReceiver(
	_ context.Context,
	set receiver.Settings,
	cfg component.Config,
	nextConsumer consumer.Logs,
) (receiver.Logs, error) {
	return newLogsReceiver(cfg.(*Config), set, nextConsumer)
}
