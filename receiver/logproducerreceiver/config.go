// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package logproducerreceiver

import (
	"fmt"

	"github.com/bruegth/otlp-log-producer/producer"
)

// Config defines configuration for the log producer receiver
type Config struct {
	producer.Config `mapstructure:",squash"`
}

// Validate checks the producer settings. Inside a collector records always
// flow to the next consumer, so only the pipeline delivery is accepted.
func (cfg *Config) Validate() error {
	if cfg.Delivery != producer.DeliveryPipeline {
		return fmt.Errorf("delivery must be %s inside a collector, got: %s", producer.DeliveryPipeline, cfg.Delivery)
	}
	return cfg.Config.Validate()
}
