// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package logproducerreceiver implements a receiver that generates synthetic
// log records on a fixed interval and feeds them into a collector logs
// pipeline. It is useful for exercising processors and exporters without an
// external log source.
package logproducerreceiver // import "github.com/bruegth/otlp-log-producer/receiver/logproducerreceiver"
