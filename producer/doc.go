// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package producer generates synthetic OTLP log records on a fixed cadence
// and delivers them either through an in-process OTel logger provider or by
// POSTing OTLP/HTTP requests to a collector. Delivery failures are logged
// and the loop keeps running until a stop is requested.
package producer // import "github.com/bruegth/otlp-log-producer/producer"
