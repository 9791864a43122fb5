// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package logdata holds the log record model emitted by the producer: typed
// attribute values, records, and the resource/scope envelope, together with
// their conversion to pdata and the OTLP wire encodings.
package logdata // import "github.com/bruegth/otlp-log-producer/logdata"
