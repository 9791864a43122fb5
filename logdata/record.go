// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package logdata

import (
	"errors"

	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.opentelemetry.io/collector/pdata/plog"
)

// ErrEmptyEnvelope is returned when an envelope carries no log records
var ErrEmptyEnvelope = errors.New("envelope must contain at least one log record")

// LogRecord is a single structured log event in the OTLP log data model
type LogRecord struct {
	Timestamp         pcommon.Timestamp
	ObservedTimestamp pcommon.Timestamp
	SeverityNumber    plog.SeverityNumber
	SeverityText      string
	TraceID           pcommon.TraceID
	SpanID            pcommon.SpanID
	Body              Value
	Attributes        []KeyValue
}

// Resource describes the entity producing the logs
type Resource struct {
	Attributes []KeyValue
}

// Scope describes the instrumentation scope the logs are emitted under
type Scope struct {
	Name       string
	Version    string
	Attributes []KeyValue
}

// Envelope wraps log records under one resource and one scope. It is the
// unit handed to a delivery adapter.
type Envelope struct {
	Resource Resource
	Scope    Scope
	Records  []LogRecord
}

// Validate checks the envelope invariants
func (e Envelope) Validate() error {
	if len(e.Records) == 0 {
		return ErrEmptyEnvelope
	}
	return nil
}

// Lookup returns the value of the first attribute with the given key
func Lookup(attrs []KeyValue, key string) (Value, bool) {
	for _, kv := range attrs {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return Value{}, false
}
