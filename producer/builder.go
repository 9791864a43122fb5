// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package producer

import (
	"crypto/rand"
	"fmt"
	"io"
	mathrand "math/rand"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.opentelemetry.io/collector/pdata/plog"

	"github.com/bruegth/otlp-log-producer/logdata"
)

const (
	randomStringLength = 20
	randomAlphabet     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// maxSeverity is the highest generated severity number (INFO)
	maxSeverity = 9
)

// RecordBuilder generates schema-valid log records and their envelope.
// It performs no I/O and never fails.
type RecordBuilder struct {
	body         BodyStrategy
	severityText string
	resource     logdata.Resource
	scope        logdata.Scope
	clock        Clock
	rnd          *mathrand.Rand
	ids          io.Reader
}

// BuilderOption customises a RecordBuilder
type BuilderOption func(*RecordBuilder)

// WithClock sets the time source for record timestamps
func WithClock(c Clock) BuilderOption {
	return func(b *RecordBuilder) { b.clock = c }
}

// WithRand sets the source for record content (severity, body, attributes)
func WithRand(r *mathrand.Rand) BuilderOption {
	return func(b *RecordBuilder) { b.rnd = r }
}

// WithIDSource sets the reader trace and span IDs are drawn from.
// Defaults to crypto/rand.
func WithIDSource(r io.Reader) BuilderOption {
	return func(b *RecordBuilder) { b.ids = r }
}

// NewRecordBuilder creates a builder for the configured body strategy,
// resource and scope
func NewRecordBuilder(cfg *Config, opts ...BuilderOption) *RecordBuilder {
	b := &RecordBuilder{
		body:         cfg.Body,
		severityText: cfg.SeverityText,
		resource:     newResource(cfg.Resource),
		scope: logdata.Scope{
			Name:       cfg.Scope.Name,
			Version:    cfg.Scope.Version,
			Attributes: []logdata.KeyValue{logdata.String("my.scope.attribute", "some scope attribute")},
		},
		clock: SystemClock(),
		rnd:   mathrand.New(mathrand.NewSource(time.Now().UnixNano())), //nolint:gosec // content only, not IDs
		ids:   rand.Reader,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// newResource builds the resource attributes. service.name stays first.
func newResource(cfg ResourceConfig) logdata.Resource {
	attrs := []logdata.KeyValue{logdata.String("service.name", cfg.ServiceName)}
	if cfg.ServiceNamespace != "" {
		attrs = append(attrs, logdata.String("service.namespace", cfg.ServiceNamespace))
	}
	attrs = append(attrs, logdata.String("service.instance.id", uuid.NewString()))
	return logdata.Resource{Attributes: attrs}
}

// Resource returns the resource every envelope is built with
func (b *RecordBuilder) Resource() logdata.Resource { return b.resource }

// Scope returns the scope every envelope is built with
func (b *RecordBuilder) Scope() logdata.Scope { return b.scope }

// Envelope builds a single-record envelope for the given tick sequence
func (b *RecordBuilder) Envelope(seq uint64) logdata.Envelope {
	return logdata.Envelope{
		Resource: b.resource,
		Scope:    b.scope,
		Records:  []logdata.LogRecord{b.Record(seq)},
	}
}

// Record builds one log record. seq is only used by the counter body.
//
// Timestamp is sampled on entry and ObservedTimestamp after the content is
// generated, so the observed time never precedes the event time.
func (b *RecordBuilder) Record(seq uint64) logdata.LogRecord {
	timestamp := b.clock.Now()

	rec := logdata.LogRecord{
		SeverityNumber: plog.SeverityNumber(b.rnd.Intn(maxSeverity + 1)),
		SeverityText:   b.severityText,
		TraceID:        pcommon.TraceID(b.randomID16()),
		SpanID:         pcommon.SpanID(b.randomID8()),
		Body:           logdata.StringValue(b.bodyText(seq)),
		Attributes:     b.demoAttributes(),
	}

	rec.Timestamp = pcommon.NewTimestampFromTime(timestamp)
	rec.ObservedTimestamp = pcommon.NewTimestampFromTime(b.clock.Now())
	return rec
}

func (b *RecordBuilder) bodyText(seq uint64) string {
	if b.body == BodyCounter {
		return fmt.Sprintf("Log incident #%d", seq)
	}
	return b.randomString(randomStringLength)
}

// demoAttributes returns one attribute of every value variant, in a fixed order
func (b *RecordBuilder) demoAttributes() []logdata.KeyValue {
	return []logdata.KeyValue{
		logdata.String("string.attribute", b.randomString(randomStringLength)),
		logdata.Bool("boolean.attribute", b.rnd.Intn(2) == 1),
		logdata.Int("int.attribute", int64(b.rnd.Intn(101))),
		logdata.Double("double.attribute", b.rnd.Float64()*100),
		logdata.Array("array.attribute", logdata.StringValue("many"), logdata.StringValue("values")),
		logdata.Map("map.attribute", logdata.String("some.map.key", "some value")),
	}
}

func (b *RecordBuilder) randomString(n int) string {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = randomAlphabet[b.rnd.Intn(len(randomAlphabet))]
	}
	return string(buf)
}

func (b *RecordBuilder) randomID16() [16]byte {
	var id [16]byte
	b.fillID(id[:])
	return id
}

func (b *RecordBuilder) randomID8() [8]byte {
	var id [8]byte
	b.fillID(id[:])
	return id
}

// fillID reads from the ID source. The source is assumed to be always
// available; a short read falls back to the content generator.
func (b *RecordBuilder) fillID(dst []byte) {
	if _, err := io.ReadFull(b.ids, dst); err != nil {
		b.rnd.Read(dst)
	}
}
