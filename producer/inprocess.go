// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package producer

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"

	"github.com/bruegth/otlp-log-producer/logdata"
)

// InProcessAdapter emits records through an OTel logger provider. The
// provider's processor owns batching, export and backoff; a record counts as
// delivered once the logger accepts it.
type InProcessAdapter struct {
	provider     *sdklog.LoggerProvider
	logger       otellog.Logger
	closed       atomic.Bool
	shutdownOnce sync.Once
	shutdownErr  error
}

// NewInProcessAdapter creates an adapter emitting under the given scope.
// The adapter owns the provider and shuts it down on Shutdown.
func NewInProcessAdapter(provider *sdklog.LoggerProvider, scope logdata.Scope) *InProcessAdapter {
	logger := provider.Logger(scope.Name,
		otellog.WithInstrumentationVersion(scope.Version),
		otellog.WithInstrumentationAttributes(toAttributes(scope.Attributes)...),
	)
	return &InProcessAdapter{
		provider: provider,
		logger:   logger,
	}
}

// Deliver emits every record of the envelope. The envelope resource and
// scope are fixed by the provider and logger.
func (a *InProcessAdapter) Deliver(ctx context.Context, env logdata.Envelope) error {
	if a.closed.Load() {
		return newDeliveryError(string(DeliveryInProcess), ErrAdapterClosed)
	}
	if err := env.Validate(); err != nil {
		return newDeliveryError(string(DeliveryInProcess), err)
	}

	for _, r := range env.Records {
		a.logger.Emit(withSpanContext(ctx, r), toOTelRecord(r))
	}
	return nil
}

// Shutdown flushes buffered records and shuts the provider down. Only the
// first call has an effect.
func (a *InProcessAdapter) Shutdown(ctx context.Context) error {
	a.shutdownOnce.Do(func() {
		a.closed.Store(true)
		a.shutdownErr = multierr.Append(
			a.provider.ForceFlush(ctx),
			a.provider.Shutdown(ctx),
		)
	})
	return a.shutdownErr
}

// withSpanContext carries the record's trace and span IDs to the SDK, which
// reads them from the emit context
func withSpanContext(ctx context.Context, r logdata.LogRecord) context.Context {
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID(r.TraceID),
		SpanID:     trace.SpanID(r.SpanID),
		TraceFlags: trace.FlagsSampled,
	})
	if !sc.IsValid() {
		return ctx
	}
	return trace.ContextWithSpanContext(ctx, sc)
}

func toOTelRecord(r logdata.LogRecord) otellog.Record {
	var rec otellog.Record
	rec.SetTimestamp(r.Timestamp.AsTime())
	rec.SetObservedTimestamp(r.ObservedTimestamp.AsTime())
	rec.SetSeverity(otellog.Severity(r.SeverityNumber))
	rec.SetSeverityText(r.SeverityText)
	rec.SetBody(toOTelValue(r.Body))
	rec.AddAttributes(toOTelKeyValues(r.Attributes)...)
	return rec
}

func toOTelKeyValues(kvs []logdata.KeyValue) []otellog.KeyValue {
	out := make([]otellog.KeyValue, len(kvs))
	for i, kv := range kvs {
		out[i] = otellog.KeyValue{Key: kv.Key, Value: toOTelValue(kv.Value)}
	}
	return out
}

func toOTelValue(v logdata.Value) otellog.Value {
	switch v.Type() {
	case logdata.ValueTypeStr:
		return otellog.StringValue(v.Str())
	case logdata.ValueTypeBool:
		return otellog.BoolValue(v.Bool())
	case logdata.ValueTypeInt:
		return otellog.Int64Value(v.Int())
	case logdata.ValueTypeDouble:
		return otellog.Float64Value(v.Double())
	case logdata.ValueTypeArray:
		arr := make([]otellog.Value, len(v.Array()))
		for i, e := range v.Array() {
			arr[i] = toOTelValue(e)
		}
		return otellog.SliceValue(arr...)
	case logdata.ValueTypeMap:
		return otellog.MapValue(toOTelKeyValues(v.Map())...)
	default:
		return otellog.Value{}
	}
}

// toAttributes converts resource and scope attributes. attribute.KeyValue
// has no map type, so nested values are flattened to their text form.
func toAttributes(kvs []logdata.KeyValue) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(kvs))
	for _, kv := range kvs {
		switch kv.Value.Type() {
		case logdata.ValueTypeStr:
			out = append(out, attribute.String(kv.Key, kv.Value.Str()))
		case logdata.ValueTypeBool:
			out = append(out, attribute.Bool(kv.Key, kv.Value.Bool()))
		case logdata.ValueTypeInt:
			out = append(out, attribute.Int64(kv.Key, kv.Value.Int()))
		case logdata.ValueTypeDouble:
			out = append(out, attribute.Float64(kv.Key, kv.Value.Double()))
		default:
			out = append(out, attribute.String(kv.Key, kv.Value.AsString()))
		}
	}
	return out
}

// NewLoggerProvider creates a provider exporting through OTLP with a batch
// processor. endpoint may be host:port or a URL; for gRPC only the host is
// used, for HTTP a non-empty path replaces the default /v1/logs.
func NewLoggerProvider(ctx context.Context, cfg *ExporterConfig, res logdata.Resource) (*sdklog.LoggerProvider, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid exporter endpoint %q: %w", cfg.Endpoint, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid exporter endpoint %q: missing host", cfg.Endpoint)
	}
	insecure := cfg.Insecure || u.Scheme != "https"

	var exporter sdklog.Exporter
	switch cfg.Protocol {
	case ExporterProtocolHTTP:
		opts := []otlploghttp.Option{otlploghttp.WithEndpoint(u.Host)}
		if u.Path != "" && u.Path != "/" {
			opts = append(opts, otlploghttp.WithURLPath(u.Path))
		}
		if insecure {
			opts = append(opts, otlploghttp.WithInsecure())
		}
		exporter, err = otlploghttp.New(ctx, opts...)
	default:
		opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(u.Host)}
		if insecure {
			opts = append(opts, otlploggrpc.WithInsecure())
		}
		exporter, err = otlploggrpc.New(ctx, opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s log exporter: %w", cfg.Protocol, err)
	}

	return sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
		sdklog.WithResource(resource.NewWithAttributes(semconv.SchemaURL, toAttributes(res.Attributes)...)),
	), nil
}
