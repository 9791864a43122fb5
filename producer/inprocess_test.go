// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package producer

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/collector/pdata/plog/plogotlp"
	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap/zaptest"

	"github.com/bruegth/otlp-log-producer/logdata"
	"github.com/bruegth/otlp-log-producer/producer/testdata"
)

func newInMemoryAdapter(t *testing.T, b *RecordBuilder) (*InProcessAdapter, *testdata.InMemoryExporter) {
	t.Helper()
	exp := &testdata.InMemoryExporter{}
	provider := sdklog.NewLoggerProvider(sdklog.WithProcessor(sdklog.NewSimpleProcessor(exp)))
	return NewInProcessAdapter(provider, b.Scope()), exp
}

func TestInProcessAdapterEmitsRecord(t *testing.T) {
	b := newTestBuilder(BodyCounter)
	adapter, exp := newInMemoryAdapter(t, b)

	env := b.Envelope(5)
	require.NoError(t, adapter.Deliver(context.Background(), env))

	records := exp.Records()
	require.Len(t, records, 1)
	got := records[0]
	want := env.Records[0]

	assert.Equal(t, "Log incident #5", got.Body().AsString())
	assert.Equal(t, otellog.Severity(want.SeverityNumber), got.Severity())
	assert.Equal(t, "Information", got.SeverityText())
	assert.True(t, want.Timestamp.AsTime().Equal(got.Timestamp()))
	assert.True(t, want.ObservedTimestamp.AsTime().Equal(got.ObservedTimestamp()))
	assert.Equal(t, trace.TraceID(want.TraceID), got.TraceID())
	assert.Equal(t, trace.SpanID(want.SpanID), got.SpanID())

	scope := got.InstrumentationScope()
	assert.Equal(t, "my.library", scope.Name)
	assert.Equal(t, "1.0.0", scope.Version)
	scopeAttr, ok := scope.Attributes.Value("my.scope.attribute")
	require.True(t, ok)
	assert.Equal(t, "some scope attribute", scopeAttr.AsString())
}

func TestInProcessAdapterAttributes(t *testing.T) {
	b := newTestBuilder(BodyRandom)
	adapter, exp := newInMemoryAdapter(t, b)

	require.NoError(t, adapter.Deliver(context.Background(), b.Envelope(0)))
	records := exp.Records()
	require.Len(t, records, 1)

	attrs := make(map[string]otellog.Value)
	var keys []string
	records[0].WalkAttributes(func(kv otellog.KeyValue) bool {
		keys = append(keys, kv.Key)
		attrs[kv.Key] = kv.Value
		return true
	})

	assert.Equal(t, []string{
		"string.attribute",
		"boolean.attribute",
		"int.attribute",
		"double.attribute",
		"array.attribute",
		"map.attribute",
	}, keys)

	assert.Equal(t, otellog.KindString, attrs["string.attribute"].Kind())
	assert.Equal(t, otellog.KindBool, attrs["boolean.attribute"].Kind())
	assert.Equal(t, otellog.KindInt64, attrs["int.attribute"].Kind())
	assert.Equal(t, otellog.KindFloat64, attrs["double.attribute"].Kind())

	arr := attrs["array.attribute"]
	require.Equal(t, otellog.KindSlice, arr.Kind())
	require.Len(t, arr.AsSlice(), 2)
	assert.Equal(t, "many", arr.AsSlice()[0].AsString())
	assert.Equal(t, "values", arr.AsSlice()[1].AsString())

	m := attrs["map.attribute"]
	require.Equal(t, otellog.KindMap, m.Kind())
	require.Len(t, m.AsMap(), 1)
	assert.Equal(t, "some.map.key", m.AsMap()[0].Key)
	assert.Equal(t, "some value", m.AsMap()[0].Value.AsString())
}

func TestInProcessAdapterShutdown(t *testing.T) {
	b := newTestBuilder(BodyRandom)
	adapter, exp := newInMemoryAdapter(t, b)

	require.NoError(t, adapter.Shutdown(context.Background()))
	require.NoError(t, adapter.Shutdown(context.Background()))
	assert.True(t, exp.IsShutdown())

	err := adapter.Deliver(context.Background(), b.Envelope(0))
	assert.ErrorIs(t, err, ErrAdapterClosed)

	var deliveryErr *DeliveryError
	require.ErrorAs(t, err, &deliveryErr)
	assert.Equal(t, "in_process", deliveryErr.Adapter)
	assert.Empty(t, exp.Records())
}

func TestInProcessAdapterRejectsEmptyEnvelope(t *testing.T) {
	adapter, exp := newInMemoryAdapter(t, newTestBuilder(BodyRandom))

	err := adapter.Deliver(context.Background(), logdata.Envelope{})
	assert.ErrorIs(t, err, logdata.ErrEmptyEnvelope)
	assert.Empty(t, exp.Records())
}

func TestInProcessAdapterExportsOverGRPC(t *testing.T) {
	collector, err := testdata.NewMockCollector(zaptest.NewLogger(t))
	require.NoError(t, err)
	defer collector.Stop()

	cfg := NewDefaultConfig()
	cfg.Delivery = DeliveryInProcess
	cfg.Body = BodyCounter
	cfg.Exporter.Endpoint = collector.Endpoint()
	cfg.Exporter.Protocol = ExporterProtocolGRPC
	b := NewRecordBuilder(cfg)

	adapter, err := NewAdapter(context.Background(), cfg, b, zaptest.NewLogger(t))
	require.NoError(t, err)

	env := b.Envelope(11)
	require.NoError(t, adapter.Deliver(context.Background(), env))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, adapter.Shutdown(ctx))

	records := collector.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "Log incident #11", records[0].GetBody().GetStringValue())
	assert.Equal(t, env.Records[0].TraceID[:], records[0].GetTraceId())
	assert.Equal(t, env.Records[0].SpanID[:], records[0].GetSpanId())
	assert.Equal(t, []string{"my.library"}, collector.Scopes())
}

func TestInProcessAdapterExportsOverHTTP(t *testing.T) {
	var mu sync.Mutex
	var received []plogotlp.ExportRequest
	var paths []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)

		req := plogotlp.NewExportRequest()
		assert.NoError(t, req.UnmarshalProto(body))

		mu.Lock()
		received = append(received, req)
		paths = append(paths, r.URL.Path)
		mu.Unlock()

		resp, err := plogotlp.NewExportResponse().MarshalProto()
		assert.NoError(t, err)
		w.Header().Set("Content-Type", "application/x-protobuf")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(resp)
	}))
	defer srv.Close()

	cfg := NewDefaultConfig()
	cfg.Exporter.Endpoint = srv.URL
	cfg.Exporter.Protocol = ExporterProtocolHTTP
	b := NewRecordBuilder(cfg)

	provider, err := NewLoggerProvider(context.Background(), &cfg.Exporter, b.Resource())
	require.NoError(t, err)
	adapter := NewInProcessAdapter(provider, b.Scope())

	require.NoError(t, adapter.Deliver(context.Background(), b.Envelope(0)))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, adapter.Shutdown(ctx))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	assert.Equal(t, "/v1/logs", paths[0])

	envs := logdata.FromLogs(received[0].Logs())
	require.Len(t, envs, 1)
	name, ok := logdata.Lookup(envs[0].Resource.Attributes, "service.name")
	require.True(t, ok)
	assert.Equal(t, "my.service", name.Str())
	assert.Equal(t, "my.library", envs[0].Scope.Name)
	require.Len(t, envs[0].Records, 1)
	assert.Regexp(t, randomBody, envs[0].Records[0].Body.Str())
}

func TestNewLoggerProviderRejectsBadEndpoint(t *testing.T) {
	cfg := NewDefaultConfig().Exporter
	cfg.Endpoint = "http://"

	_, err := NewLoggerProvider(context.Background(), &cfg, logdata.Resource{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing host")
}
