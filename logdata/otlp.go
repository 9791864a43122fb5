// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package logdata

import (
	collogspb "go.opentelemetry.io/proto/otlp/collector/logs/v1"
	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	logspb "go.opentelemetry.io/proto/otlp/logs/v1"
	resourcepb "go.opentelemetry.io/proto/otlp/resource/v1"
)

// newExportRequest builds the OTLP export request for env. Attribute and
// kvlist entries are repeated fields, so every entry is kept in order,
// including repeated keys.
func newExportRequest(env Envelope) *collogspb.ExportLogsServiceRequest {
	records := make([]*logspb.LogRecord, len(env.Records))
	for i, rec := range env.Records {
		records[i] = logRecordToProto(rec)
	}

	return &collogspb.ExportLogsServiceRequest{
		ResourceLogs: []*logspb.ResourceLogs{{
			Resource: &resourcepb.Resource{Attributes: keyValuesToProto(env.Resource.Attributes)},
			ScopeLogs: []*logspb.ScopeLogs{{
				Scope: &commonpb.InstrumentationScope{
					Name:       env.Scope.Name,
					Version:    env.Scope.Version,
					Attributes: keyValuesToProto(env.Scope.Attributes),
				},
				LogRecords: records,
			}},
		}},
	}
}

func logRecordToProto(rec LogRecord) *logspb.LogRecord {
	out := &logspb.LogRecord{
		TimeUnixNano:         uint64(rec.Timestamp),
		ObservedTimeUnixNano: uint64(rec.ObservedTimestamp),
		SeverityNumber:       logspb.SeverityNumber(rec.SeverityNumber),
		SeverityText:         rec.SeverityText,
		Attributes:           keyValuesToProto(rec.Attributes),
	}
	if rec.Body.Type() != ValueTypeEmpty {
		out.Body = valueToProto(rec.Body)
	}
	if !rec.TraceID.IsEmpty() {
		out.TraceId = rec.TraceID[:]
	}
	if !rec.SpanID.IsEmpty() {
		out.SpanId = rec.SpanID[:]
	}
	return out
}

func keyValuesToProto(kvs []KeyValue) []*commonpb.KeyValue {
	if len(kvs) == 0 {
		return nil
	}
	out := make([]*commonpb.KeyValue, len(kvs))
	for i, kv := range kvs {
		out[i] = &commonpb.KeyValue{Key: kv.Key, Value: valueToProto(kv.Value)}
	}
	return out
}

func valueToProto(v Value) *commonpb.AnyValue {
	switch v.typ {
	case ValueTypeStr:
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_StringValue{StringValue: v.str}}
	case ValueTypeBool:
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_BoolValue{BoolValue: v.b}}
	case ValueTypeInt:
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_IntValue{IntValue: v.num}}
	case ValueTypeDouble:
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_DoubleValue{DoubleValue: v.dbl}}
	case ValueTypeArray:
		values := make([]*commonpb.AnyValue, len(v.arr))
		for i, e := range v.arr {
			values[i] = valueToProto(e)
		}
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_ArrayValue{ArrayValue: &commonpb.ArrayValue{Values: values}}}
	case ValueTypeMap:
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_KvlistValue{KvlistValue: &commonpb.KeyValueList{Values: keyValuesToProto(v.kvs)}}}
	default:
		return &commonpb.AnyValue{}
	}
}
