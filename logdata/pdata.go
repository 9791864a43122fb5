// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package logdata

import (
	"fmt"

	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.opentelemetry.io/collector/pdata/plog"
	"go.opentelemetry.io/collector/pdata/plog/plogotlp"
	"google.golang.org/protobuf/proto"
)

// ToLogs converts an envelope to plog.Logs with one resource and one scope.
// It is loaded through the OTLP protobuf form so repeated attribute keys keep
// every entry in order.
func ToLogs(env Envelope) (plog.Logs, error) {
	b, err := proto.Marshal(newExportRequest(env))
	if err != nil {
		return plog.NewLogs(), fmt.Errorf("failed to encode log envelope: %w", err)
	}

	req := plogotlp.NewExportRequest()
	if err := req.UnmarshalProto(b); err != nil {
		return plog.NewLogs(), fmt.Errorf("failed to load log envelope: %w", err)
	}
	return req.Logs(), nil
}

// FromLogs converts plog.Logs back into envelopes, one per resource/scope pair
func FromLogs(logs plog.Logs) []Envelope {
	var envs []Envelope
	for i := 0; i < logs.ResourceLogs().Len(); i++ {
		resourceLogs := logs.ResourceLogs().At(i)
		resource := Resource{Attributes: attributesFromMap(resourceLogs.Resource().Attributes())}

		for j := 0; j < resourceLogs.ScopeLogs().Len(); j++ {
			scopeLogs := resourceLogs.ScopeLogs().At(j)
			env := Envelope{
				Resource: resource,
				Scope: Scope{
					Name:       scopeLogs.Scope().Name(),
					Version:    scopeLogs.Scope().Version(),
					Attributes: attributesFromMap(scopeLogs.Scope().Attributes()),
				},
			}
			for k := 0; k < scopeLogs.LogRecords().Len(); k++ {
				env.Records = append(env.Records, recordFromPdata(scopeLogs.LogRecords().At(k)))
			}
			envs = append(envs, env)
		}
	}
	return envs
}

func recordFromPdata(logRecord plog.LogRecord) LogRecord {
	return LogRecord{
		Timestamp:         logRecord.Timestamp(),
		ObservedTimestamp: logRecord.ObservedTimestamp(),
		SeverityNumber:    logRecord.SeverityNumber(),
		SeverityText:      logRecord.SeverityText(),
		TraceID:           logRecord.TraceID(),
		SpanID:            logRecord.SpanID(),
		Body:              valueFromPdata(logRecord.Body()),
		Attributes:        attributesFromMap(logRecord.Attributes()),
	}
}

func attributesFromMap(attrs pcommon.Map) []KeyValue {
	if attrs.Len() == 0 {
		return nil
	}
	kvs := make([]KeyValue, 0, attrs.Len())
	attrs.Range(func(k string, v pcommon.Value) bool {
		kvs = append(kvs, KeyValue{Key: k, Value: valueFromPdata(v)})
		return true
	})
	return kvs
}

func valueFromPdata(v pcommon.Value) Value {
	switch v.Type() {
	case pcommon.ValueTypeStr:
		return StringValue(v.Str())
	case pcommon.ValueTypeBool:
		return BoolValue(v.Bool())
	case pcommon.ValueTypeInt:
		return IntValue(v.Int())
	case pcommon.ValueTypeDouble:
		return DoubleValue(v.Double())
	case pcommon.ValueTypeSlice:
		slice := v.Slice()
		arr := make([]Value, slice.Len())
		for i := 0; i < slice.Len(); i++ {
			arr[i] = valueFromPdata(slice.At(i))
		}
		return ArrayValue(arr...)
	case pcommon.ValueTypeMap:
		return MapValue(attributesFromMap(v.Map())...)
	case pcommon.ValueTypeBytes:
		// No bytes variant in the model; keep the base64 text form.
		return StringValue(v.AsString())
	default:
		return Value{}
	}
}
