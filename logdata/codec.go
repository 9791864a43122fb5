// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package logdata

import (
	"errors"
	"fmt"

	"go.opentelemetry.io/collector/pdata/plog/plogotlp"
	"google.golang.org/protobuf/proto"
)

// MarshalJSON encodes the envelope as an OTLP/JSON logs export request
func MarshalJSON(env Envelope) ([]byte, error) {
	logs, err := ToLogs(env)
	if err != nil {
		return nil, err
	}
	b, err := plogotlp.NewExportRequestFromLogs(logs).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal OTLP/JSON request: %w", err)
	}
	return b, nil
}

// MarshalProto encodes the envelope as an OTLP/protobuf logs export request
func MarshalProto(env Envelope) ([]byte, error) {
	b, err := proto.Marshal(newExportRequest(env))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal OTLP/protobuf request: %w", err)
	}
	return b, nil
}

// UnmarshalJSON decodes an OTLP/JSON logs export request holding exactly one
// resource/scope pair
func UnmarshalJSON(b []byte) (Envelope, error) {
	req := plogotlp.NewExportRequest()
	if err := req.UnmarshalJSON(b); err != nil {
		return Envelope{}, fmt.Errorf("failed to unmarshal OTLP/JSON request: %w", err)
	}
	return singleEnvelope(req)
}

// UnmarshalProto decodes an OTLP/protobuf logs export request holding exactly
// one resource/scope pair
func UnmarshalProto(b []byte) (Envelope, error) {
	req := plogotlp.NewExportRequest()
	if err := req.UnmarshalProto(b); err != nil {
		return Envelope{}, fmt.Errorf("failed to unmarshal OTLP/protobuf request: %w", err)
	}
	return singleEnvelope(req)
}

func singleEnvelope(req plogotlp.ExportRequest) (Envelope, error) {
	envs := FromLogs(req.Logs())
	switch len(envs) {
	case 0:
		return Envelope{}, errors.New("request contains no scope logs")
	case 1:
		return envs[0], nil
	default:
		return Envelope{}, fmt.Errorf("request contains %d scope logs, expected 1", len(envs))
	}
}
