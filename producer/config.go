// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package producer

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"time"
)

// DeliveryKind selects how generated envelopes leave the process
type DeliveryKind string

const (
	// DeliveryInProcess hands records to an OTel logger provider which
	// batches and exports them.
	DeliveryInProcess DeliveryKind = "in_process"
	// DeliveryRemote POSTs each envelope to an OTLP/HTTP endpoint.
	DeliveryRemote DeliveryKind = "remote"
	// DeliveryPipeline hands envelopes to the next consumer of a collector
	// pipeline. Only available when running as a collector receiver.
	DeliveryPipeline DeliveryKind = "pipeline"
)

// BodyStrategy selects the log body generated for each record
type BodyStrategy string

const (
	// BodyCounter produces "Log incident #<seq>"
	BodyCounter BodyStrategy = "counter"
	// BodyRandom produces a random 20 character [A-Z0-9] string
	BodyRandom BodyStrategy = "random"
)

// Encoding is the payload encoding used by the remote adapter
type Encoding string

const (
	EncodingJSON  Encoding = "json"
	EncodingProto Encoding = "proto"
)

// ExporterProtocol is the OTLP transport used by the in-process exporter
type ExporterProtocol string

const (
	ExporterProtocolGRPC ExporterProtocol = "grpc"
	ExporterProtocolHTTP ExporterProtocol = "http"
)

var (
	validDeliveryKinds = []DeliveryKind{DeliveryInProcess, DeliveryRemote, DeliveryPipeline}
	validBodies        = []BodyStrategy{BodyCounter, BodyRandom}
	validEncodings     = []Encoding{EncodingJSON, EncodingProto}
	validProtocols     = []ExporterProtocol{ExporterProtocolGRPC, ExporterProtocolHTTP}
)

// UnmarshalText implements encoding.TextUnmarshaler
func (k *DeliveryKind) UnmarshalText(text []byte) error {
	return unmarshalEnum(k, text, validDeliveryKinds, "delivery")
}

// UnmarshalText implements encoding.TextUnmarshaler
func (b *BodyStrategy) UnmarshalText(text []byte) error {
	return unmarshalEnum(b, text, validBodies, "body")
}

// UnmarshalText implements encoding.TextUnmarshaler
func (e *Encoding) UnmarshalText(text []byte) error {
	return unmarshalEnum(e, text, validEncodings, "encoding")
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *ExporterProtocol) UnmarshalText(text []byte) error {
	return unmarshalEnum(p, text, validProtocols, "protocol")
}

func unmarshalEnum[T ~string](dst *T, text []byte, valid []T, name string) error {
	v := T(text)
	if !slices.Contains(valid, v) {
		return fmt.Errorf("invalid %s: %s, must be one of: %v", name, v, valid)
	}
	*dst = v
	return nil
}

// Config defines configuration for the log producer
type Config struct {
	// Delivery selects the delivery adapter (in_process, remote, pipeline)
	Delivery DeliveryKind `mapstructure:"delivery" env:"PRODUCER_DELIVERY"`

	// Body selects the body strategy (counter, random)
	Body BodyStrategy `mapstructure:"body" env:"PRODUCER_BODY"`

	// Interval is the delay between the end of one delivery and the next tick
	Interval time.Duration `mapstructure:"interval" env:"PRODUCER_INTERVAL"`

	// ShutdownTimeout bounds the final flush of the delivery pipeline
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" env:"PRODUCER_SHUTDOWN_TIMEOUT"`

	// SeverityText is the label attached to every record
	SeverityText string `mapstructure:"severity_text" env:"PRODUCER_SEVERITY_TEXT"`

	// Remote configures the remote adapter
	Remote RemoteConfig `mapstructure:"remote"`

	// Exporter configures the OTLP exporter behind the in-process adapter
	Exporter ExporterConfig `mapstructure:"exporter"`

	// Resource contains the resource attributes of every envelope
	Resource ResourceConfig `mapstructure:"resource"`

	// Scope contains the instrumentation scope of every envelope
	Scope ScopeConfig `mapstructure:"scope"`
}

// RemoteConfig defines the direct OTLP/HTTP transmission settings
type RemoteConfig struct {
	// Endpoint is the full URL envelopes are POSTed to (e.g. http://localhost:4318/v1/logs)
	Endpoint string `mapstructure:"endpoint" env:"OTLP_HTTP_ENDPOINT"`

	// Encoding is the request payload encoding (json, proto)
	Encoding Encoding `mapstructure:"encoding" env:"PRODUCER_ENCODING"`

	// RequestTimeout bounds every POST so a hung endpoint cannot stall the loop
	RequestTimeout time.Duration `mapstructure:"request_timeout" env:"PRODUCER_REQUEST_TIMEOUT"`

	// FailOnHTTPStatus counts non-2xx responses as delivery failures
	FailOnHTTPStatus bool `mapstructure:"fail_on_http_status" env:"PRODUCER_FAIL_ON_HTTP_STATUS"`
}

// ExporterConfig defines the OTLP exporter used by the in-process adapter
type ExporterConfig struct {
	// Endpoint is the exporter target, host:port or a URL
	Endpoint string `mapstructure:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	// Protocol is the OTLP transport (grpc, http)
	Protocol ExporterProtocol `mapstructure:"protocol" env:"OTEL_EXPORTER_OTLP_PROTOCOL"`

	// Insecure disables TLS towards the exporter target
	Insecure bool `mapstructure:"insecure" env:"OTEL_EXPORTER_OTLP_INSECURE"`
}

// ResourceConfig defines resource attributes
type ResourceConfig struct {
	// ServiceName is emitted as service.name
	ServiceName string `mapstructure:"service_name" env:"OTEL_SERVICE_NAME"`

	// ServiceNamespace is emitted as service.namespace when set
	ServiceNamespace string `mapstructure:"service_namespace" env:"PRODUCER_SERVICE_NAMESPACE"`
}

// ScopeConfig defines the instrumentation scope
type ScopeConfig struct {
	Name    string `mapstructure:"name" env:"PRODUCER_SCOPE_NAME"`
	Version string `mapstructure:"version" env:"PRODUCER_SCOPE_VERSION"`
}

// NewDefaultConfig returns the configuration of the reference producer
func NewDefaultConfig() *Config {
	return &Config{
		Delivery:        DeliveryRemote,
		Body:            BodyRandom,
		Interval:        3 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		SeverityText:    "Information",
		Remote: RemoteConfig{
			Endpoint:       "http://localhost:4318/v1/logs",
			Encoding:       EncodingJSON,
			RequestTimeout: 5 * time.Second,
		},
		Exporter: ExporterConfig{
			Endpoint: "localhost:4317",
			Protocol: ExporterProtocolGRPC,
			Insecure: true,
		},
		Resource: ResourceConfig{
			ServiceName: "my.service",
		},
		Scope: ScopeConfig{
			Name:    "my.library",
			Version: "1.0.0",
		},
	}
}

// Validate validates the configuration
func (cfg *Config) Validate() error {
	if !slices.Contains(validDeliveryKinds, cfg.Delivery) {
		return fmt.Errorf("invalid delivery: %s, must be one of: %v", cfg.Delivery, validDeliveryKinds)
	}

	if !slices.Contains(validBodies, cfg.Body) {
		return fmt.Errorf("invalid body: %s, must be one of: %v", cfg.Body, validBodies)
	}

	if cfg.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got: %s", cfg.Interval)
	}

	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive, got: %s", cfg.ShutdownTimeout)
	}

	if cfg.Resource.ServiceName == "" {
		return errors.New("resource service_name must be specified")
	}

	if cfg.Scope.Name == "" {
		return errors.New("scope name must be specified")
	}

	switch cfg.Delivery {
	case DeliveryRemote:
		return cfg.Remote.validate()
	case DeliveryInProcess:
		return cfg.Exporter.validate()
	}

	return nil
}

func (cfg *RemoteConfig) validate() error {
	if cfg.Endpoint == "" {
		return errors.New("remote endpoint must be specified")
	}

	u, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid remote endpoint %q: %w", cfg.Endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("remote endpoint must start with http:// or https://, got: %s", cfg.Endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("remote endpoint %q is missing a host", cfg.Endpoint)
	}

	if !slices.Contains(validEncodings, cfg.Encoding) {
		return fmt.Errorf("invalid encoding: %s, must be one of: %v", cfg.Encoding, validEncodings)
	}

	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got: %s", cfg.RequestTimeout)
	}

	return nil
}

func (cfg *ExporterConfig) validate() error {
	if cfg.Endpoint == "" {
		return errors.New("exporter endpoint must be specified")
	}

	if !slices.Contains(validProtocols, cfg.Protocol) {
		return fmt.Errorf("invalid exporter protocol: %s, must be one of: %v", cfg.Protocol, validProtocols)
	}

	return nil
}
