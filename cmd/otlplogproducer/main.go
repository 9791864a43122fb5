// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Command otlplogproducer emits synthetic OTLP log records on a fixed
// interval until it receives SIGINT or SIGTERM.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
