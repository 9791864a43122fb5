// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bruegth/otlp-log-producer/internal/logging"
	"github.com/bruegth/otlp-log-producer/producer"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "otlplogproducer",
		Short:        "Emit synthetic OTLP log records",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logCfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}

			logger, err := logging.New(logCfg)
			if err != nil {
				return err
			}
			defer logging.Sync(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, logger)
		},
	}

	flags := cmd.Flags()
	flags.String("delivery", string(producer.DeliveryRemote), "Delivery adapter: remote or in_process")
	flags.String("body", string(producer.BodyRandom), "Body strategy: counter or random")
	flags.Duration("interval", 3*time.Second, "Delay between the end of one delivery and the next tick")
	flags.String("endpoint", "", "Remote URL or exporter endpoint, depending on the delivery")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")

	return cmd
}

// loadConfig layers env values over defaults and explicitly set flags over env
func loadConfig(flags *pflag.FlagSet) (*producer.Config, logging.Config, error) {
	cfg := producer.NewDefaultConfig()
	if err := env.Parse(cfg); err != nil {
		return nil, logging.Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	var logCfg logging.Config
	if err := env.Parse(&logCfg); err != nil {
		return nil, logging.Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	if flags.Changed("delivery") {
		v, _ := flags.GetString("delivery")
		if err := cfg.Delivery.UnmarshalText([]byte(v)); err != nil {
			return nil, logCfg, err
		}
	}
	if flags.Changed("body") {
		v, _ := flags.GetString("body")
		if err := cfg.Body.UnmarshalText([]byte(v)); err != nil {
			return nil, logCfg, err
		}
	}
	if flags.Changed("interval") {
		cfg.Interval, _ = flags.GetDuration("interval")
	}
	if flags.Changed("endpoint") {
		v, _ := flags.GetString("endpoint")
		if cfg.Delivery == producer.DeliveryInProcess {
			cfg.Exporter.Endpoint = v
		} else {
			cfg.Remote.Endpoint = v
		}
	}
	if flags.Changed("log-level") {
		logCfg.Level, _ = flags.GetString("log-level")
	}
	if logCfg.ServiceName == "" {
		logCfg.ServiceName = cfg.Resource.ServiceName
	}

	if cfg.Delivery == producer.DeliveryPipeline {
		return nil, logCfg, errors.New("delivery pipeline is only available inside a collector, use the logproducer receiver")
	}
	if err := cfg.Validate(); err != nil {
		return nil, logCfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, logCfg, nil
}

// run drives the producer until ctx is done. Cancellation requests a stop;
// the in-flight delivery and the adapter teardown still complete.
func run(ctx context.Context, cfg *producer.Config, logger *zap.Logger) error {
	logger.Info("Starting the application",
		zap.String("delivery", string(cfg.Delivery)),
		zap.String("body", string(cfg.Body)))

	builder := producer.NewRecordBuilder(cfg)
	adapter, err := producer.NewAdapter(ctx, cfg, builder, logger)
	if err != nil {
		return fmt.Errorf("failed to create delivery adapter: %w", err)
	}

	stop := producer.NewShutdownController(logger)
	loop, err := producer.NewLoop(cfg, builder, adapter, stop, producer.LoopSettings{Logger: logger})
	if err != nil {
		return multierr.Append(err, adapter.Shutdown(context.WithoutCancel(ctx)))
	}

	loopDone := make(chan struct{})
	var g errgroup.Group
	g.Go(func() error {
		defer close(loopDone)
		return loop.Run(context.WithoutCancel(ctx))
	})
	g.Go(func() error {
		select {
		case <-ctx.Done():
			stop.RequestStop()
		case <-loopDone:
		}
		return nil
	})

	err = g.Wait()
	logger.Info("Bye!",
		zap.Uint64("attempts", loop.Attempts()),
		zap.Uint64("failures", loop.Failures()))
	return err
}
