// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/telekom/switch-dns/internal/logger"
	"github.com/telekom/switch-dns/pkg/config"
	"github.com/telekom/switch-dns/pkg/metrics"
	"github.com/telekom/switch-dns/pkg/platform"
	"github.com/telekom/switch-dns/pkg/snapshot"
	"github.com/telekom/switch-dns/pkg/switcher"
)

// newConfigurator creates the OS configurator; replaced in tests
var newConfigurator = platform.New

// extraOptions are appended to the switcher options; set in tests
var extraOptions []switcher.Option

// runFunc is the body of a command that needs a switcher
type runFunc func(ctx context.Context, cmd *cobra.Command, cfg *config.Config, sw *switcher.Switcher) error

// withSwitcher loads the configuration, sets up telemetry and the switcher
// and runs fn. Telemetry is flushed after fn returned.
func withSwitcher(fn runFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, _ []string) (err error) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)

		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}

		telemetry := metrics.New(cfg.Telemetry, cmd.Root().Version)
		if rErr := telemetry.Restore(ctx); rErr != nil {
			log.WarnContext(ctx, "Failed to restore metrics, counting from zero", "error", rErr)
		}
		if err = telemetry.InitTracing(ctx); err != nil {
			return err
		}
		defer func() {
			if sErr := telemetry.Shutdown(context.WithoutCancel(ctx)); sErr != nil {
				log.WarnContext(ctx, "Failed to flush telemetry", "error", sErr)
			}
		}()

		configurator, err := newConfigurator(ctx, cfg.Backend, cfg.Interface)
		if err != nil {
			return err
		}
		log.DebugContext(ctx, "Using DNS backend", "backend", configurator.Name(), "interface", cfg.Interface)

		path, err := cfg.SnapshotPath()
		if err != nil {
			return fmt.Errorf("failed to determine snapshot path: %w", err)
		}
		table, err := cfg.Presets()
		if err != nil {
			return err
		}

		opts := []switcher.Option{
			switcher.WithVerifyRetry(cfg.Verify.Retry),
			switcher.WithRecorder(telemetry.Apply()),
		}
		opts = append(opts, extraOptions...)
		sw := switcher.New(
			platform.WithTimeout(configurator, cfg.Timeout),
			cfg.Interface,
			snapshot.NewFileStore(path),
			table,
			opts...,
		)
		return fn(ctx, cmd, cfg, sw)
	}
}

// loadConfig unmarshals and validates the configuration
func loadConfig(ctx context.Context) (*config.Config, error) {
	cfg := &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Interface == "" {
		cfg.Interface = platform.DefaultInterface()
	}
	if err := cfg.Validate(ctx); err != nil {
		return nil, err
	}
	return cfg, nil
}
