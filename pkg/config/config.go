// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/telekom/switch-dns/internal/helper"
	"github.com/telekom/switch-dns/pkg/metrics"
	"github.com/telekom/switch-dns/pkg/presets"
)

const (
	// DefaultTimeout bounds every call to the OS network configuration
	DefaultTimeout = 5 * time.Second
	// appDir is the directory below the user config dir holding the snapshot
	appDir = "switch-dns"
	// snapshotFile is the file name of the default snapshot
	snapshotFile = "previous.yaml"
)

type Config struct {
	// Interface is the network interface whose DNS servers are managed
	Interface string `yaml:"interface" mapstructure:"interface"`
	// Backend forces an OS facility instead of detecting one
	Backend string `yaml:"backend" mapstructure:"backend"`
	// Timeout bounds every call to the OS network configuration
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// Quiet suppresses the per-server report of the set command
	Quiet bool `yaml:"quiet" mapstructure:"quiet"`
	// Snapshot is the configuration of the remembered previous servers
	Snapshot SnapshotConfig `yaml:"snapshot" mapstructure:"snapshot"`
	// Verify is the configuration of the read-back after a change
	Verify VerifyConfig `yaml:"verify" mapstructure:"verify"`
	// Groups are custom DNS groups, they replace built-in groups of the same name
	Groups map[string]presets.Group `yaml:"groups" mapstructure:"groups"`
	// Telemetry is the configuration for the telemetry
	Telemetry metrics.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// SnapshotConfig is the configuration of the snapshot file
type SnapshotConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// VerifyConfig is the configuration of the read-back after a change
type VerifyConfig struct {
	Retry helper.RetryConfig `yaml:"retry" mapstructure:"retry"`
}

// HasTelemetry returns true if the config writes metrics or traces
func (c *Config) HasTelemetry() bool {
	return c.Telemetry.Textfile != "" || c.Telemetry.Tracing.Enabled
}

// SnapshotPath returns the configured snapshot path or the default one
// below the user config directory.
func (c *Config) SnapshotPath() (string, error) {
	if c.Snapshot.Path != "" {
		return c.Snapshot.Path, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, snapshotFile), nil
}

// Presets returns the built-in groups extended by the configured ones
func (c *Config) Presets() (*presets.Table, error) {
	return presets.New(c.Groups)
}
