// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/telekom/switch-dns/internal/logger"
	"github.com/telekom/switch-dns/pkg/platform"
)

const maxVerifyRetries = 5

// Validate validates the startup config
func (c *Config) Validate(ctx context.Context) (err error) {
	log := logger.FromContext(ctx)
	if c.Backend != "" && !slices.Contains(platform.Backends(), c.Backend) {
		log.Error("The backend is not supported", "backend", c.Backend, "supported", platform.Backends())
		err = errors.Join(err, ErrInvalidBackend)
	}

	if c.Timeout < 0 {
		log.Error("The timeout should be equal or above 0", "timeout", c.Timeout)
		err = errors.Join(err, ErrInvalidTimeout)
	}

	if vErr := c.Verify.Validate(ctx); vErr != nil {
		log.Error("The verify configuration is invalid")
		err = errors.Join(err, vErr)
	}

	if _, vErr := c.Presets(); vErr != nil {
		log.Error("The DNS groups are invalid")
		err = errors.Join(err, vErr)
	}

	if c.HasTelemetry() {
		if vErr := c.Telemetry.Validate(ctx); vErr != nil {
			log.Error("The telemetry configuration is invalid")
			err = errors.Join(err, vErr)
		}
	}

	if err != nil {
		return fmt.Errorf("validation of configuration failed: %w", err)
	}
	return nil
}

// Validate validates the verify configuration
func (c *VerifyConfig) Validate(ctx context.Context) error {
	log := logger.FromContext(ctx)

	if c.Retry.Count < 0 || c.Retry.Count > maxVerifyRetries {
		log.Error("The amount of verify retries should be between 0 and 5", "retryCount", c.Retry.Count)
		return ErrInvalidVerifyRetryCount
	}
	if c.Retry.Delay < 0 {
		log.Error("The verify retry delay should be equal or above 0", "retryDelay", c.Retry.Delay)
		return ErrInvalidVerifyRetryDelay
	}
	return nil
}
