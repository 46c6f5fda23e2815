// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import "errors"

var (
	// ErrInvalidBackend is returned when the backend is unknown
	ErrInvalidBackend = errors.New("invalid backend")
	// ErrInvalidTimeout is returned when the timeout is negative
	ErrInvalidTimeout = errors.New("invalid timeout")
	// ErrInvalidVerifyRetryCount is returned when the verification retry count is invalid
	ErrInvalidVerifyRetryCount = errors.New("invalid verify retry count")
	// ErrInvalidVerifyRetryDelay is returned when the verification retry delay is negative
	ErrInvalidVerifyRetryDelay = errors.New("invalid verify retry delay")
)
