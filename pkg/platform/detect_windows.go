// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

//go:build windows

package platform

import "context"

// Detect returns the netsh configurator
func Detect(_ context.Context, _ string) Configurator {
	return NewNetsh()
}

// DefaultInterface returns the name of the wireless adapter
func DefaultInterface() string {
	return "Wi-Fi"
}
