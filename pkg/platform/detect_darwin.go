// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

//go:build darwin

package platform

import "context"

// Detect returns the networksetup configurator
func Detect(_ context.Context, _ string) Configurator {
	return NewNetworksetup()
}

// DefaultInterface returns the name of the wireless network service
func DefaultInterface() string {
	return "Wi-Fi"
}
