// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

//go:build !linux && !windows && !darwin

package platform

import "context"

// Detect returns the resolv.conf configurator
func Detect(_ context.Context, _ string) Configurator {
	return NewResolvConf(defaultResolvConfPath)
}

// DefaultInterface returns "" as the resolv.conf file is not tied to an interface
func DefaultInterface() string {
	return ""
}
