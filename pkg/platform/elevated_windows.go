// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

//go:build windows

package platform

import "golang.org/x/sys/windows"

// Elevated reports whether the process token is elevated
func Elevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}
