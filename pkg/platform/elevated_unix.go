// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package platform

import "golang.org/x/sys/unix"

// Elevated reports whether the process runs as root
func Elevated() bool {
	return unix.Geteuid() == 0
}
