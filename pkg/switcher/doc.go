// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package switcher reads, resolves and applies DNS server configurations of a
// single network interface and remembers the configuration replaced by the
// most recent change so it can be rolled back.
//
// The OS is only reached through a [platform.Configurator]; everything in this
// package is independent of the operating system.
package switcher
