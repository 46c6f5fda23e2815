// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

//go:build !linux

package platform

func newDBusConfigurator(string) (Configurator, bool) {
	return nil, false
}
