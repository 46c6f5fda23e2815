// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package dnsconf holds the data model shared by every layer of switch-dns:
// the four slot [AddressSet], address families, operation scopes and the
// error kinds surfaced to the user.
package dnsconf
