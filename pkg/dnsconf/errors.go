// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package dnsconf

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSnapshot is returned when a rollback is requested before any change was made
	ErrNoSnapshot = errors.New("no previous configuration remembered")
	// ErrPrivilege is returned when the OS denies changing the DNS configuration
	ErrPrivilege = errors.New("setting DNS servers requires elevated privileges")
	// ErrInterfaceNotFound is returned when the target network interface does not exist
	ErrInterfaceNotFound = errors.New("network interface not found")
	// ErrNotApplied is returned when the OS reports other servers than the ones just written
	ErrNotApplied = errors.New("DNS servers not set correctly")
	// ErrInvalidAddress is returned when an address is malformed or of the wrong family
	ErrInvalidAddress = errors.New("invalid DNS server address")
)

// ErrUnknownGroup is returned when a token names neither a group nor a marker
type ErrUnknownGroup struct {
	Token string
}

func (e ErrUnknownGroup) Error() string {
	return fmt.Sprintf("unknown DNS group %q", e.Token)
}

// ErrUnsupportedTier is returned for server indices beyond the reserve slot
type ErrUnsupportedTier struct {
	Tier Tier
}

func (e ErrUnsupportedTier) Error() string {
	return fmt.Sprintf("cannot handle DNS tier %s, only Primary and Reserve are supported", e.Tier)
}
