// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package switcher

import (
	"fmt"

	"github.com/telekom/switch-dns/pkg/dnsconf"
)

// ErrNothingToApply is returned when a group has no servers in the requested scope
type ErrNothingToApply struct {
	Token string
	Scope dnsconf.Scope
}

func (e ErrNothingToApply) Error() string {
	return fmt.Sprintf("group %q has no DNS servers for scope %s", e.Token, e.Scope)
}
