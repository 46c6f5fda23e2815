// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"context"
	"net/netip"
	"time"

	"github.com/telekom/switch-dns/pkg/dnsconf"
)

// WithTimeout bounds every call of c by d. A non-positive d returns c unchanged.
func WithTimeout(c Configurator, d time.Duration) Configurator {
	if d <= 0 {
		return c
	}
	return &timeoutConfigurator{Configurator: c, timeout: d}
}

type timeoutConfigurator struct {
	Configurator
	timeout time.Duration
}

func (t *timeoutConfigurator) Servers(ctx context.Context, iface string, family dnsconf.Family) ([]netip.Addr, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.Configurator.Servers(ctx, iface, family)
}

func (t *timeoutConfigurator) SetServers(ctx context.Context, iface string, family dnsconf.Family, servers []netip.Addr) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.Configurator.SetServers(ctx, iface, family, servers)
}
