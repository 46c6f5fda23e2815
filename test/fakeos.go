// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package test provides an in-memory OS network configuration for tests.
package test

import (
	"context"
	"net/netip"
	"slices"
	"sync"

	"github.com/telekom/switch-dns/pkg/dnsconf"
	"github.com/telekom/switch-dns/pkg/platform"
)

// Interface is the only interface known to a [FakeOS]
const Interface = "eth0"

// FakeOS holds the static DNS servers of [Interface] in memory.
type FakeOS struct {
	mu      sync.Mutex
	servers map[dnsconf.Family][]netip.Addr
	// IgnoreWrites makes SetServers succeed without changing anything
	IgnoreWrites bool
	// FailOn makes SetServers fail for the family
	FailOn map[dnsconf.Family]error
	// Rewrite, if set, replaces the servers SetServers stores
	Rewrite func(f dnsconf.Family, servers []netip.Addr) []netip.Addr
}

// NewFakeOS returns a fake OS with the given initial configuration
func NewFakeOS(initial dnsconf.AddressSet) *FakeOS {
	o := &FakeOS{
		servers: map[dnsconf.Family][]netip.Addr{},
		FailOn:  map[dnsconf.Family]error{},
	}
	for _, f := range dnsconf.Families() {
		o.servers[f] = initial.Servers(f)
	}
	return o
}

// Configurator returns a configurator mock backed by the fake OS.
// Other interfaces than [Interface] report [dnsconf.ErrInterfaceNotFound].
func (o *FakeOS) Configurator() *platform.ConfiguratorMock {
	return &platform.ConfiguratorMock{
		NameFunc: func() string { return "fake" },
		ServersFunc: func(_ context.Context, iface string, f dnsconf.Family) ([]netip.Addr, error) {
			if iface != Interface {
				return nil, dnsconf.ErrInterfaceNotFound
			}
			o.mu.Lock()
			defer o.mu.Unlock()
			return slices.Clone(o.servers[f]), nil
		},
		SetServersFunc: func(_ context.Context, iface string, f dnsconf.Family, servers []netip.Addr) error {
			if iface != Interface {
				return dnsconf.ErrInterfaceNotFound
			}
			o.mu.Lock()
			defer o.mu.Unlock()
			if err := o.FailOn[f]; err != nil {
				return err
			}
			if o.IgnoreWrites {
				return nil
			}
			if o.Rewrite != nil {
				servers = o.Rewrite(f, servers)
			}
			o.servers[f] = slices.Clone(servers)
			return nil
		},
	}
}

// State returns the current configuration
func (o *FakeOS) State() dnsconf.AddressSet {
	o.mu.Lock()
	defer o.mu.Unlock()
	var set dnsconf.AddressSet
	for _, f := range dnsconf.Families() {
		set = set.With(f, dnsconf.FromServers(f, o.servers[f]))
	}
	return set
}

// Replace changes the configuration behind the back of the configurator
func (o *FakeOS) Replace(set dnsconf.AddressSet) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, f := range dnsconf.Families() {
		o.servers[f] = set.Servers(f)
	}
}

// ReplaceFamily sets the complete server list of f, which may hold more than two entries
func (o *FakeOS) ReplaceFamily(f dnsconf.Family, servers ...string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.servers[f] = nil
	for _, s := range servers {
		o.servers[f] = append(o.servers[f], netip.MustParseAddr(s))
	}
}

// Set builds an address set from strings, an empty string leaves the slot absent.
// It panics on malformed addresses.
func Set(v4p, v4s, v6p, v6s string) dnsconf.AddressSet {
	parse := func(s string) netip.Addr {
		if s == "" {
			return netip.Addr{}
		}
		return netip.MustParseAddr(s)
	}
	return dnsconf.AddressSet{
		IPv4Primary:   parse(v4p),
		IPv4Secondary: parse(v4s),
		IPv6Primary:   parse(v6p),
		IPv6Secondary: parse(v6s),
	}
}
