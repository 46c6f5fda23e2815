// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package switcher

import (
	"context"
	"fmt"
	"net/netip"

	"github.com/telekom/switch-dns/pkg/dnsconf"
	"github.com/telekom/switch-dns/pkg/platform"
)

// Reader reports the address set currently active on an interface.
type Reader struct {
	configurator platform.Configurator
	iface        string
}

// NewReader returns a reader for iface.
func NewReader(c platform.Configurator, iface string) *Reader {
	return &Reader{configurator: c, iface: iface}
}

// Interface returns the name of the interface the reader queries.
func (r *Reader) Interface() string {
	return r.iface
}

// Backend returns the name of the configurator used to query the OS.
func (r *Reader) Backend() string {
	return r.configurator.Name()
}

// Read returns the statically configured servers of both families.
// Servers the OS obtained automatically are reported as absent.
func (r *Reader) Read(ctx context.Context) (dnsconf.AddressSet, error) {
	var set dnsconf.AddressSet
	for _, f := range dnsconf.Families() {
		part, err := r.ReadFamily(ctx, f)
		if err != nil {
			return dnsconf.AddressSet{}, err
		}
		set = set.With(f, part)
	}
	return set, nil
}

// ReadFamily returns an address set holding only the servers of f.
func (r *Reader) ReadFamily(ctx context.Context, f dnsconf.Family) (dnsconf.AddressSet, error) {
	servers, err := r.configurator.Servers(ctx, r.iface, f)
	if err != nil {
		return dnsconf.AddressSet{}, r.readError(f, err)
	}
	return dnsconf.FromServers(f, servers), nil
}

// Servers returns every statically configured server of both families in
// priority order, including the ones beyond the reserve slot.
func (r *Reader) Servers(ctx context.Context) (map[dnsconf.Family][]netip.Addr, error) {
	all := make(map[dnsconf.Family][]netip.Addr, len(dnsconf.Families()))
	for _, f := range dnsconf.Families() {
		servers, err := r.configurator.Servers(ctx, r.iface, f)
		if err != nil {
			return nil, r.readError(f, err)
		}
		all[f] = dnsconf.FamilyServers(f, servers)
	}
	return all, nil
}

func (r *Reader) readError(f dnsconf.Family, err error) error {
	return fmt.Errorf("failed to read %s DNS servers of %q: %w", f.Label(), r.iface, err)
}
