// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"strings"

	"github.com/telekom/switch-dns/internal/logger"
	"github.com/telekom/switch-dns/pkg/dnsconf"
)

var _ Configurator = (*Netsh)(nil)

// Netsh manages DNS servers of a Windows connection, e.g. "Wi-Fi", with netsh.
type Netsh struct {
	run    runFunc
	lookup func(name string) (*net.Interface, error)
}

// NewNetsh returns a netsh based configurator.
func NewNetsh() *Netsh {
	return &Netsh{
		run:    runCommand,
		lookup: lookupInterface,
	}
}

// Name returns the configurator name
func (n *Netsh) Name() string {
	return BackendNetsh
}

// Servers returns the statically configured DNS servers of the family
func (n *Netsh) Servers(ctx context.Context, iface string, family dnsconf.Family) ([]netip.Addr, error) {
	if _, err := n.lookup(iface); err != nil {
		return nil, err
	}

	out, err := n.run(ctx, "netsh", "interface", string(family), "show", "dnsservers", "name="+iface)
	if err != nil {
		return nil, classifyNetshError(iface, out, err)
	}
	return filterFamily(family, parseNetshServers(out)), nil
}

// SetServers replaces the static DNS servers of the family.
// The first server is set with "set dnsservers", the following ones are
// added at their index.
func (n *Netsh) SetServers(ctx context.Context, iface string, family dnsconf.Family, servers []netip.Addr) error {
	log := logger.FromContext(ctx).With("backend", n.Name(), "interface", iface, "family", family)
	if _, err := n.lookup(iface); err != nil {
		return err
	}

	name := "name=" + iface
	if len(servers) == 0 {
		log.DebugContext(ctx, "Reverting DNS servers to DHCP")
		out, err := n.run(ctx, "netsh", "interface", string(family), "set", "dnsservers", name, "source=dhcp")
		if err != nil {
			return classifyNetshError(iface, out, err)
		}
		return nil
	}

	out, err := n.run(ctx, "netsh", "interface", string(family), "set", "dnsservers", name,
		"source=static", "address="+servers[0].String(), "register=primary", "validate=no")
	if err != nil {
		return classifyNetshError(iface, out, err)
	}

	for i, server := range servers[1:] {
		out, err := n.run(ctx, "netsh", "interface", string(family), "add", "dnsservers", name,
			"address="+server.String(), "index="+strconv.Itoa(i+2), "validate=no")
		if err != nil {
			return classifyNetshError(iface, out, err)
		}
	}

	log.DebugContext(ctx, "Set DNS servers", "servers", servers)
	return nil
}

// parseNetshServers extracts the statically configured servers from the
// output of "netsh interface ipvX show dnsservers". The list starts on the
// "Statically Configured DNS Servers" line and continues over the following
// lines that hold a bare address.
func parseNetshServers(out []byte) []netip.Addr {
	var servers []netip.Addr
	static := false

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if _, err := netip.ParseAddr(line); err != nil {
			label, value, ok := strings.Cut(line, ":")
			if !ok {
				static = false
				continue
			}
			static = strings.Contains(strings.ToLower(label), "statically configured")
			line = strings.TrimSpace(value)
		}

		if !static {
			continue
		}
		if addr, err := netip.ParseAddr(line); err == nil {
			servers = append(servers, addr)
		}
	}
	return servers
}

// classifyNetshError maps well known netsh messages onto the error kinds.
func classifyNetshError(iface string, out []byte, err error) error {
	msg := strings.ToLower(string(out))
	switch {
	case strings.Contains(msg, "requires elevation"),
		strings.Contains(msg, "run as administrator"),
		strings.Contains(msg, "access is denied"):
		return fmt.Errorf("%w: %w", dnsconf.ErrPrivilege, err)
	case strings.Contains(msg, "element not found"),
		strings.Contains(msg, "volume label syntax is incorrect"),
		strings.Contains(msg, "interface name is invalid"):
		return fmt.Errorf("%w: %q", dnsconf.ErrInterfaceNotFound, iface)
	default:
		return err
	}
}
