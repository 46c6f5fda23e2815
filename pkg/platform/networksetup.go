// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"net/netip"
	"strings"

	"github.com/telekom/switch-dns/internal/logger"
	"github.com/telekom/switch-dns/pkg/dnsconf"
)

const networksetupPath = "/usr/sbin/networksetup"

var _ Configurator = (*Networksetup)(nil)

// Networksetup manages DNS servers of a macOS network service, e.g. "Wi-Fi".
// networksetup keeps a single list for both families, so writing one family
// carries the servers of the other one over.
type Networksetup struct {
	run runFunc
}

// NewNetworksetup returns a networksetup based configurator.
func NewNetworksetup() *Networksetup {
	return &Networksetup{run: runCommand}
}

// Name returns the configurator name
func (n *Networksetup) Name() string {
	return BackendNetworksetup
}

// Servers returns the manually configured DNS servers of the family
func (n *Networksetup) Servers(ctx context.Context, iface string, family dnsconf.Family) ([]netip.Addr, error) {
	all, err := n.servers(ctx, iface)
	if err != nil {
		return nil, err
	}
	return filterFamily(family, all), nil
}

// SetServers replaces the DNS servers of the family
func (n *Networksetup) SetServers(ctx context.Context, iface string, family dnsconf.Family, servers []netip.Addr) error {
	log := logger.FromContext(ctx).With("backend", n.Name(), "interface", iface, "family", family)

	current, err := n.servers(ctx, iface)
	if err != nil {
		return err
	}

	merged := mergeFamily(family, servers, current)
	args := []string{"-setdnsservers", iface}
	if len(merged) == 0 {
		args = append(args, "Empty")
	}
	for _, addr := range merged {
		args = append(args, addr.String())
	}

	out, err := n.run(ctx, networksetupPath, args...)
	if cerr := classifyNetworksetupOutput(iface, out, err); cerr != nil {
		return cerr
	}

	log.DebugContext(ctx, "Set DNS servers", "servers", merged)
	return nil
}

func (n *Networksetup) servers(ctx context.Context, iface string) ([]netip.Addr, error) {
	out, err := n.run(ctx, networksetupPath, "-getdnsservers", iface)
	if cerr := classifyNetworksetupOutput(iface, out, err); cerr != nil {
		return nil, cerr
	}
	return parseNetworksetupServers(out), nil
}

// parseNetworksetupServers parses one address per line. The
// "There aren't any DNS Servers set" message yields no servers.
func parseNetworksetupServers(out []byte) []netip.Addr {
	var servers []netip.Addr
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		if addr, err := netip.ParseAddr(strings.TrimSpace(scanner.Text())); err == nil {
			servers = append(servers, addr)
		}
	}
	return servers
}

// classifyNetworksetupOutput detects failures. networksetup reports some of
// them on stdout with a zero exit code.
func classifyNetworksetupOutput(iface string, out []byte, err error) error {
	msg := strings.ToLower(string(out))
	switch {
	case strings.Contains(msg, "not a recognized network service"):
		return fmt.Errorf("%w: %q", dnsconf.ErrInterfaceNotFound, iface)
	case strings.Contains(msg, "requires admin privileges"),
		strings.Contains(msg, "must run this tool as root"),
		strings.Contains(msg, "permission denied"):
		return fmt.Errorf("%w: %s", dnsconf.ErrPrivilege, strings.TrimSpace(string(out)))
	case err != nil:
		return err
	case strings.Contains(msg, "** error"):
		return fmt.Errorf("networksetup: %s", strings.TrimSpace(string(out)))
	default:
		return nil
	}
}
