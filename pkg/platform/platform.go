// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"os/exec"
	"strings"

	"github.com/telekom/switch-dns/pkg/dnsconf"
)

const (
	// BackendAuto picks the backend for the running system
	BackendAuto = "auto"
	// BackendNetsh uses netsh on Windows
	BackendNetsh = "netsh"
	// BackendNetworksetup uses networksetup on macOS
	BackendNetworksetup = "networksetup"
	// BackendResolved uses the systemd-resolved D-Bus API
	BackendResolved = "systemd-resolved"
	// BackendNetworkManager uses the NetworkManager D-Bus API
	BackendNetworkManager = "networkmanager"
	// BackendResolvConf edits /etc/resolv.conf directly
	BackendResolvConf = "resolvconf"
)

// Backends returns the names accepted by [New].
func Backends() []string {
	return []string{BackendAuto, BackendNetsh, BackendNetworksetup, BackendResolved, BackendNetworkManager, BackendResolvConf}
}

// Configurator reads and writes the DNS servers of one interface through an
// OS network configuration facility.
//
//go:generate go tool moq -out configurator_moq.go . Configurator
type Configurator interface {
	// Name returns the backend name.
	Name() string
	// Servers returns the statically configured servers of the family in priority order.
	// Servers the OS obtained automatically are not reported.
	Servers(ctx context.Context, iface string, family dnsconf.Family) ([]netip.Addr, error)
	// SetServers replaces the static servers of the family.
	// An empty list reverts the family to automatic configuration.
	SetServers(ctx context.Context, iface string, family dnsconf.Family, servers []netip.Addr) error
}

// New returns the configurator for the named backend.
// An empty name or [BackendAuto] detects the backend for iface.
func New(ctx context.Context, backend, iface string) (Configurator, error) {
	switch backend {
	case "", BackendAuto:
		return Detect(ctx, iface), nil
	case BackendNetsh:
		return NewNetsh(), nil
	case BackendNetworksetup:
		return NewNetworksetup(), nil
	case BackendResolvConf:
		return NewResolvConf(defaultResolvConfPath), nil
	}
	if c, ok := newDBusConfigurator(backend); ok {
		return c, nil
	}
	return nil, ErrUnsupportedBackend{Backend: backend}
}

// runFunc executes a command and returns its combined output.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return out, nil
}

// lookupInterface reports [dnsconf.ErrInterfaceNotFound] if no interface has the given name.
func lookupInterface(name string) (*net.Interface, error) {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", dnsconf.ErrInterfaceNotFound, name)
	}
	return iface, nil
}

// mergeFamily returns servers followed by the entries of current that belong to the other family.
// It serves facilities that only accept one list for both families.
func mergeFamily(family dnsconf.Family, servers, current []netip.Addr) []netip.Addr {
	merged := make([]netip.Addr, 0, len(servers)+len(current))
	merged = append(merged, servers...)
	for _, addr := range current {
		if !family.Matches(addr) {
			merged = append(merged, addr)
		}
	}
	return merged
}

// filterFamily returns the entries of servers that belong to the family.
func filterFamily(family dnsconf.Family, servers []netip.Addr) []netip.Addr {
	var filtered []netip.Addr
	for _, addr := range servers {
		if family.Matches(addr) {
			filtered = append(filtered, addr)
		}
	}
	return filtered
}

// ErrUnsupportedBackend is returned when a backend is unknown or unavailable on this OS
type ErrUnsupportedBackend struct {
	Backend string
}

func (e ErrUnsupportedBackend) Error() string {
	return fmt.Sprintf("DNS backend %q is not supported on this system", e.Backend)
}
