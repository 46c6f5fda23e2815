// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package platform

import (
	"context"
	"fmt"
	"net"
	"net/netip"

	dbus "github.com/godbus/dbus/v5"
	"github.com/telekom/switch-dns/internal/logger"
	"github.com/telekom/switch-dns/pkg/dnsconf"
	"golang.org/x/sys/unix"
)

const (
	resolvedDest             = "org.freedesktop.resolve1"
	resolvedObjectNode       = "/org/freedesktop/resolve1"
	resolvedManagerIface     = "org.freedesktop.resolve1.Manager"
	resolvedGetLinkMethod    = resolvedManagerIface + ".GetLink"
	resolvedFlushCacheMethod = resolvedManagerIface + ".FlushCaches"
	resolvedLinkIface        = "org.freedesktop.resolve1.Link"
	resolvedSetDNSMethod     = resolvedLinkIface + ".SetDNS"
	resolvedRevertMethod     = resolvedLinkIface + ".Revert"
	resolvedDNSProperty      = "DNS"
)

var _ Configurator = (*Resolved)(nil)

// resolvedDNS maps to the (iay) entries of the link DNS property and SetDNS argument
type resolvedDNS struct {
	Family  int32
	Address []byte
}

// Resolved manages per-link DNS servers through the systemd-resolved D-Bus API.
// systemd-resolved keeps one list per link, so both families are written together.
type Resolved struct {
	lookup func(name string) (*net.Interface, error)
}

// NewResolved returns a systemd-resolved configurator
func NewResolved() *Resolved {
	return &Resolved{lookup: lookupInterface}
}

// Name returns the configurator name
func (r *Resolved) Name() string {
	return BackendResolved
}

// Servers returns the DNS servers systemd-resolved holds for the link
func (r *Resolved) Servers(ctx context.Context, iface string, family dnsconf.Family) ([]netip.Addr, error) {
	conn, link, err := r.link(ctx, iface)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	all, err := r.linkServers(ctx, conn, link)
	if err != nil {
		return nil, classifyDBusError(iface, err)
	}
	return filterFamily(family, all), nil
}

// SetServers replaces the link servers of the family and keeps the ones of the other family.
// If no server is left the link is reverted.
func (r *Resolved) SetServers(ctx context.Context, iface string, family dnsconf.Family, servers []netip.Addr) error {
	log := logger.FromContext(ctx).With("backend", r.Name(), "interface", iface, "family", family)

	conn, link, err := r.link(ctx, iface)
	if err != nil {
		return err
	}
	defer conn.Close()

	current, err := r.linkServers(ctx, conn, link)
	if err != nil {
		return classifyDBusError(iface, err)
	}
	merged := mergeFamily(family, servers, current)

	obj := conn.Object(resolvedDest, link)
	if len(merged) == 0 {
		log.DebugContext(ctx, "Reverting link DNS configuration")
		if err := obj.CallWithContext(ctx, resolvedRevertMethod, 0).Store(); err != nil {
			return fmt.Errorf("revert DNS settings: %w", classifyDBusError(iface, err))
		}
	} else {
		input := make([]resolvedDNS, 0, len(merged))
		for _, addr := range merged {
			af := unix.AF_INET
			if addr.Is6() {
				af = unix.AF_INET6
			}
			input = append(input, resolvedDNS{Family: int32(af), Address: addr.AsSlice()})
		}
		log.DebugContext(ctx, "Setting link DNS servers", "servers", merged)
		if err := obj.CallWithContext(ctx, resolvedSetDNSMethod, 0, input).Store(); err != nil {
			return fmt.Errorf("set DNS servers: %w", classifyDBusError(iface, err))
		}
	}

	if err := conn.Object(resolvedDest, resolvedObjectNode).CallWithContext(ctx, resolvedFlushCacheMethod, 0).Store(); err != nil {
		log.WarnContext(ctx, "Failed to flush DNS cache", "error", err)
	}
	return nil
}

// link connects to the system bus and resolves the link object of iface.
// The caller must close the returned connection.
func (r *Resolved) link(ctx context.Context, iface string) (*dbus.Conn, dbus.ObjectPath, error) {
	ifi, err := r.lookup(iface)
	if err != nil {
		return nil, "", err
	}

	conn, err := connectSystemBus(ctx)
	if err != nil {
		return nil, "", err
	}

	var link dbus.ObjectPath
	obj := conn.Object(resolvedDest, resolvedObjectNode)
	if err := obj.CallWithContext(ctx, resolvedGetLinkMethod, 0, int32(ifi.Index)).Store(&link); err != nil {
		_ = conn.Close()
		return nil, "", fmt.Errorf("get link: %w", classifyDBusError(iface, err))
	}
	return conn, link, nil
}

func (r *Resolved) linkServers(ctx context.Context, conn *dbus.Conn, link dbus.ObjectPath) ([]netip.Addr, error) {
	v, err := getProperty(ctx, conn.Object(resolvedDest, link), resolvedLinkIface, resolvedDNSProperty)
	if err != nil {
		return nil, err
	}

	var entries []resolvedDNS
	if err := dbus.Store([]any{v.Value()}, &entries); err != nil {
		return nil, fmt.Errorf("decode link DNS property: %w", err)
	}

	servers := make([]netip.Addr, 0, len(entries))
	for _, e := range entries {
		addr, ok := netip.AddrFromSlice(e.Address)
		if !ok {
			continue
		}
		servers = append(servers, addr.Unmap())
	}
	return servers, nil
}

// resolvedAvailable reports whether systemd-resolved answers on the system bus
func resolvedAvailable(ctx context.Context) bool {
	return ping(ctx, resolvedDest, resolvedObjectNode)
}
