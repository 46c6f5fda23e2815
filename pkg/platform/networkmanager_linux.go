// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package platform

import (
	"context"
	"encoding/binary"
	"fmt"
	"net/netip"

	dbus "github.com/godbus/dbus/v5"
	"github.com/telekom/switch-dns/internal/logger"
	"github.com/telekom/switch-dns/pkg/dnsconf"
)

const (
	networkManagerDest               = "org.freedesktop.NetworkManager"
	networkManagerObjectNode         = "/org/freedesktop/NetworkManager"
	networkManagerGetDeviceByIPIface = networkManagerDest + ".GetDeviceByIpIface"
	networkManagerDeviceIface        = networkManagerDest + ".Device"
	networkManagerGetApplied         = networkManagerDeviceIface + ".GetAppliedConnection"
	networkManagerReapply            = networkManagerDeviceIface + ".Reapply"
	networkManagerDNSManagerIface    = networkManagerDest + ".DnsManager"
	networkManagerDNSManagerNode     = networkManagerObjectNode + "/DnsManager"
	networkManagerDNSModeProperty    = "Mode"

	networkManagerDNSKey           = "dns"
	networkManagerIgnoreAutoDNSKey = "ignore-auto-dns"
)

var _ Configurator = (*NetworkManager)(nil)

type networkManagerSettings map[string]map[string]dbus.Variant

// cleanDeprecatedSettings removes settings that GetAppliedConnection still
// returns but Reapply rejects.
func (s networkManagerSettings) cleanDeprecatedSettings() {
	for _, key := range []string{"addresses", "routes"} {
		for _, f := range dnsconf.Families() {
			if settings, ok := s[string(f)]; ok {
				delete(settings, key)
			}
		}
	}
}

// NetworkManager manages the DNS servers of the connection applied to a device
// through the NetworkManager D-Bus API. Changes are reapplied to the running
// device and are not persisted in the connection profile.
type NetworkManager struct{}

// NewNetworkManager returns a NetworkManager configurator
func NewNetworkManager() *NetworkManager {
	return &NetworkManager{}
}

// Name returns the configurator name
func (n *NetworkManager) Name() string {
	return BackendNetworkManager
}

// Servers returns the static DNS servers of the applied connection
func (n *NetworkManager) Servers(ctx context.Context, iface string, family dnsconf.Family) ([]netip.Addr, error) {
	conn, device, err := n.device(ctx, iface)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	settings, _, err := n.applied(ctx, conn, device)
	if err != nil {
		return nil, classifyDBusError(iface, err)
	}
	return decodeNetworkManagerDNS(family, settings[string(family)][networkManagerDNSKey]), nil
}

// SetServers replaces the DNS servers of the family and reapplies the connection.
// An empty list lets the device use the servers obtained automatically again.
func (n *NetworkManager) SetServers(ctx context.Context, iface string, family dnsconf.Family, servers []netip.Addr) error {
	log := logger.FromContext(ctx).With("backend", n.Name(), "interface", iface, "family", family)

	conn, device, err := n.device(ctx, iface)
	if err != nil {
		return err
	}
	defer conn.Close()

	settings, version, err := n.applied(ctx, conn, device)
	if err != nil {
		return classifyDBusError(iface, err)
	}
	settings.cleanDeprecatedSettings()

	key := string(family)
	if settings[key] == nil {
		settings[key] = make(map[string]dbus.Variant)
	}
	if len(servers) == 0 {
		delete(settings[key], networkManagerDNSKey)
		settings[key][networkManagerIgnoreAutoDNSKey] = dbus.MakeVariant(false)
	} else {
		settings[key][networkManagerDNSKey] = encodeNetworkManagerDNS(family, servers)
		settings[key][networkManagerIgnoreAutoDNSKey] = dbus.MakeVariant(true)
	}

	log.DebugContext(ctx, "Reapplying connection", "servers", servers, "version", version)
	if err := conn.Object(networkManagerDest, device).CallWithContext(ctx, networkManagerReapply, 0, settings, version, uint32(0)).Store(); err != nil {
		return fmt.Errorf("reapply connection: %w", classifyDBusError(iface, err))
	}
	return nil
}

// device connects to the system bus and resolves the device object of iface.
// The caller must close the returned connection.
func (n *NetworkManager) device(ctx context.Context, iface string) (*dbus.Conn, dbus.ObjectPath, error) {
	conn, err := connectSystemBus(ctx)
	if err != nil {
		return nil, "", err
	}

	var device dbus.ObjectPath
	obj := conn.Object(networkManagerDest, networkManagerObjectNode)
	if err := obj.CallWithContext(ctx, networkManagerGetDeviceByIPIface, 0, iface).Store(&device); err != nil {
		_ = conn.Close()
		return nil, "", fmt.Errorf("get device by interface: %w", classifyDBusError(iface, err))
	}
	return conn, device, nil
}

func (n *NetworkManager) applied(ctx context.Context, conn *dbus.Conn, device dbus.ObjectPath) (networkManagerSettings, uint64, error) {
	var settings networkManagerSettings
	var version uint64
	if err := conn.Object(networkManagerDest, device).CallWithContext(ctx, networkManagerGetApplied, 0, uint32(0)).Store(&settings, &version); err != nil {
		return nil, 0, fmt.Errorf("get applied connection: %w", err)
	}
	return settings, version, nil
}

// encodeNetworkManagerDNS converts servers into the setting format:
// little-endian uint32 values for IPv4 and byte arrays for IPv6.
func encodeNetworkManagerDNS(family dnsconf.Family, servers []netip.Addr) dbus.Variant {
	if family == dnsconf.IPv4 {
		values := make([]uint32, 0, len(servers))
		for _, s := range servers {
			b := s.Unmap().As4()
			values = append(values, binary.LittleEndian.Uint32(b[:]))
		}
		return dbus.MakeVariant(values)
	}

	values := make([][]byte, 0, len(servers))
	for _, s := range servers {
		b := s.As16()
		values = append(values, b[:])
	}
	return dbus.MakeVariant(values)
}

func decodeNetworkManagerDNS(family dnsconf.Family, v dbus.Variant) []netip.Addr {
	var servers []netip.Addr
	switch values := v.Value().(type) {
	case []uint32:
		if family != dnsconf.IPv4 {
			return nil
		}
		for _, value := range values {
			var b [4]byte
			binary.LittleEndian.PutUint32(b[:], value)
			servers = append(servers, netip.AddrFrom4(b))
		}
	case [][]byte:
		if family != dnsconf.IPv6 {
			return nil
		}
		for _, value := range values {
			if addr, ok := netip.AddrFromSlice(value); ok {
				servers = append(servers, addr)
			}
		}
	}
	return servers
}

// networkManagerAvailable reports whether NetworkManager answers on the system bus
func networkManagerAvailable(ctx context.Context) bool {
	return ping(ctx, networkManagerDest, networkManagerObjectNode)
}

// networkManagerDNSMode returns the DNS processing mode, e.g. "default",
// "dnsmasq" or "systemd-resolved".
func networkManagerDNSMode(ctx context.Context) (string, error) {
	conn, err := connectSystemBus(ctx)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	v, err := getProperty(ctx, conn.Object(networkManagerDest, networkManagerDNSManagerNode), networkManagerDNSManagerIface, networkManagerDNSModeProperty)
	if err != nil {
		return "", err
	}
	mode, ok := v.Value().(string)
	if !ok {
		return "", fmt.Errorf("DNS mode is %T, not a string", v.Value())
	}
	return mode, nil
}
