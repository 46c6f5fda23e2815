// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package platform

import (
	"errors"
	"fmt"
	"net/netip"
	"testing"

	dbus "github.com/godbus/dbus/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/telekom/switch-dns/pkg/dnsconf"
)

func TestClassifyDBusError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{
			name:    "access denied",
			err:     dbus.Error{Name: dbusErrAccessDenied},
			wantErr: dnsconf.ErrPrivilege,
		},
		{
			name:    "interactive authorization required as pointer",
			err:     fmt.Errorf("set DNS: %w", &dbus.Error{Name: dbusErrAuthRequired}),
			wantErr: dnsconf.ErrPrivilege,
		},
		{
			name:    "unknown link",
			err:     dbus.Error{Name: resolvedErrNoSuchLink},
			wantErr: dnsconf.ErrInterfaceNotFound,
		},
		{
			name:    "unknown device",
			err:     dbus.Error{Name: networkManagerErrNoDevice},
			wantErr: dnsconf.ErrInterfaceNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, classifyDBusError("eth0", tt.err), tt.wantErr)
		})
	}

	t.Run("other errors pass through", func(t *testing.T) {
		err := errors.New("connection reset")
		assert.Equal(t, err, classifyDBusError("eth0", err))
	})
}

func TestNetworkManagerDNS(t *testing.T) {
	tests := []struct {
		name    string
		family  dnsconf.Family
		servers []netip.Addr
	}{
		{
			name:    "ipv4",
			family:  dnsconf.IPv4,
			servers: []netip.Addr{netip.MustParseAddr("1.1.1.1"), netip.MustParseAddr("9.9.9.9")},
		},
		{
			name:    "ipv6",
			family:  dnsconf.IPv6,
			servers: []netip.Addr{netip.MustParseAddr("2606:4700:4700::1111"), netip.MustParseAddr("2620:fe::fe")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := encodeNetworkManagerDNS(tt.family, tt.servers)
			got := decodeNetworkManagerDNS(tt.family, v)
			if diff := cmp.Diff(tt.servers, got, cmp.Comparer(func(a, b netip.Addr) bool { return a == b })); diff != "" {
				t.Errorf("decodeNetworkManagerDNS() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("ipv4 is little endian", func(t *testing.T) {
		v := encodeNetworkManagerDNS(dnsconf.IPv4, []netip.Addr{netip.MustParseAddr("1.2.3.4")})
		assert.Equal(t, []uint32{0x04030201}, v.Value())
	})

	t.Run("family mismatch yields nothing", func(t *testing.T) {
		v := encodeNetworkManagerDNS(dnsconf.IPv4, []netip.Addr{netip.MustParseAddr("1.2.3.4")})
		assert.Empty(t, decodeNetworkManagerDNS(dnsconf.IPv6, v))
	})
}

func TestNetworkManagerSettings_cleanDeprecatedSettings(t *testing.T) {
	s := networkManagerSettings{
		"ipv4": {
			"addresses": dbus.MakeVariant([][]uint32{{1}}),
			"routes":    dbus.MakeVariant([][]uint32{{2}}),
			"dns":       dbus.MakeVariant([]uint32{3}),
		},
		"ipv6": {
			"addresses": dbus.MakeVariant("x"),
		},
	}
	s.cleanDeprecatedSettings()

	assert.Len(t, s["ipv4"], 1)
	assert.Contains(t, s["ipv4"], "dns")
	assert.Empty(t, s["ipv6"])
}
