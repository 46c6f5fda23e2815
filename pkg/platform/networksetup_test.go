// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telekom/switch-dns/pkg/dnsconf"
)

func TestParseNetworksetupServers(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want []netip.Addr
	}{
		{
			name: "mixed families",
			out:  "1.1.1.1\n1.0.0.1\n2606:4700:4700::1111\n",
			want: []netip.Addr{
				netip.MustParseAddr("1.1.1.1"),
				netip.MustParseAddr("1.0.0.1"),
				netip.MustParseAddr("2606:4700:4700::1111"),
			},
		},
		{
			name: "no servers",
			out:  "There aren't any DNS Servers set on Wi-Fi.\n",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseNetworksetupServers([]byte(tt.out)))
		})
	}
}

func TestNetworksetup_SetServers(t *testing.T) {
	tests := []struct {
		name    string
		current string
		family  dnsconf.Family
		servers []netip.Addr
		want    string
	}{
		{
			name:    "ipv4 keeps ipv6 servers",
			current: "192.168.1.1\nfd00::1\n",
			family:  dnsconf.IPv4,
			servers: []netip.Addr{netip.MustParseAddr("9.9.9.9"), netip.MustParseAddr("149.112.112.112")},
			want:    networksetupPath + " -setdnsservers Wi-Fi 9.9.9.9 149.112.112.112 fd00::1",
		},
		{
			name:    "revert last family empties the list",
			current: "2620:fe::fe\n",
			family:  dnsconf.IPv6,
			want:    networksetupPath + " -setdnsservers Wi-Fi Empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recordedRun{outputs: map[string]string{networksetupPath + " -getdnsservers": tt.current}}
			n := &Networksetup{run: r.run}

			err := n.SetServers(t.Context(), "Wi-Fi", tt.family, tt.servers)
			require.NoError(t, err)
			require.Len(t, r.calls, 2)
			assert.Equal(t, tt.want, r.calls[1])
		})
	}
}

func TestNetworksetup_errors(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		wantErr error
	}{
		{"unknown service", "Wi-Fi2 is not a recognized network service.\n** Error: The parameters were not valid.\n", dnsconf.ErrInterfaceNotFound},
		{"not root", "You must run this tool as root.\n", dnsconf.ErrPrivilege},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recordedRun{outputs: map[string]string{networksetupPath: tt.out}}
			n := &Networksetup{run: r.run}

			_, err := n.Servers(t.Context(), "Wi-Fi2", dnsconf.IPv4)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
